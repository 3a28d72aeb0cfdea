package common

import (
	"testing"
	"time"

	"brightaid/src/models"
	"brightaid/src/types"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type GamificationTestSuite struct {
	suite.Suite
	DB     *gorm.DB
	Donor  *models.Donor
	Ngo    *models.Ngo
	School *models.School
}

func (s *GamificationTestSuite) SetupTest() {
	s.DB = newTestDB(s.T())
	s.Donor = seedDonor(s.T(), s.DB, "gam-donor")
	s.Ngo = seedNgo(s.T(), s.DB, "gam-ngo")
	s.School = seedSchool(s.T(), s.DB, "gam-school")
}

func (s *GamificationTestSuite) TestFormula() {
	student := seedStudent(s.T(), s.DB, s.School.ID, "gam-student", 3000, types.RISK_LOW)
	seedCompletedDonation(s.T(), s.DB, &models.Donation{
		Channel:   types.CHANNEL_DONOR,
		DonorID:   &s.Donor.ID,
		StudentID: &student.ID,
		Amount:    1000,
		Purpose:   types.PURPOSE_STUDENT_SPONSORSHIP,
	})

	record, err := RecomputeGamification(types.ACTOR_DONOR, s.Donor.ID)
	s.NoError(err)
	// 50 base + 1000/100 donation points + 50 one student + 100 one school
	s.Equal(210, record.TotalPoints)
	// min(210/100, 8.0) + one active month * 0.3
	s.Equal(2.4, record.ImpactScore)
	s.Equal(types.JSONBArray{"New Donor"}, record.Badges)
}

func (s *GamificationTestSuite) TestBadgeThresholds() {
	student := seedStudent(s.T(), s.DB, s.School.ID, "gam-student", 3000, types.RISK_LOW)
	seedCompletedDonation(s.T(), s.DB, &models.Donation{
		Channel:   types.CHANNEL_DONOR,
		DonorID:   &s.Donor.ID,
		StudentID: &student.ID,
		Amount:    150000,
		Purpose:   types.PURPOSE_STUDENT_SPONSORSHIP,
	})

	record, err := RecomputeGamification(types.ACTOR_DONOR, s.Donor.ID)
	s.NoError(err)
	// 50 + 1500 + 50 + 100
	s.Equal(1700, record.TotalPoints)
	// min(17, 8.0) + 0.3
	s.Equal(8.3, record.ImpactScore)
	s.Equal(types.JSONBArray{"Starter", "Good Impact", "Consistent Performer"}, record.Badges)
}

func (s *GamificationTestSuite) TestDonationPointsCap() {
	seedCompletedDonation(s.T(), s.DB, &models.Donation{
		Channel: types.CHANNEL_DONOR,
		DonorID: &s.Donor.ID,
		Amount:  10000000,
		Purpose: types.PURPOSE_GENERAL_SUPPORT,
	})

	record, err := RecomputeGamification(types.ACTOR_DONOR, s.Donor.ID)
	s.NoError(err)
	// donation points cap at 5000, no beneficiary bonuses
	s.Equal(5050, record.TotalPoints)
	s.Equal(8.3, record.ImpactScore)
}

func (s *GamificationTestSuite) TestRecomputePurity() {
	seedCompletedDonation(s.T(), s.DB, &models.Donation{
		Channel: types.CHANNEL_NGO_PROJECT,
		NgoID:   &s.Ngo.ID,
		Amount:  2500,
		Purpose: types.PURPOSE_GENERAL_SUPPORT,
	})

	first, err := RecomputeGamification(types.ACTOR_NGO, s.Ngo.ID)
	s.NoError(err)
	second, err := RecomputeGamification(types.ACTOR_NGO, s.Ngo.ID)
	s.NoError(err)
	s.Equal(first.TotalPoints, second.TotalPoints)
	s.Equal(first.ImpactScore, second.ImpactScore)
	s.Equal(first.Badges, second.Badges)

	var rows int64
	s.NoError(s.DB.Model(&models.Gamification{}).Count(&rows).Error)
	s.Equal(int64(1), rows)
}

func (s *GamificationTestSuite) TestRecomputeReplacesDrift() {
	seedCompletedDonation(s.T(), s.DB, &models.Donation{
		Channel: types.CHANNEL_DONOR,
		DonorID: &s.Donor.ID,
		Amount:  1000,
		Purpose: types.PURPOSE_GENERAL_SUPPORT,
	})
	drifted := models.Gamification{
		ActorKind:   types.ACTOR_DONOR,
		ActorID:     s.Donor.ID,
		TotalPoints: 999999,
		ImpactScore: 10,
		Badges:      types.JSONBArray{"Champion"},
		LastUpdated: time.Now(),
	}
	s.Require().NoError(s.DB.Create(&drifted).Error)

	record, err := RecomputeGamification(types.ACTOR_DONOR, s.Donor.ID)
	s.NoError(err)
	s.Equal(60, record.TotalPoints)
	s.Equal(types.JSONBArray{"New Donor"}, record.Badges)

	var stored models.Gamification
	s.NoError(s.DB.Where("actor_kind = ? AND actor_id = ?", types.ACTOR_DONOR, s.Donor.ID).First(&stored).Error)
	s.Equal(60, stored.TotalPoints)
}

func (s *GamificationTestSuite) TestConsistencyBonus() {
	now := time.Now()
	anchor := time.Date(now.Year(), now.Month(), 15, 12, 0, 0, 0, time.UTC)
	for months := 0; months < 4; months++ {
		completedAt := anchor.AddDate(0, -months, 0)
		seedCompletedDonation(s.T(), s.DB, &models.Donation{
			Channel:            types.CHANNEL_DONOR,
			DonorID:            &s.Donor.ID,
			Amount:             100,
			Purpose:            types.PURPOSE_GENERAL_SUPPORT,
			DonatedAt:          completedAt,
			PaymentCompletedAt: &completedAt,
		})
	}

	record, err := RecomputeGamification(types.ACTOR_DONOR, s.Donor.ID)
	s.NoError(err)
	// 50 + 4 donation points, four active months worth of bonus
	s.Equal(54, record.TotalPoints)
	s.Equal(1.7, record.ImpactScore)
}

func (s *GamificationTestSuite) TestGetCreatesDefaultOnFirstRead() {
	record, err := GetGamification(types.ACTOR_DONOR, s.Donor.ID)
	s.NoError(err)
	s.Equal(50, record.TotalPoints)
	s.Equal(0.5, record.ImpactScore)
	s.Equal(types.JSONBArray{"New Donor"}, record.Badges)

	var rows int64
	s.NoError(s.DB.Model(&models.Gamification{}).Count(&rows).Error)
	s.Equal(int64(1), rows)

	_, err = GetGamification(types.ACTOR_DONOR, 99999)
	s.ErrorIs(err, ErrNotFound)
}

func (s *GamificationTestSuite) TestRefreshAll() {
	seedCompletedDonation(s.T(), s.DB, &models.Donation{
		Channel: types.CHANNEL_DONOR,
		DonorID: &s.Donor.ID,
		Amount:  100,
		Purpose: types.PURPOSE_GENERAL_SUPPORT,
	})
	seedCompletedDonation(s.T(), s.DB, &models.Donation{
		Channel: types.CHANNEL_NGO_PROJECT,
		NgoID:   &s.Ngo.ID,
		Amount:  100,
		Purpose: types.PURPOSE_GENERAL_SUPPORT,
	})

	refreshed, err := RefreshAllGamifications()
	s.NoError(err)
	s.Equal(2, refreshed)

	var rows int64
	s.NoError(s.DB.Model(&models.Gamification{}).Count(&rows).Error)
	s.Equal(int64(2), rows)
}

func TestGamificationSuite(t *testing.T) {
	suite.Run(t, new(GamificationTestSuite))
}
