package common

import (
	"time"

	"brightaid/src/models"
	"brightaid/src/types"

	"gorm.io/gorm"
)

// studentIdsSponsoredThisMonth returns the students who already have a
// completed sponsorship-channel donation dated in the current calendar
// month. Auto-assignment skips them so one student cannot soak up every
// open-ended sponsorship.
func studentIdsSponsoredThisMonth(tx *gorm.DB) ([]uint, error) {
	now := timeNow()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var ids []uint
	err := tx.Model(&models.Donation{}).
		Where("student_id IS NOT NULL").
		Where("channel IN ?", []types.DonationChannel{types.CHANNEL_DONOR, types.CHANNEL_NGO_STUDENT}).
		Where("payment_status = ?", types.PAYMENT_COMPLETED).
		Where("payment_completed_at >= ?", monthStart).
		Distinct().
		Pluck("student_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindStudentForSponsorship picks the beneficiary for an open-ended
// sponsorship donation. Preference order: high-dropout-risk students not yet
// sponsored this month by ascending family income, then the lowest-income
// unflagged student under the same monthly exclusion. A nil result means the
// donation lands as general support.
func FindStudentForSponsorship(tx *gorm.DB) (*models.Student, error) {
	excluded, err := studentIdsSponsoredThisMonth(tx)
	if err != nil {
		return nil, err
	}

	q := tx.Model(&models.Student{}).
		Where("dropout_risk = ?", types.RISK_HIGH).
		Order("family_income asc")
	if len(excluded) > 0 {
		q = q.Where("id NOT IN ?", excluded)
	}
	var student models.Student
	if err := q.First(&student).Error; err == nil {
		return &student, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	q = tx.Model(&models.Student{}).
		Where("has_scholarship = ?", false).
		Order("family_income asc")
	if len(excluded) > 0 {
		q = q.Where("id NOT IN ?", excluded)
	}
	if err := q.First(&student).Error; err == nil {
		return &student, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return nil, nil
}
