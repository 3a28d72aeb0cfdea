package common

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"brightaid/src/db"
	"brightaid/src/models"
	"brightaid/src/types"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_txlock=immediate", filepath.Join(t.TempDir(), "test.db"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	err = gdb.AutoMigrate(
		&models.Donor{},
		&models.Ngo{},
		&models.School{},
		&models.Student{},
		&models.SchoolProject{},
		&models.Transaction{},
		&models.Donation{},
		&models.FundUtilization{},
		&models.FundTransparency{},
		&models.Gamification{},
	)
	require.NoError(t, err)
	db.NewDB(gdb)
	return gdb
}

func seedDonor(t *testing.T, gdb *gorm.DB, name string) *models.Donor {
	t.Helper()
	donor := models.Donor{Name: name, Email: name + "@example.com", Phone: "01700000000"}
	require.NoError(t, gdb.Create(&donor).Error)
	return &donor
}

func seedNgo(t *testing.T, gdb *gorm.DB, name string) *models.Ngo {
	t.Helper()
	ngo := models.Ngo{Name: name, Email: name + "@example.org", Phone: "01800000000"}
	require.NoError(t, gdb.Create(&ngo).Error)
	return &ngo
}

func seedSchool(t *testing.T, gdb *gorm.DB, name string) *models.School {
	t.Helper()
	school := models.School{Name: name, District: "Dhaka"}
	require.NoError(t, gdb.Create(&school).Error)
	return &school
}

func seedStudent(t *testing.T, gdb *gorm.DB, schoolId uint, name string, income float64, risk types.RiskLevel) *models.Student {
	t.Helper()
	student := models.Student{Name: name, SchoolID: schoolId, FamilyIncome: income, DropoutRisk: risk}
	require.NoError(t, gdb.Create(&student).Error)
	return &student
}

func seedProject(t *testing.T, gdb *gorm.DB, schoolId uint, title string) *models.SchoolProject {
	t.Helper()
	project := models.SchoolProject{SchoolID: schoolId, ProjectTitle: title, TargetAmount: 100000, Status: types.PROJECT_ACTIVE}
	require.NoError(t, gdb.Create(&project).Error)
	return &project
}

func seedCompletedDonation(t *testing.T, gdb *gorm.DB, donation *models.Donation) *models.Donation {
	t.Helper()
	if donation.DonatedAt.IsZero() {
		donation.DonatedAt = time.Now()
	}
	if donation.PaymentCompletedAt == nil {
		now := time.Now()
		donation.PaymentCompletedAt = &now
	}
	donation.PaymentStatus = types.PAYMENT_COMPLETED
	require.NoError(t, gdb.Create(donation).Error)
	return donation
}

func freezeTime(t *testing.T, at time.Time) {
	t.Helper()
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = time.Now })
}
