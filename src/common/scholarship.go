package common

import (
	"log"

	"brightaid/src/db"
	"brightaid/src/models"
	"brightaid/src/types"

	"gorm.io/gorm"
)

// ReconcileScholarshipFlags recomputes has_scholarship for every student
// from scratch: true iff a completed donation in a student-facing channel
// finished inside the current calendar month. Full replace means a flag set
// last month goes false on the first run after the month turns, and
// overlapping triggers (cron plus post-materialization) are harmless.
func ReconcileScholarshipFlags() error {
	d := db.GetDb()
	return d.Transaction(func(tx *gorm.DB) error {
		sponsored, err := studentIdsSponsoredThisMonth(tx)
		if err != nil {
			return err
		}

		clearQ := tx.Model(&models.Student{}).Where("has_scholarship = ?", true)
		if len(sponsored) > 0 {
			clearQ = clearQ.Where("id NOT IN ?", sponsored)
		}
		if err := clearQ.Update("has_scholarship", false).Error; err != nil {
			return err
		}
		if len(sponsored) > 0 {
			err := tx.Model(&models.Student{}).
				Where("id IN ? AND has_scholarship = ?", sponsored, false).
				Update("has_scholarship", true).
				Error
			if err != nil {
				return err
			}
		}
		log.Printf("Scholarship flags reconciled, %d students sponsored this month\n", len(sponsored))
		return nil
	})
}

// FixHistoricalScholarships is the one-time backfill: any student with a
// completed student-facing donation ever gets the flag. It only sets, never
// clears; the monthly reconciler owns clearing.
func FixHistoricalScholarships() (int64, error) {
	d := db.GetDb()
	var fixed int64
	err := d.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		err := tx.Model(&models.Donation{}).
			Where("student_id IS NOT NULL").
			Where("channel IN ?", []types.DonationChannel{types.CHANNEL_DONOR, types.CHANNEL_NGO_STUDENT}).
			Where("payment_status = ?", types.PAYMENT_COMPLETED).
			Distinct().
			Pluck("student_id", &ids).
			Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		res := tx.Model(&models.Student{}).
			Where("id IN ? AND has_scholarship = ?", ids, false).
			Update("has_scholarship", true)
		fixed = res.RowsAffected
		return res.Error
	})
	return fixed, err
}

func GetScholarshipSummary() (*types.ScholarshipSummary, error) {
	d := db.GetDb()
	summary := types.ScholarshipSummary{}
	if err := d.Model(&models.Student{}).Count(&summary.TotalStudents).Error; err != nil {
		return nil, err
	}
	if err := d.Model(&models.Student{}).Where("has_scholarship = ?", true).Count(&summary.WithScholarship).Error; err != nil {
		return nil, err
	}
	summary.WithoutScholarship = summary.TotalStudents - summary.WithScholarship
	return &summary, nil
}
