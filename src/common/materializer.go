package common

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"brightaid/src/db"
	"brightaid/src/models"
	"brightaid/src/types"

	"gorm.io/gorm"
)

var (
	projectDescriptorRe = regexp.MustCompile(`(?i)project id:\s*(\d+)`)
	studentDescriptorRe = regexp.MustCompile(`(?i)student id:\s*(\d+)`)
)

// ParseBeneficiaryDescriptor extracts a beneficiary from a free-text product
// name. Structured ids on the transaction are the source of truth; this is a
// compatibility shim for rows initiated without them.
func ParseBeneficiaryDescriptor(descriptor string) (studentId *uint, projectId *uint, sponsorship bool) {
	if m := studentDescriptorRe.FindStringSubmatch(descriptor); m != nil {
		if id, err := strconv.ParseUint(m[1], 10, 64); err == nil {
			v := uint(id)
			studentId = &v
		}
	}
	if m := projectDescriptorRe.FindStringSubmatch(descriptor); m != nil {
		if id, err := strconv.ParseUint(m[1], 10, 64); err == nil {
			v := uint(id)
			projectId = &v
		}
	}
	sponsorship = strings.Contains(strings.ToLower(descriptor), "sponsorship")
	return
}

// MaterializeDonation turns a successful Transaction into its one Donation
// row. The unique index on transaction_id makes re-invocation safe: a repeat
// call returns ErrAlreadyMaterialized and writes nothing. Derived-state
// recomputation runs after the ledger commit and never rolls it back.
func MaterializeDonation(txn *models.Transaction) (*models.Donation, error) {
	if txn.Status != types.TRANSACTION_SUCCESS {
		return nil, fmt.Errorf("%w: transaction %s is %s, not %s", ErrValidation, txn.Reference, txn.Status, types.TRANSACTION_SUCCESS)
	}
	if (txn.DonorID == nil) == (txn.NgoID == nil) {
		return nil, fmt.Errorf("%w: transaction %s does not name exactly one actor", ErrValidation, txn.Reference)
	}

	d := db.GetDb()
	donation := models.Donation{}
	err := d.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Donation{}).Where("transaction_id = ?", txn.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyMaterialized
		}

		studentId, projectId := txn.StudentID, txn.ProjectID
		parsedStudent, parsedProject, sponsorship := ParseBeneficiaryDescriptor(txn.ProductName)
		if studentId == nil {
			studentId = parsedStudent
		}
		if projectId == nil {
			projectId = parsedProject
		}
		if studentId == nil && projectId == nil && sponsorship {
			student, err := FindStudentForSponsorship(tx)
			if err != nil {
				return err
			}
			if student != nil {
				studentId = &student.ID
				log.Printf("Auto-assigned student [%d] for transaction [%s]\n", student.ID, txn.Reference)
			}
		}

		channel := types.CHANNEL_DONOR
		if txn.NgoID != nil {
			channel = types.CHANNEL_NGO_PROJECT
			if studentId != nil {
				channel = types.CHANNEL_NGO_STUDENT
			}
		}
		purpose := types.PURPOSE_GENERAL_SUPPORT
		if studentId != nil {
			purpose = types.PURPOSE_STUDENT_SPONSORSHIP
		} else if projectId != nil {
			purpose = types.PURPOSE_SCHOOL_PROJECT
		}

		completedAt := txn.CompletedAt
		if completedAt == nil {
			now := timeNow()
			completedAt = &now
		}
		donation = models.Donation{
			Channel:            channel,
			DonorID:            txn.DonorID,
			NgoID:              txn.NgoID,
			StudentID:          studentId,
			ProjectID:          projectId,
			Amount:             txn.Amount,
			PaymentStatus:      types.PAYMENT_COMPLETED,
			Purpose:            purpose,
			TransactionID:      &txn.ID,
			DonorMessage:       txn.DonorMessage,
			IsAnonymous:        txn.IsAnonymous,
			DonatedAt:          txn.InitiatedAt,
			PaymentCompletedAt: completedAt,
		}
		return tx.Create(&donation).Error
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyMaterialized) {
			return nil, fmt.Errorf("%w: transaction %d", ErrAlreadyMaterialized, txn.ID)
		}
		return nil, err
	}
	log.Printf("Materialized donation [%d] for transaction [%s] on channel %s\n", donation.ID, txn.Reference, donation.Channel)

	// Derived state only. The ledger row above is already committed and
	// stays regardless of what happens here.
	if donation.StudentID != nil {
		if err := ReconcileScholarshipFlags(); err != nil {
			log.Printf("Error reconciling scholarship flags after donation [%d]: %s\n", donation.ID, err.Error())
		}
	}
	actorKind, actorId := types.ACTOR_DONOR, uint(0)
	if txn.DonorID != nil {
		actorId = *txn.DonorID
	} else {
		actorKind, actorId = types.ACTOR_NGO, *txn.NgoID
	}
	if _, err := RecomputeGamification(actorKind, actorId); err != nil {
		log.Printf("Error recomputing gamification for %s [%d]: %s\n", actorKind, actorId, err.Error())
	}
	return &donation, nil
}
