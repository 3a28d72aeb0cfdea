package common

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"brightaid/src/db"
	"brightaid/src/lib"
	"brightaid/src/models"
	"brightaid/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// timeNow is swapped in tests that cross month boundaries.
var timeNow = time.Now

// InitiatePayment validates the actor, persists a pending Transaction and
// opens a gateway session. The gateway call happens outside any database
// transaction so a slow gateway never holds a ledger lock.
func InitiatePayment(body *types.InitiatePaymentRequestBody) (*models.Transaction, string, error) {
	if (body.DonorID == nil) == (body.NgoID == nil) {
		return nil, "", fmt.Errorf("%w: exactly one of donor_id and ngo_id must be set", ErrValidation)
	}
	if body.Amount <= 0 {
		return nil, "", fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	}

	d := db.GetDb()
	var customerName, customerEmail, customerPhone string
	if body.DonorID != nil {
		var donor models.Donor
		if err := d.Where("id = ?", *body.DonorID).First(&donor).Error; err != nil {
			return nil, "", fmt.Errorf("%w: donor %d", ErrNotFound, *body.DonorID)
		}
		customerName, customerEmail, customerPhone = donor.Name, donor.Email, donor.Phone
	} else {
		var ngo models.Ngo
		if err := d.Where("id = ?", *body.NgoID).First(&ngo).Error; err != nil {
			return nil, "", fmt.Errorf("%w: ngo %d", ErrNotFound, *body.NgoID)
		}
		customerName, customerEmail, customerPhone = ngo.Name, ngo.Email, ngo.Phone
	}

	category := body.ProductCategory
	if category == "" {
		category = "Donation"
	}
	reference := "TXN_" + strings.Split(uuid.NewString(), "-")[0]
	txn := models.Transaction{
		DonorID:         body.DonorID,
		NgoID:           body.NgoID,
		Reference:       reference,
		Amount:          body.Amount,
		Currency:        "BDT",
		Status:          types.TRANSACTION_PENDING,
		ProductName:     body.ProductName,
		ProductCategory: category,
		ProjectID:       body.ProjectID,
		StudentID:       body.StudentID,
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		CustomerPhone:   customerPhone,
		DonorMessage:    body.DonorMessage,
		IsAnonymous:     body.IsAnonymous,
		InitiatedAt:     timeNow(),
	}
	if err := d.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&txn).Error
	}); err != nil {
		return nil, "", err
	}

	sess, err := lib.GetGatewayClient().CreateSession(context.Background(), &lib.GatewaySessionRequest{
		Reference:       reference,
		Amount:          body.Amount,
		Currency:        txn.Currency,
		CustomerName:    customerName,
		CustomerEmail:   customerEmail,
		CustomerPhone:   customerPhone,
		ProductName:     body.ProductName,
		ProductCategory: category,
	})
	if err != nil {
		// Timeout or transport error: the charge may still land at the
		// gateway, so the row stays pending for the callback to settle.
		log.Printf("Error opening gateway session for [%s]: %s\n", reference, err.Error())
		return &txn, "", fmt.Errorf("%w: %s", ErrGatewayFailure, err.Error())
	}
	if sess.Status != "SUCCESS" {
		if err := d.Model(&models.Transaction{}).
			Where("reference = ? AND status = ?", reference, types.TRANSACTION_PENDING).
			Update("status", types.TRANSACTION_FAILED).
			Error; err != nil {
			log.Printf("Error failing transaction [%s]: %s\n", reference, err.Error())
		}
		reason := sess.FailedReason
		if reason == "" {
			reason = "unknown gateway error"
		}
		return &txn, "", fmt.Errorf("%w: %s", ErrGatewayFailure, reason)
	}

	if err := d.Model(&models.Transaction{}).
		Where("reference = ?", reference).
		Update("session_key", sess.SessionKey).
		Error; err != nil {
		log.Printf("Error storing session key for [%s]: %s\n", reference, err.Error())
	}
	txn.SessionKey = sess.SessionKey
	return &txn, sess.RedirectURL, nil
}

// HandlePaymentCallback settles a transaction from a gateway notification.
// Only a pending row may transition; the update is a compare-and-set on the
// status column so duplicate notifications are no-ops. Materialization
// failure after a captured charge never re-opens the transaction.
func HandlePaymentCallback(reference string, outcome string, metadata map[string]string) error {
	var target types.TransactionStatus
	switch strings.ToUpper(outcome) {
	case "VALID", "VALIDATED":
		target = types.TRANSACTION_SUCCESS
	case "FAILED":
		target = types.TRANSACTION_FAILED
	case "CANCELLED":
		target = types.TRANSACTION_CANCELLED
	default:
		return fmt.Errorf("%w: unknown gateway outcome %q", ErrValidation, outcome)
	}

	d := db.GetDb()
	var txn models.Transaction
	if err := d.Where("reference = ?", reference).First(&txn).Error; err != nil {
		return fmt.Errorf("%w: transaction %s", ErrNotFound, reference)
	}

	// Gateway echo fields are recorded even for rows already settled.
	if len(metadata) > 0 {
		md := types.JSONB{}
		for k, v := range metadata {
			if v != "" {
				md[k] = v
			}
		}
		if err := d.Model(&models.Transaction{}).
			Where("reference = ?", reference).
			Update("metadata", md).
			Error; err != nil {
			log.Printf("Error recording gateway metadata for [%s]: %s\n", reference, err.Error())
		}
	}

	now := timeNow()
	res := d.Model(&models.Transaction{}).
		Where("reference = ? AND status = ?", reference, types.TRANSACTION_PENDING).
		Updates(&models.Transaction{Status: target, CompletedAt: &now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("Duplicate gateway notification for [%s], current status stands\n", reference)
		return nil
	}
	log.Printf("Transaction [%s] settled as %s\n", reference, target)

	if target != types.TRANSACTION_SUCCESS {
		return nil
	}
	txn.Status = target
	txn.CompletedAt = &now
	if _, err := MaterializeDonation(&txn); err != nil {
		// The money was captured; this is a reconciliation incident, not a
		// reason to reopen the transaction.
		log.Printf("Materialization failed for transaction [%s], manual reconciliation required: %s\n", reference, err.Error())
	}
	return nil
}

// ListPendingTransactions surfaces stale pending rows for operator
// reconciliation against the gateway.
func ListPendingTransactions(olderThan time.Duration) ([]models.Transaction, error) {
	d := db.GetDb()
	cutoff := timeNow().Add(-olderThan)
	var txns []models.Transaction
	if err := d.Model(&models.Transaction{}).
		Where("status = ? AND initiated_at < ?", types.TRANSACTION_PENDING, cutoff).
		Order("initiated_at asc").
		Find(&txns).
		Error; err != nil {
		return nil, err
	}
	return txns, nil
}
