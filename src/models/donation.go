package models

import (
	"time"

	"brightaid/src/types"
)

// Donation is the immutable ledger row one successful Transaction turns
// into. The Channel discriminant replaces the three parallel tables the
// platform started with; remaining-balance math lives in one place because
// of it. TransactionID is the materialization idempotency key.
type Donation struct {
	ID uint `gorm:"primarykey" json:"id"`

	Channel types.DonationChannel `gorm:"index" json:"channel"`

	DonorID   *uint `json:"donor_id,omitempty"`
	NgoID     *uint `json:"ngo_id,omitempty"`
	StudentID *uint `gorm:"index" json:"student_id,omitempty"`
	ProjectID *uint `gorm:"index" json:"project_id,omitempty"`

	Amount        float64               `json:"amount"`
	PaymentStatus types.PaymentStatus   `gorm:"index;default:pending" json:"payment_status"`
	Purpose       types.DonationPurpose `json:"purpose"`

	TransactionID *uint `gorm:"uniqueIndex" json:"transaction_id,omitempty"`

	DonorMessage string `json:"donor_message,omitempty"`
	IsAnonymous  bool   `json:"is_anonymous,omitempty"`

	DonatedAt          time.Time  `json:"donated_at"`
	PaymentCompletedAt *time.Time `json:"payment_completed_at,omitempty"`

	types.Timestamps

	Donor   *Donor         `gorm:"foreignKey:donor_id" json:"donor,omitempty"`
	Ngo     *Ngo           `gorm:"foreignKey:ngo_id" json:"ngo,omitempty"`
	Student *Student       `gorm:"foreignKey:student_id" json:"student,omitempty"`
	Project *SchoolProject `gorm:"foreignKey:project_id" json:"project,omitempty"`
}
