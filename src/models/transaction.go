package models

import (
	"time"

	"brightaid/src/types"
)

// Transaction is the gateway-facing payment record. Exactly one of DonorID
// and NgoID is set. Rows are immutable once terminal except for the gateway
// metadata fields echoed back by the IPN.
type Transaction struct {
	ID uint `gorm:"primarykey" json:"id"`

	DonorID *uint `json:"donor_id,omitempty"`
	NgoID   *uint `json:"ngo_id,omitempty"`

	Reference string                  `gorm:"uniqueIndex" json:"reference"`
	Amount    float64                 `json:"amount"`
	Currency  string                  `gorm:"default:BDT" json:"currency"`
	Status    types.TransactionStatus `gorm:"default:pending" json:"status"`

	SessionKey      string `json:"session_key,omitempty"`
	ProductName     string `json:"product_name,omitempty"`
	ProductCategory string `json:"product_category,omitempty"`

	// Structured beneficiary refs are the source of truth; ProductName
	// parsing only backfills callbacks from gateways that drop them.
	ProjectID *uint `json:"project_id,omitempty"`
	StudentID *uint `json:"student_id,omitempty"`

	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`

	DonorMessage string `json:"donor_message,omitempty"`
	IsAnonymous  bool   `json:"is_anonymous,omitempty"`

	Metadata types.JSONB `json:"metadata,omitempty"`

	InitiatedAt time.Time  `json:"initiated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	types.Timestamps

	Donor *Donor `gorm:"foreignKey:donor_id" json:"-"`
	Ngo   *Ngo   `gorm:"foreignKey:ngo_id" json:"-"`
}
