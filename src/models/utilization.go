package models

import (
	"time"

	"brightaid/src/types"
)

// FundUtilization records spend a school reports against a project. When
// DonationID is set the row draws against that donation and may never push
// its remaining balance below zero. A nil DonationID is the project-level
// escape hatch for spend reported before a donation is chosen.
type FundUtilization struct {
	ID uint `gorm:"primarykey" json:"id"`

	ProjectID  uint  `gorm:"index" json:"project_id"`
	DonationID *uint `gorm:"index" json:"donation_id,omitempty"`

	AmountUsed          float64 `json:"amount_used"`
	SpecificPurpose     string  `json:"specific_purpose"`
	DetailedDescription string  `json:"detailed_description,omitempty"`
	VendorName          string  `json:"vendor_name,omitempty"`
	BillInvoiceNumber   string  `json:"bill_invoice_number,omitempty"`

	UtilizationDate *time.Time              `json:"utilization_date,omitempty"`
	Status          types.UtilizationStatus `gorm:"default:pending" json:"status"`

	types.Timestamps

	Donation     *Donation          `gorm:"foreignKey:donation_id" json:"donation,omitempty"`
	Project      *SchoolProject     `gorm:"foreignKey:project_id" json:"project,omitempty"`
	Transparency []FundTransparency `gorm:"foreignKey:utilization_id" json:"transparency,omitempty"`
}
