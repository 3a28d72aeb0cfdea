package models

import "brightaid/src/types"

// FundTransparency is descriptive evidence attached to a utilization:
// photos, quantities, unit cost, feedback. No invariant beyond the parent
// row existing.
type FundTransparency struct {
	ID uint `gorm:"primarykey" json:"id"`

	UtilizationID uint `gorm:"index" json:"utilization_id"`

	BeforePhotos        types.JSONBArray `json:"before_photos,omitempty"`
	AfterPhotos         types.JSONBArray `json:"after_photos,omitempty"`
	BeneficiaryFeedback string           `json:"beneficiary_feedback,omitempty"`
	QuantityPurchased   *uint            `json:"quantity_purchased,omitempty"`
	UnitMeasurement     string           `json:"unit_measurement,omitempty"`
	UnitCost            *float64         `json:"unit_cost,omitempty"`
	AdditionalNotes     string           `json:"additional_notes,omitempty"`
	IsPublic            bool             `gorm:"default:true" json:"is_public"`

	types.Timestamps

	Utilization *FundUtilization `gorm:"foreignKey:utilization_id" json:"-"`
}
