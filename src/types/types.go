package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBArray []any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type TransactionStatus string

const (
	TRANSACTION_PENDING   TransactionStatus = "pending"
	TRANSACTION_SUCCESS   TransactionStatus = "success"
	TRANSACTION_FAILED    TransactionStatus = "failed"
	TRANSACTION_CANCELLED TransactionStatus = "cancelled"
)

type PaymentStatus string

const (
	PAYMENT_PENDING   PaymentStatus = "pending"
	PAYMENT_COMPLETED PaymentStatus = "completed"
	PAYMENT_FAILED    PaymentStatus = "failed"
)

// DonationChannel discriminates the three donation pathways that used to be
// separate tables: direct donor giving, NGO student sponsorship and NGO
// project funding.
type DonationChannel string

const (
	CHANNEL_DONOR       DonationChannel = "donor"
	CHANNEL_NGO_STUDENT DonationChannel = "ngo_student"
	CHANNEL_NGO_PROJECT DonationChannel = "ngo_project"
)

type DonationPurpose string

const (
	PURPOSE_STUDENT_SPONSORSHIP DonationPurpose = "student_sponsorship"
	PURPOSE_SCHOOL_PROJECT      DonationPurpose = "school_project"
	PURPOSE_GENERAL_SUPPORT     DonationPurpose = "general_support"
)

type UtilizationStatus string

const (
	UTILIZATION_PENDING   UtilizationStatus = "pending"
	UTILIZATION_APPROVED  UtilizationStatus = "approved"
	UTILIZATION_COMPLETED UtilizationStatus = "completed"
)

type ActorKind string

const (
	ACTOR_DONOR ActorKind = "donor"
	ACTOR_NGO   ActorKind = "ngo"
)

type RiskLevel string

const (
	RISK_LOW    RiskLevel = "low"
	RISK_MEDIUM RiskLevel = "medium"
	RISK_HIGH   RiskLevel = "high"
)

type ProjectStatus string

const (
	PROJECT_ACTIVE    ProjectStatus = "active"
	PROJECT_COMPLETED ProjectStatus = "completed"
	PROJECT_ARCHIVED  ProjectStatus = "archived"
)

type InitiatePaymentRequestBody struct {
	DonorID         *uint   `json:"donor_id,omitempty" binding:"required_without=NgoID,excluded_with=NgoID"`
	NgoID           *uint   `json:"ngo_id,omitempty"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	ProductName     string  `json:"product_name" binding:"required"`
	ProductCategory string  `json:"product_category,omitempty"`
	ProjectID       *uint   `json:"project_id,omitempty"`
	StudentID       *uint   `json:"student_id,omitempty"`
	DonorMessage    string  `json:"message,omitempty"`
	IsAnonymous     bool    `json:"is_anonymous,omitempty"`
}

// PaymentCallbackRequestBody carries the gateway IPN. The gateway posts
// form-encoded fields and expects a 200 no matter what we make of them.
type PaymentCallbackRequestBody struct {
	TranID     string `form:"tran_id" binding:"required"`
	Status     string `form:"status" binding:"required"`
	ValID      string `form:"val_id"`
	BankTranID string `form:"bank_tran_id"`
	CardType   string `form:"card_type"`
	CardNo     string `form:"card_no"`
	RiskTitle  string `form:"risk_title"`
}

type CreateUtilizationRequestBody struct {
	ProjectID           uint                     `json:"project_id" binding:"required"`
	DonationID          *uint                    `json:"donation_id,omitempty"`
	AmountUsed          float64                  `json:"amount_used" binding:"required,gt=0"`
	SpecificPurpose     string                   `json:"specific_purpose" binding:"required"`
	DetailedDescription string                   `json:"detailed_description,omitempty"`
	VendorName          string                   `json:"vendor_name,omitempty"`
	BillInvoiceNumber   string                   `json:"bill_invoice_number,omitempty"`
	UtilizationDate     *string                  `json:"utilization_date,omitempty" binding:"omitempty,pastdate"`
	Transparency        *TransparencyRequestBody `json:"transparency,omitempty"`
}

type TransparencyRequestBody struct {
	BeforePhotos        JSONBArray `json:"before_photos,omitempty"`
	AfterPhotos         JSONBArray `json:"after_photos,omitempty"`
	BeneficiaryFeedback string     `json:"beneficiary_feedback,omitempty"`
	QuantityPurchased   *uint      `json:"quantity_purchased,omitempty"`
	UnitMeasurement     string     `json:"unit_measurement,omitempty"`
	UnitCost            *float64   `json:"unit_cost,omitempty"`
	AdditionalNotes     string     `json:"additional_notes,omitempty"`
	IsPublic            *bool      `json:"is_public,omitempty"`
}

type UpdateUtilizationStatusRequestBody struct {
	Status UtilizationStatus `json:"status" binding:"required,oneof=pending approved completed"`
}

// AvailableDonation is one entry of the unspent-funds view a school consults
// before reporting spend against a project.
type AvailableDonation struct {
	DonationID  uint            `json:"donation_id"`
	SourceLabel string          `json:"source_label"`
	Channel     DonationChannel `json:"channel"`
	Amount      float64         `json:"amount"`
	Utilized    float64         `json:"utilized"`
	Remaining   float64         `json:"remaining"`
	DonatedAt   time.Time       `json:"donated_at"`
}

type ScholarshipSummary struct {
	TotalStudents      int64 `json:"total_students"`
	WithScholarship    int64 `json:"with_scholarship"`
	WithoutScholarship int64 `json:"without_scholarship"`
}
