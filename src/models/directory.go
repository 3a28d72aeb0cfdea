package models

import "brightaid/src/types"

// Directory entities. Their full CRUD lives outside this core; the engine
// only reads them for beneficiary resolution and flips the scholarship flag
// on Student.

type Donor struct {
	ID uint `gorm:"primarykey" json:"id"`

	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`

	types.Timestamps
}

type Ngo struct {
	ID uint `gorm:"primarykey" json:"id"`

	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`

	types.Timestamps
}

type School struct {
	ID uint `gorm:"primarykey" json:"id"`

	Name     string `json:"name"`
	District string `json:"district,omitempty"`

	types.Timestamps
}

type Student struct {
	ID uint `gorm:"primarykey" json:"id"`

	Name           string          `json:"name"`
	SchoolID       uint            `gorm:"index" json:"school_id"`
	FamilyIncome   float64         `json:"family_income"`
	DropoutRisk    types.RiskLevel `gorm:"index;default:low" json:"dropout_risk"`
	HasScholarship bool            `gorm:"index;default:false" json:"has_scholarship"`

	types.Timestamps

	School *School `gorm:"foreignKey:school_id" json:"school,omitempty"`
}

type SchoolProject struct {
	ID uint `gorm:"primarykey" json:"id"`

	SchoolID     uint                `gorm:"index" json:"school_id"`
	ProjectTitle string              `json:"project_title"`
	Description  string              `json:"description,omitempty"`
	TargetAmount float64             `json:"target_amount,omitempty"`
	Status       types.ProjectStatus `gorm:"default:active" json:"status"`

	types.Timestamps

	School *School `gorm:"foreignKey:school_id" json:"school,omitempty"`
}
