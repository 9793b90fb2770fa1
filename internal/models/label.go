// internal/models/label.go
package models

import (
	"github.com/google/uuid"
)

// Label identifies one physical product revision.
type Label struct {
	BaseModel
	ProductName        string     `json:"product_name" gorm:"size:255;index"`
	LotNumber          string     `json:"lot_number" gorm:"size:255"`
	NPK                string     `json:"npk" gorm:"size:50"`
	N                  *float64   `json:"n"`
	P                  *float64   `json:"p"`
	K                  *float64   `json:"k"`
	RegistrationNumber string     `json:"registration_number" gorm:"size:100"`
	Warranty           string     `json:"warranty" gorm:"type:text"`
	TitleEn            *string    `json:"title_en" gorm:"size:255"`
	TitleFr            *string    `json:"title_fr" gorm:"size:255"`
	IsMinimal          *bool      `json:"is_minimal"`
	CompanyID          *uuid.UUID `json:"company_id" gorm:"type:uuid;index"`
	ManufacturerID     *uuid.UUID `json:"manufacturer_id" gorm:"type:uuid;index"`

	// Relationships
	Company      *Organization `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Manufacturer *Organization `json:"manufacturer,omitempty" gorm:"foreignKey:ManufacturerID"`
}

func (Label) TableName() string {
	return "label_information"
}

// Organization is shared between labels; a label only references it.
type Organization struct {
	BaseModel
	Name        string `json:"name" gorm:"size:255;index"`
	Address     string `json:"address" gorm:"type:text"`
	Website     string `json:"website" gorm:"size:255"`
	PhoneNumber string `json:"phone_number" gorm:"size:50"`
	Edited      bool   `json:"edited" gorm:"default:false"`
}

func (Organization) TableName() string {
	return "organization_information"
}
