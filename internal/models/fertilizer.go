// internal/models/fertilizer.go
package models

import (
	"github.com/google/uuid"
)

// Fertilizer is the catalog projection of the latest verified inspection
// of a product. It is written only when an inspection is verified.
type Fertilizer struct {
	BaseModel
	Name               string     `json:"name" gorm:"size:255;not null;index"`
	RegistrationNumber string     `json:"registration_number" gorm:"size:100"`
	OwnerID            *uuid.UUID `json:"owner_id" gorm:"type:uuid;index"`
	LatestInspectionID *uuid.UUID `json:"latest_inspection_id" gorm:"type:uuid;index"`

	Owner *Organization `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}
