// internal/models/children.go
package models

import (
	"github.com/google/uuid"
)

// Every type in this file is a one-to-many collection owned by a Label and
// replaced wholesale on update.

type Metric struct {
	BaseModel
	LabelID    uuid.UUID  `json:"label_id" gorm:"type:uuid;not null;index"`
	MetricType MetricType `json:"metric_type" gorm:"type:varchar(20);not null"`
	Value      *float64   `json:"value"`
	Unit       *string    `json:"unit" gorm:"size:50"`
	Edited     bool       `json:"edited" gorm:"default:false"`
	Position   int        `json:"position" gorm:"default:0"`
}

type SubLabel struct {
	BaseModel
	LabelID  uuid.UUID `json:"label_id" gorm:"type:uuid;not null;index"`
	SubType  SubType   `json:"sub_type" gorm:"type:varchar(20);not null"`
	Text     string    `json:"text" gorm:"type:text"`
	Language Language  `json:"language" gorm:"type:varchar(2);not null"`
	Edited   bool      `json:"edited" gorm:"default:false"`
	Position int       `json:"position" gorm:"default:0"`
}

type GuaranteedAnalysis struct {
	BaseModel
	LabelID  uuid.UUID `json:"label_id" gorm:"type:uuid;not null;index"`
	Name     string    `json:"name" gorm:"size:255"`
	Value    *float64  `json:"value"`
	Unit     *string   `json:"unit" gorm:"size:50"`
	Language Language  `json:"language" gorm:"type:varchar(2);not null"`
	Edited   bool      `json:"edited" gorm:"default:false"`
	Position int       `json:"position" gorm:"default:0"`
}

func (GuaranteedAnalysis) TableName() string {
	return "guaranteed_analyses"
}

type Ingredient struct {
	BaseModel
	LabelID  uuid.UUID `json:"label_id" gorm:"type:uuid;not null;index"`
	Name     string    `json:"name" gorm:"size:255"`
	Value    *float64  `json:"value"`
	Unit     *string   `json:"unit" gorm:"size:50"`
	Language Language  `json:"language" gorm:"type:varchar(2);not null"`
	Edited   bool      `json:"edited" gorm:"default:false"`
	Position int       `json:"position" gorm:"default:0"`
}

type Micronutrient struct {
	BaseModel
	LabelID  uuid.UUID `json:"label_id" gorm:"type:uuid;not null;index"`
	Name     string    `json:"name" gorm:"size:255"`
	Value    *float64  `json:"value"`
	Unit     *string   `json:"unit" gorm:"size:50"`
	Language Language  `json:"language" gorm:"type:varchar(2);not null"`
	Edited   bool      `json:"edited" gorm:"default:false"`
	Position int       `json:"position" gorm:"default:0"`
}

type RegistrationNumber struct {
	BaseModel
	LabelID        uuid.UUID `json:"label_id" gorm:"type:uuid;not null;index"`
	Identifier     string    `json:"identifier" gorm:"size:100"`
	IsAnIngredient *bool     `json:"is_an_ingredient"`
	Edited         bool      `json:"edited" gorm:"default:false"`
	Position       int       `json:"position" gorm:"default:0"`
}

type Specification struct {
	BaseModel
	LabelID    uuid.UUID `json:"label_id" gorm:"type:uuid;not null;index"`
	Humidity   *float64  `json:"humidity"`
	Ph         *float64  `json:"ph"`
	Solubility *float64  `json:"solubility"`
	Language   Language  `json:"language" gorm:"type:varchar(2);not null"`
	Edited     bool      `json:"edited" gorm:"default:false"`
	Position   int       `json:"position" gorm:"default:0"`
}
