// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. Rows are hard-deleted: the inspection
// cascade relies on reference counts that soft-deleted rows would skew.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	}
	return nil
}

// Enums
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
)

type SubType string

const (
	SubTypeCautions     SubType = "cautions"
	SubTypeInstructions SubType = "instructions"
	SubTypeFirstAid     SubType = "first_aid"
)

type MetricType string

const (
	MetricTypeWeight  MetricType = "weight"
	MetricTypeVolume  MetricType = "volume"
	MetricTypeDensity MetricType = "density"
)
