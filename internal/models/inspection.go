// internal/models/inspection.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Inspection struct {
	BaseModel
	Verified        bool       `json:"verified" gorm:"default:false;index"`
	Comment         string     `json:"comment" gorm:"type:text"`
	InspectorID     uuid.UUID  `json:"inspector_id" gorm:"type:uuid;not null;index"`
	LabelID         uuid.UUID  `json:"label_id" gorm:"type:uuid;not null;uniqueIndex"`
	PictureSetID    *uuid.UUID `json:"picture_set_id" gorm:"type:uuid;index"`
	VerifiedAt      *time.Time `json:"verified_at"`
	OriginalDataset JSONB      `json:"original_dataset,omitempty" gorm:"type:jsonb"`

	// Relationships
	Inspector  User        `json:"-" gorm:"foreignKey:InspectorID"`
	Label      Label       `json:"label,omitempty" gorm:"foreignKey:LabelID"`
	PictureSet *PictureSet `json:"picture_set,omitempty" gorm:"foreignKey:PictureSetID"`
}

// PictureSet references the storage folder holding the label photos.
type PictureSet struct {
	BaseModel
	OwnerID uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name    string    `json:"name" gorm:"size:255"`
}
