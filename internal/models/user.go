// internal/models/user.go
package models

// User is the local record of an inspector. Credentials and sessions live
// in the external identity service; only the id and contact email are kept.
type User struct {
	BaseModel
	Email string `json:"email" gorm:"uniqueIndex;size:255;not null"`

	Inspections []Inspection `json:"inspections,omitempty" gorm:"foreignKey:InspectorID"`
}
