// internal/document/model.go
package document

import (
	"github.com/javajoker/fertiscan-backend/internal/utils"
)

// Inspection is the normalized document exchanged with the UI and
// exporters. Field names and nesting are the wire contract.
type Inspection struct {
	InspectionID        string                   `json:"inspection_id,omitempty"`
	InspectorID         string                   `json:"inspector_id,omitempty"`
	InspectionComment   *string                  `json:"inspection_comment"`
	Verified            bool                     `json:"verified"`
	FolderID            string                   `json:"folder_id,omitempty"`
	ContainerID         string                   `json:"container_id,omitempty"`
	Company             *OrganizationInformation `json:"company"`
	Manufacturer        *OrganizationInformation `json:"manufacturer"`
	Product             ProductInformation       `json:"product"`
	Cautions            SubLabel                 `json:"cautions"`
	Instructions        SubLabel                 `json:"instructions"`
	FirstAid            SubLabel                 `json:"first_aid"`
	GuaranteedAnalysis  GuaranteedAnalysis       `json:"guaranteed_analysis"`
	Ingredients         BilingualValues          `json:"ingredients"`
	Micronutrients      BilingualValues          `json:"micronutrients"`
	RegistrationNumbers []RegistrationNumber     `json:"registration_numbers" validate:"dive"`
	Specifications      BilingualSpecifications  `json:"specifications"`
}

type OrganizationInformation struct {
	ID          string  `json:"id,omitempty"`
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	Website     *string `json:"website"`
	PhoneNumber *string `json:"phone_number"`
	Edited      bool    `json:"edited"`
}

// IsEmpty reports whether the organization carries no identifying data.
func (o *OrganizationInformation) IsEmpty() bool {
	if o == nil {
		return true
	}
	for _, s := range []*string{o.Name, o.Address, o.Website, o.PhoneNumber} {
		if s != nil && *s != "" {
			return false
		}
	}
	return o.ID == ""
}

type ProductInformation struct {
	Name               *string  `json:"name"`
	LabelID            string   `json:"label_id,omitempty"`
	LotNumber          *string  `json:"lot_number"`
	Metrics            Metrics  `json:"metrics"`
	NPK                *string  `json:"npk" validate:"omitempty,npk"`
	N                  *float64 `json:"n" validate:"omitempty,gte=0"`
	P                  *float64 `json:"p" validate:"omitempty,gte=0"`
	K                  *float64 `json:"k" validate:"omitempty,gte=0"`
	RegistrationNumber *string  `json:"registration_number"`
	Warranty           *string  `json:"warranty"`
	Verified           bool     `json:"verified"`
}

type Metrics struct {
	Weight  []Metric `json:"weight" validate:"dive"`
	Volume  Metric   `json:"volume"`
	Density Metric   `json:"density"`
}

type Metric struct {
	Value  *float64 `json:"value" validate:"omitempty,gte=0"`
	Unit   *string  `json:"unit" validate:"omitempty,max=50"`
	Edited bool     `json:"edited"`
}

// SubLabel holds free text in both languages, paired by position.
type SubLabel struct {
	En []string `json:"en"`
	Fr []string `json:"fr"`
}

type NutrientValue struct {
	Name   string   `json:"name"`
	Value  *float64 `json:"value" validate:"omitempty,gte=0"`
	Unit   *string  `json:"unit" validate:"omitempty,max=50"`
	Edited bool     `json:"edited"`
}

type Title struct {
	En *string `json:"en"`
	Fr *string `json:"fr"`
}

type GuaranteedAnalysis struct {
	Title     Title           `json:"title"`
	IsMinimal *bool           `json:"is_minimal"`
	En        []NutrientValue `json:"en" validate:"dive"`
	Fr        []NutrientValue `json:"fr" validate:"dive"`
}

type BilingualValues struct {
	En []NutrientValue `json:"en" validate:"dive"`
	Fr []NutrientValue `json:"fr" validate:"dive"`
}

type RegistrationNumber struct {
	RegistrationNumber string `json:"registration_number" validate:"max=100"`
	IsAnIngredient     *bool  `json:"is_an_ingredient"`
	Edited             bool   `json:"edited"`
}

type Specification struct {
	Humidity   *float64 `json:"humidity" validate:"omitempty,gte=0"`
	Ph         *float64 `json:"ph" validate:"omitempty,gte=0,lte=14"`
	Solubility *float64 `json:"solubility" validate:"omitempty,gte=0"`
	Edited     bool     `json:"edited"`
}

type BilingualSpecifications struct {
	En []Specification `json:"en" validate:"dive"`
	Fr []Specification `json:"fr" validate:"dive"`
}

// Validate runs the document's own schema check.
func (d *Inspection) Validate() error {
	if err := utils.ValidateStruct(d); err != nil {
		return &MetadataFormattingError{Err: err}
	}
	return nil
}
