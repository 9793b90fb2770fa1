// internal/document/raw.go
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/javajoker/fertiscan-backend/internal/utils"
)

// RequiredKeys is the fixed contract a raw digitized form must satisfy.
var RequiredKeys = []string{
	"company_name",
	"company_address",
	"company_website",
	"company_phone_number",
	"manufacturer_name",
	"manufacturer_address",
	"manufacturer_website",
	"manufacturer_phone_number",
	"fertiliser_name",
	"registration_number",
	"lot_number",
	"weight",
	"density",
	"volume",
	"npk",
	"cautions_en",
	"cautions_fr",
	"instructions_en",
	"instructions_fr",
	"guaranteed_analysis_en",
	"guaranteed_analysis_fr",
}

type rawForm struct {
	CompanyName             *string `json:"company_name"`
	CompanyAddress          *string `json:"company_address"`
	CompanyWebsite          *string `json:"company_website"`
	CompanyPhoneNumber      *string `json:"company_phone_number"`
	ManufacturerName        *string `json:"manufacturer_name"`
	ManufacturerAddress     *string `json:"manufacturer_address"`
	ManufacturerWebsite     *string `json:"manufacturer_website"`
	ManufacturerPhoneNumber *string `json:"manufacturer_phone_number"`

	FertiliserName     *string          `json:"fertiliser_name"`
	RegistrationNumber rawRegistrations `json:"registration_number"`
	LotNumber          *string          `json:"lot_number"`
	Weight             []rawValue       `json:"weight"`
	Density            rawValue         `json:"density"`
	Volume             rawValue         `json:"volume"`
	NPK                *string          `json:"npk"`
	Warranty           *string          `json:"warranty"`

	CautionsEn     []string `json:"cautions_en"`
	CautionsFr     []string `json:"cautions_fr"`
	InstructionsEn []string `json:"instructions_en"`
	InstructionsFr []string `json:"instructions_fr"`
	FirstAidEn     []string `json:"first_aid_en"`
	FirstAidFr     []string `json:"first_aid_fr"`

	GuaranteedAnalysisEn *rawGuaranteedAnalysis `json:"guaranteed_analysis_en"`
	GuaranteedAnalysisFr *rawGuaranteedAnalysis `json:"guaranteed_analysis_fr"`

	IngredientsEn    []rawNutrient      `json:"ingredients_en"`
	IngredientsFr    []rawNutrient      `json:"ingredients_fr"`
	MicronutrientsEn []rawNutrient      `json:"micronutrients_en"`
	MicronutrientsFr []rawNutrient      `json:"micronutrients_fr"`
	SpecificationsEn []rawSpecification `json:"specifications_en"`
	SpecificationsFr []rawSpecification `json:"specifications_fr"`
}

type rawGuaranteedAnalysis struct {
	Title     *string       `json:"title"`
	Nutrients []rawNutrient `json:"nutrients"`
	// IsMinimal is accepted on input but deliberately not carried into the
	// document; the digitizer does not produce it reliably.
	IsMinimal *bool `json:"is_minimal"`
}

type rawNutrient struct {
	Nutrient string    `json:"nutrient"`
	Name     string    `json:"name"`
	Value    rawNumber `json:"value"`
	Unit     *string   `json:"unit"`
}

func (n rawNutrient) name() string {
	if n.Nutrient != "" {
		return n.Nutrient
	}
	return n.Name
}

type rawSpecification struct {
	Humidity   rawNumber `json:"humidity"`
	Ph         rawNumber `json:"ph"`
	Solubility rawNumber `json:"solubility"`
}

// rawNumber accepts a JSON number, a numeric string or null.
type rawNumber struct {
	Value *float64
}

func (n *rawNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("value %q is not numeric", s)
		}
		n.Value = &f
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	n.Value = &f
	return nil
}

// rawValue accepts {"value": .., "unit": ..} objects as well as "5 kg"
// strings.
type rawValue struct {
	Value *float64
	Unit  *string
}

func (v *rawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v.Value, v.Unit = utils.ParseValueUnit(s)
		return nil
	}

	var obj struct {
		Value rawNumber `json:"value"`
		Unit  *string   `json:"unit"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	v.Value = obj.Value.Value
	if obj.Unit != nil {
		v.Unit = utils.StringPtr(strings.TrimSpace(*obj.Unit))
	}
	return nil
}

func (v rawValue) metric() Metric {
	return Metric{Value: v.Value, Unit: v.Unit}
}

type rawRegistration struct {
	Identifier string
	Type       string
}

// rawRegistrations accepts a single string, a list of strings, or a list of
// {"identifier", "type"} objects.
type rawRegistrations []rawRegistration

func (r *rawRegistrations) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s = strings.TrimSpace(s); s != "" {
			*r = rawRegistrations{{Identifier: s}}
		}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			*r = append(*r, rawRegistration{Identifier: strings.TrimSpace(s)})
			continue
		}
		var obj struct {
			Identifier         string `json:"identifier"`
			RegistrationNumber string `json:"registration_number"`
			Type               string `json:"type"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return err
		}
		id := obj.Identifier
		if id == "" {
			id = obj.RegistrationNumber
		}
		*r = append(*r, rawRegistration{Identifier: strings.TrimSpace(id), Type: obj.Type})
	}
	return nil
}
