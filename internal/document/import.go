// internal/document/import.go
package document

import (
	"encoding/json"
	"strings"

	"github.com/javajoker/fertiscan-backend/internal/utils"
)

// Import validates a raw digitized form and builds a normalized document.
// It has no side effects; persisting the result is up to the caller.
func Import(raw map[string]interface{}) (*Inspection, error) {
	if missing := missingKeys(raw); len(missing) > 0 {
		return nil, &MissingKeyError{Keys: missing}
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, &MetadataFormattingError{Err: err}
	}

	var form rawForm
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, &MetadataFormattingError{Err: err}
	}

	n, p, k, err := utils.ParseNPK(utils.Deref(form.NPK))
	if err != nil {
		return nil, &MetadataFormattingError{Err: err}
	}

	doc := &Inspection{
		Company: organization(form.CompanyName, form.CompanyAddress, form.CompanyWebsite, form.CompanyPhoneNumber),
		Manufacturer: organization(form.ManufacturerName, form.ManufacturerAddress,
			form.ManufacturerWebsite, form.ManufacturerPhoneNumber),
		Product: ProductInformation{
			Name:      trimmed(form.FertiliserName),
			LotNumber: trimmed(form.LotNumber),
			Metrics:   buildMetrics(form),
			NPK:       trimmed(form.NPK),
			N:         n,
			P:         p,
			K:         k,
			Warranty:  trimmed(form.Warranty),
		},
		Cautions:            SubLabel{En: texts(form.CautionsEn), Fr: texts(form.CautionsFr)},
		Instructions:        SubLabel{En: texts(form.InstructionsEn), Fr: texts(form.InstructionsFr)},
		FirstAid:            SubLabel{En: texts(form.FirstAidEn), Fr: texts(form.FirstAidFr)},
		GuaranteedAnalysis:  buildGuaranteedAnalysis(form.GuaranteedAnalysisEn, form.GuaranteedAnalysisFr),
		Ingredients:         BilingualValues{En: nutrients(form.IngredientsEn), Fr: nutrients(form.IngredientsFr)},
		Micronutrients:      BilingualValues{En: nutrients(form.MicronutrientsEn), Fr: nutrients(form.MicronutrientsFr)},
		RegistrationNumbers: registrations(form.RegistrationNumber),
		Specifications: BilingualSpecifications{
			En: specifications(form.SpecificationsEn),
			Fr: specifications(form.SpecificationsFr),
		},
	}
	if len(doc.RegistrationNumbers) > 0 {
		doc.Product.RegistrationNumber = utils.StringPtr(doc.RegistrationNumbers[0].RegistrationNumber)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// missingKeys returns every required key absent from raw, in contract
// order. A key present with a null value counts as present.
func missingKeys(raw map[string]interface{}) []string {
	var missing []string
	for _, key := range RequiredKeys {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

func organization(name, address, website, phone *string) *OrganizationInformation {
	org := &OrganizationInformation{
		Name:        trimmed(name),
		Address:     trimmed(address),
		Website:     trimmed(website),
		PhoneNumber: trimmed(phone),
	}
	if org.IsEmpty() {
		return nil
	}
	return org
}

func buildMetrics(form rawForm) Metrics {
	weight := make([]Metric, 0, len(form.Weight))
	for _, w := range form.Weight {
		weight = append(weight, w.metric())
	}
	return Metrics{
		Weight:  weight,
		Volume:  form.Volume.metric(),
		Density: form.Density.metric(),
	}
}

func buildGuaranteedAnalysis(en, fr *rawGuaranteedAnalysis) GuaranteedAnalysis {
	ga := GuaranteedAnalysis{En: []NutrientValue{}, Fr: []NutrientValue{}}
	if en != nil {
		ga.Title.En = trimmed(en.Title)
		ga.En = nutrients(en.Nutrients)
	}
	if fr != nil {
		ga.Title.Fr = trimmed(fr.Title)
		ga.Fr = nutrients(fr.Nutrients)
	}
	return ga
}

func nutrients(items []rawNutrient) []NutrientValue {
	out := make([]NutrientValue, 0, len(items))
	for _, item := range items {
		var unit *string
		if item.Unit != nil {
			unit = utils.StringPtr(strings.TrimSpace(*item.Unit))
		}
		out = append(out, NutrientValue{
			Name:  strings.TrimSpace(item.name()),
			Value: item.Value.Value,
			Unit:  unit,
		})
	}
	return out
}

func specifications(items []rawSpecification) []Specification {
	out := make([]Specification, 0, len(items))
	for _, item := range items {
		out = append(out, Specification{
			Humidity:   item.Humidity.Value,
			Ph:         item.Ph.Value,
			Solubility: item.Solubility.Value,
		})
	}
	return out
}

func registrations(items rawRegistrations) []RegistrationNumber {
	out := make([]RegistrationNumber, 0, len(items))
	for _, item := range items {
		if item.Identifier == "" {
			continue
		}
		var ingredient *bool
		switch item.Type {
		case "ingredient_component":
			v := true
			ingredient = &v
		case "fertilizer_product":
			v := false
			ingredient = &v
		}
		out = append(out, RegistrationNumber{RegistrationNumber: item.Identifier, IsAnIngredient: ingredient})
	}
	return out
}

func texts(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, strings.TrimSpace(item))
	}
	return out
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	return utils.StringPtr(strings.TrimSpace(*s))
}
