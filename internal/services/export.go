// internal/services/export.go
package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/fertiscan-backend/internal/document"
	"github.com/javajoker/fertiscan-backend/internal/models"
	"github.com/javajoker/fertiscan-backend/internal/utils"
)

// buildExport reassembles the document of an inspection from its rows.
// Every table is read independently through db, which may be a transaction.
func buildExport(db *gorm.DB, inspectionID uuid.UUID) (*document.Inspection, error) {
	fail := func(step string, err error) error {
		if errors.Is(err, ErrNotFound) {
			return &BuildInspectionExportError{InspectionID: inspectionID, Step: step, Err: err}
		}
		return &InternalError{Op: "export " + step, ID: inspectionID, Err: err}
	}

	// Get inspection and label
	var inspection models.Inspection
	if err := db.First(&inspection, "id = ?", inspectionID).Error; err != nil {
		return nil, fail("inspection", notFound(err, "inspection", inspectionID))
	}

	var label models.Label
	if err := db.First(&label, "id = ?", inspection.LabelID).Error; err != nil {
		return nil, fail("label", notFound(err, "label", inspection.LabelID))
	}

	company, err := exportOrganization(db, label.CompanyID)
	if err != nil {
		return nil, fail("company", err)
	}
	manufacturer, err := exportOrganization(db, label.ManufacturerID)
	if err != nil {
		return nil, fail("manufacturer", err)
	}

	// Child collections
	var metricRows []models.Metric
	if err := db.Where("label_id = ?", label.ID).Order("metric_type, position").Find(&metricRows).Error; err != nil {
		return nil, fail("metrics", err)
	}

	var subLabels []models.SubLabel
	if err := db.Where("label_id = ?", label.ID).Order("sub_type, language, position").Find(&subLabels).Error; err != nil {
		return nil, fail("sub_labels", err)
	}

	var analysis []models.GuaranteedAnalysis
	if err := db.Where("label_id = ?", label.ID).Order("language, position").Find(&analysis).Error; err != nil {
		return nil, fail("guaranteed_analysis", err)
	}

	var ingredients []models.Ingredient
	if err := db.Where("label_id = ?", label.ID).Order("language, position").Find(&ingredients).Error; err != nil {
		return nil, fail("ingredients", err)
	}

	var micronutrients []models.Micronutrient
	if err := db.Where("label_id = ?", label.ID).Order("language, position").Find(&micronutrients).Error; err != nil {
		return nil, fail("micronutrients", err)
	}

	var registrations []models.RegistrationNumber
	if err := db.Where("label_id = ?", label.ID).Order("position").Find(&registrations).Error; err != nil {
		return nil, fail("registration_numbers", err)
	}

	var specs []models.Specification
	if err := db.Where("label_id = ?", label.ID).Order("language, position").Find(&specs).Error; err != nil {
		return nil, fail("specifications", err)
	}

	doc := &document.Inspection{
		InspectionID:      inspection.ID.String(),
		InspectorID:       inspection.InspectorID.String(),
		InspectionComment: optional(inspection.Comment),
		Verified:          inspection.Verified,
		ContainerID:       ContainerName(inspection.InspectorID),
		Company:           company,
		Manufacturer:      manufacturer,
		Product: document.ProductInformation{
			Name:               optional(label.ProductName),
			LabelID:            label.ID.String(),
			LotNumber:          optional(label.LotNumber),
			Metrics:            exportMetrics(metricRows),
			NPK:                optional(label.NPK),
			N:                  label.N,
			P:                  label.P,
			K:                  label.K,
			RegistrationNumber: optional(label.RegistrationNumber),
			Warranty:           optional(label.Warranty),
			Verified:           inspection.Verified,
		},
		GuaranteedAnalysis: document.GuaranteedAnalysis{
			Title:     document.Title{En: label.TitleEn, Fr: label.TitleFr},
			IsMinimal: label.IsMinimal,
		},
		RegistrationNumbers: make([]document.RegistrationNumber, 0, len(registrations)),
	}
	if inspection.PictureSetID != nil {
		doc.FolderID = inspection.PictureSetID.String()
	}

	doc.Cautions = exportSubLabel(subLabels, models.SubTypeCautions)
	doc.Instructions = exportSubLabel(subLabels, models.SubTypeInstructions)
	doc.FirstAid = exportSubLabel(subLabels, models.SubTypeFirstAid)

	gaEn, gaFr := splitNutrients(analysis, func(r models.GuaranteedAnalysis) (models.Language, document.NutrientValue) {
		return r.Language, document.NutrientValue{Name: r.Name, Value: r.Value, Unit: r.Unit, Edited: r.Edited}
	})
	doc.GuaranteedAnalysis.En, doc.GuaranteedAnalysis.Fr = document.Align(gaEn, gaFr, document.NutrientValue{})

	inEn, inFr := splitNutrients(ingredients, func(r models.Ingredient) (models.Language, document.NutrientValue) {
		return r.Language, document.NutrientValue{Name: r.Name, Value: r.Value, Unit: r.Unit, Edited: r.Edited}
	})
	doc.Ingredients.En, doc.Ingredients.Fr = document.Align(inEn, inFr, document.NutrientValue{})

	miEn, miFr := splitNutrients(micronutrients, func(r models.Micronutrient) (models.Language, document.NutrientValue) {
		return r.Language, document.NutrientValue{Name: r.Name, Value: r.Value, Unit: r.Unit, Edited: r.Edited}
	})
	doc.Micronutrients.En, doc.Micronutrients.Fr = document.Align(miEn, miFr, document.NutrientValue{})

	for _, r := range registrations {
		doc.RegistrationNumbers = append(doc.RegistrationNumbers, document.RegistrationNumber{
			RegistrationNumber: r.Identifier,
			IsAnIngredient:     r.IsAnIngredient,
			Edited:             r.Edited,
		})
	}

	var specEn, specFr []document.Specification
	for _, r := range specs {
		spec := document.Specification{Humidity: r.Humidity, Ph: r.Ph, Solubility: r.Solubility, Edited: r.Edited}
		if r.Language == models.LanguageFrench {
			specFr = append(specFr, spec)
		} else {
			specEn = append(specEn, spec)
		}
	}
	doc.Specifications.En, doc.Specifications.Fr = document.Align(specEn, specFr, document.Specification{})

	return doc, nil
}

func exportOrganization(db *gorm.DB, id *uuid.UUID) (*document.OrganizationInformation, error) {
	if id == nil {
		return nil, nil
	}
	var org models.Organization
	if err := db.First(&org, "id = ?", *id).Error; err != nil {
		return nil, notFound(err, "organization", *id)
	}
	return &document.OrganizationInformation{
		ID:          org.ID.String(),
		Name:        optional(org.Name),
		Address:     optional(org.Address),
		Website:     optional(org.Website),
		PhoneNumber: optional(org.PhoneNumber),
		Edited:      org.Edited,
	}, nil
}

// exportMetrics never leaves volume or density absent: a missing row is an
// empty metric.
func exportMetrics(rows []models.Metric) document.Metrics {
	m := document.Metrics{Weight: []document.Metric{}}
	var haveVolume, haveDensity bool
	for _, r := range rows {
		metric := document.Metric{Value: r.Value, Unit: r.Unit, Edited: r.Edited}
		switch r.MetricType {
		case models.MetricTypeWeight:
			m.Weight = append(m.Weight, metric)
		case models.MetricTypeVolume:
			if !haveVolume {
				m.Volume, haveVolume = metric, true
			}
		case models.MetricTypeDensity:
			if !haveDensity {
				m.Density, haveDensity = metric, true
			}
		}
	}
	return m
}

func exportSubLabel(rows []models.SubLabel, subType models.SubType) document.SubLabel {
	var en, fr []string
	for _, r := range rows {
		if r.SubType != subType {
			continue
		}
		if r.Language == models.LanguageFrench {
			fr = append(fr, r.Text)
		} else {
			en = append(en, r.Text)
		}
	}
	en, fr = document.Align(en, fr, "")
	return document.SubLabel{En: en, Fr: fr}
}

func splitNutrients[T any](rows []T, convert func(T) (models.Language, document.NutrientValue)) (en, fr []document.NutrientValue) {
	for _, r := range rows {
		lang, value := convert(r)
		if lang == models.LanguageFrench {
			fr = append(fr, value)
		} else {
			en = append(en, value)
		}
	}
	return en, fr
}

// notFound turns gorm's record-not-found into a NotFoundError for resource.
func notFound(err error, resource string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return utils.StringPtr(s)
}
