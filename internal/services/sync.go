// internal/services/sync.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/fertiscan-backend/internal/document"
	"github.com/javajoker/fertiscan-backend/internal/metrics"
	"github.com/javajoker/fertiscan-backend/internal/models"
)

// ErrNoTransaction is returned when a collection replacement is attempted
// outside a transaction.
var ErrNoTransaction = errors.New("collection replacement requires a transaction")

const insertBatchSize = 100

// ReplaceCollection deletes every row of T owned by labelID and inserts rows
// in order. It must run inside tx so no reader observes the empty state.
func ReplaceCollection[T any](tx *gorm.DB, labelID uuid.UUID, rows []T) error {
	if !inTransaction(tx) {
		return ErrNoTransaction
	}

	var model T
	if err := tx.Where("label_id = ?", labelID).Delete(&model).Error; err != nil {
		return fmt.Errorf("failed to delete %T rows: %w", model, err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Omit(clause.Associations).CreateInBatches(&rows, insertBatchSize).Error; err != nil {
		return fmt.Errorf("failed to insert %T rows: %w", model, err)
	}
	return nil
}

func inTransaction(tx *gorm.DB) bool {
	if tx == nil || tx.Statement == nil {
		return false
	}
	_, ok := tx.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}

// lockLabel loads the label and, where the dialect supports it, holds a row
// lock on it until tx ends. SQLite serializes writers instead.
func lockLabel(tx *gorm.DB, labelID uuid.UUID) (*models.Label, error) {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var label models.Label
	if err := q.First(&label, "id = ?", labelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "label", ID: labelID}
		}
		return nil, err
	}
	return &label, nil
}

// labelCollections is every child row set derived from one document.
type labelCollections struct {
	Metrics            []models.Metric
	SubLabels          []models.SubLabel
	GuaranteedAnalysis []models.GuaranteedAnalysis
	Ingredients        []models.Ingredient
	Micronutrients     []models.Micronutrient
	Registrations      []models.RegistrationNumber
	Specifications     []models.Specification
}

// CollectionSynchronizer replaces a label's child collections from a document.
type CollectionSynchronizer struct {
	metrics *metrics.InspectionMetrics
}

func NewCollectionSynchronizer(m *metrics.InspectionMetrics) *CollectionSynchronizer {
	return &CollectionSynchronizer{metrics: m}
}

// Sync replaces every child collection of labelID. When markEdited is set
// each inserted row is flagged as edited, otherwise the item's own flag is
// kept. Any failure leaves tx to be rolled back by the caller.
func (s *CollectionSynchronizer) Sync(tx *gorm.DB, labelID uuid.UUID, doc *document.Inspection, markEdited bool) error {
	c := buildCollections(labelID, doc, markEdited)

	steps := []struct {
		name    string
		replace func() error
		rows    int
	}{
		{"metrics", func() error { return ReplaceCollection(tx, labelID, c.Metrics) }, len(c.Metrics)},
		{"sub_labels", func() error { return ReplaceCollection(tx, labelID, c.SubLabels) }, len(c.SubLabels)},
		{"guaranteed_analysis", func() error { return ReplaceCollection(tx, labelID, c.GuaranteedAnalysis) }, len(c.GuaranteedAnalysis)},
		{"ingredients", func() error { return ReplaceCollection(tx, labelID, c.Ingredients) }, len(c.Ingredients)},
		{"micronutrients", func() error { return ReplaceCollection(tx, labelID, c.Micronutrients) }, len(c.Micronutrients)},
		{"registration_numbers", func() error { return ReplaceCollection(tx, labelID, c.Registrations) }, len(c.Registrations)},
		{"specifications", func() error { return ReplaceCollection(tx, labelID, c.Specifications) }, len(c.Specifications)},
	}

	for _, step := range steps {
		if err := step.replace(); err != nil {
			return fmt.Errorf("sync %s: %w", step.name, err)
		}
	}
	for _, step := range steps {
		s.metrics.AddRowsWritten(step.name, step.rows)
	}
	return nil
}

func buildCollections(labelID uuid.UUID, doc *document.Inspection, markEdited bool) labelCollections {
	var c labelCollections

	c.Metrics = metricRows(labelID, doc.Product.Metrics, markEdited)

	c.SubLabels = append(c.SubLabels, subLabelRows(labelID, models.SubTypeCautions, doc.Cautions, markEdited)...)
	c.SubLabels = append(c.SubLabels, subLabelRows(labelID, models.SubTypeInstructions, doc.Instructions, markEdited)...)
	c.SubLabels = append(c.SubLabels, subLabelRows(labelID, models.SubTypeFirstAid, doc.FirstAid, markEdited)...)

	ga := doc.GuaranteedAnalysis
	c.GuaranteedAnalysis = nutrientRows(labelID, ga.En, ga.Fr, markEdited,
		func(base nutrientRow) models.GuaranteedAnalysis {
			return models.GuaranteedAnalysis{LabelID: base.LabelID, Name: base.Name, Value: base.Value,
				Unit: base.Unit, Language: base.Language, Edited: base.Edited, Position: base.Position}
		})
	c.Ingredients = nutrientRows(labelID, doc.Ingredients.En, doc.Ingredients.Fr, markEdited,
		func(base nutrientRow) models.Ingredient {
			return models.Ingredient{LabelID: base.LabelID, Name: base.Name, Value: base.Value,
				Unit: base.Unit, Language: base.Language, Edited: base.Edited, Position: base.Position}
		})
	c.Micronutrients = nutrientRows(labelID, doc.Micronutrients.En, doc.Micronutrients.Fr, markEdited,
		func(base nutrientRow) models.Micronutrient {
			return models.Micronutrient{LabelID: base.LabelID, Name: base.Name, Value: base.Value,
				Unit: base.Unit, Language: base.Language, Edited: base.Edited, Position: base.Position}
		})

	for i, reg := range doc.RegistrationNumbers {
		c.Registrations = append(c.Registrations, models.RegistrationNumber{
			LabelID:        labelID,
			Identifier:     reg.RegistrationNumber,
			IsAnIngredient: reg.IsAnIngredient,
			Edited:         markEdited || reg.Edited,
			Position:       i,
		})
	}

	c.Specifications = append(c.Specifications,
		specificationRows(labelID, models.LanguageEnglish, doc.Specifications.En, markEdited)...)
	c.Specifications = append(c.Specifications,
		specificationRows(labelID, models.LanguageFrench, doc.Specifications.Fr, markEdited)...)

	return c
}

func metricRows(labelID uuid.UUID, m document.Metrics, markEdited bool) []models.Metric {
	rows := make([]models.Metric, 0, len(m.Weight)+2)
	for i, w := range m.Weight {
		rows = append(rows, models.Metric{
			LabelID: labelID, MetricType: models.MetricTypeWeight,
			Value: w.Value, Unit: w.Unit, Edited: markEdited || w.Edited, Position: i,
		})
	}
	// An empty volume or density is exported as an empty metric anyway.
	for _, single := range []struct {
		kind   models.MetricType
		metric document.Metric
	}{{models.MetricTypeVolume, m.Volume}, {models.MetricTypeDensity, m.Density}} {
		if single.metric.Value == nil && single.metric.Unit == nil {
			continue
		}
		rows = append(rows, models.Metric{
			LabelID: labelID, MetricType: single.kind,
			Value: single.metric.Value, Unit: single.metric.Unit, Edited: markEdited || single.metric.Edited,
		})
	}
	return rows
}

// subLabelRows zips the two language lists by position. A language whose
// list ended before a position gets no row there.
func subLabelRows(labelID uuid.UUID, subType models.SubType, texts document.SubLabel, markEdited bool) []models.SubLabel {
	var rows []models.SubLabel
	for _, pair := range document.Zip(texts.En, texts.Fr) {
		if pair.En != nil {
			rows = append(rows, models.SubLabel{LabelID: labelID, SubType: subType, Text: *pair.En,
				Language: models.LanguageEnglish, Edited: markEdited, Position: pair.Index})
		}
		if pair.Fr != nil {
			rows = append(rows, models.SubLabel{LabelID: labelID, SubType: subType, Text: *pair.Fr,
				Language: models.LanguageFrench, Edited: markEdited, Position: pair.Index})
		}
	}
	return rows
}

type nutrientRow struct {
	LabelID  uuid.UUID
	Name     string
	Value    *float64
	Unit     *string
	Language models.Language
	Edited   bool
	Position int
}

func nutrientRows[T any](labelID uuid.UUID, en, fr []document.NutrientValue, markEdited bool, build func(nutrientRow) T) []T {
	rows := make([]T, 0, len(en)+len(fr))
	for _, side := range []struct {
		lang  models.Language
		items []document.NutrientValue
	}{{models.LanguageEnglish, en}, {models.LanguageFrench, fr}} {
		for i, item := range side.items {
			rows = append(rows, build(nutrientRow{
				LabelID:  labelID,
				Name:     item.Name,
				Value:    item.Value,
				Unit:     item.Unit,
				Language: side.lang,
				Edited:   markEdited || item.Edited,
				Position: i,
			}))
		}
	}
	return rows
}

func specificationRows(labelID uuid.UUID, lang models.Language, specs []document.Specification, markEdited bool) []models.Specification {
	rows := make([]models.Specification, 0, len(specs))
	for i, spec := range specs {
		rows = append(rows, models.Specification{
			LabelID:    labelID,
			Humidity:   spec.Humidity,
			Ph:         spec.Ph,
			Solubility: spec.Solubility,
			Language:   lang,
			Edited:     markEdited || spec.Edited,
			Position:   i,
		})
	}
	return rows
}

// deleteCollections removes every child row owned by labelID.
func deleteCollections(tx *gorm.DB, labelID uuid.UUID) error {
	for _, model := range []interface{}{
		&models.Metric{},
		&models.SubLabel{},
		&models.GuaranteedAnalysis{},
		&models.Ingredient{},
		&models.Micronutrient{},
		&models.RegistrationNumber{},
		&models.Specification{},
	} {
		if err := tx.Where("label_id = ?", labelID).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to delete %T rows: %w", model, err)
		}
	}
	return nil
}
