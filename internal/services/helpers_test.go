package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/fertiscan-backend/internal/config"
	"github.com/javajoker/fertiscan-backend/internal/database"
	"github.com/javajoker/fertiscan-backend/internal/document"
	"github.com/javajoker/fertiscan-backend/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Initialize(config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: ":memory:",
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) uuid.UUID {
	t.Helper()
	user := models.User{Email: email}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

// fakeStorage records folder calls instead of talking to S3.
type fakeStorage struct {
	mu        sync.Mutex
	created   []string
	deleted   []string
	createErr error
	deleteErr error
}

func (f *fakeStorage) CreateFolder(_ context.Context, container, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return false, f.createErr
	}
	f.created = append(f.created, container+"/"+name)
	return true, nil
}

func (f *fakeStorage) DeleteFolderPermanently(_ context.Context, container, folderID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	f.deleted = append(f.deleted, container+"/"+folderID)
	return true, nil
}

func ptr[T any](v T) *T {
	return &v
}

// sampleDocument is a valid imported document with uneven bilingual lists.
func sampleDocument() *document.Inspection {
	return &document.Inspection{
		InspectionComment: ptr("first pass"),
		Company: &document.OrganizationInformation{
			Name:        ptr("GreenGrow Inc."),
			Address:     ptr("123 Green Lane, Calgary"),
			Website:     ptr("https://greengrow.example"),
			PhoneNumber: ptr("+1 800 555 0100"),
		},
		Manufacturer: &document.OrganizationInformation{
			Name: ptr("AgroTech Industries"),
		},
		Product: document.ProductInformation{
			Name:      ptr("SuperGrow 20-20-20"),
			LotNumber: ptr("L-2024-001"),
			Metrics: document.Metrics{
				Weight:  []document.Metric{{Value: ptr(25.0), Unit: ptr("kg")}, {Value: ptr(55.0), Unit: ptr("lb")}},
				Density: document.Metric{Value: ptr(1.2), Unit: ptr("g/cm3")},
			},
			NPK:                ptr("10-20-30"),
			RegistrationNumber: ptr("2018007A"),
			Warranty:           ptr("Guaranteed analysis"),
		},
		Cautions: document.SubLabel{
			En: []string{"Keep out of reach of children.", "Avoid contact with eyes."},
			Fr: []string{"Tenir hors de portée des enfants."},
		},
		Instructions: document.SubLabel{
			En: []string{"Dissolve in water."},
			Fr: []string{"Dissoudre dans l'eau."},
		},
		FirstAid: document.SubLabel{En: []string{}, Fr: []string{}},
		GuaranteedAnalysis: document.GuaranteedAnalysis{
			Title: document.Title{En: ptr("Guaranteed Analysis"), Fr: ptr("Analyse garantie")},
			En: []document.NutrientValue{
				{Name: "Total Nitrogen (N)", Value: ptr(10.0), Unit: ptr("%")},
				{Name: "Available Phosphate (P2O5)", Value: ptr(20.0), Unit: ptr("%")},
			},
			Fr: []document.NutrientValue{
				{Name: "Azote total (N)", Value: ptr(10.0), Unit: ptr("%")},
				{Name: "Phosphate assimilable (P2O5)", Value: ptr(20.0), Unit: ptr("%")},
			},
		},
		Ingredients: document.BilingualValues{
			En: []document.NutrientValue{{Name: "Bone meal", Value: ptr(5.0), Unit: ptr("%")}},
			Fr: []document.NutrientValue{},
		},
		Micronutrients: document.BilingualValues{En: []document.NutrientValue{}, Fr: []document.NutrientValue{}},
		RegistrationNumbers: []document.RegistrationNumber{
			{RegistrationNumber: "2018007A", IsAnIngredient: ptr(false)},
		},
		Specifications: document.BilingualSpecifications{
			En: []document.Specification{{Humidity: ptr(10.0), Ph: ptr(6.5), Solubility: ptr(100.0)}},
			Fr: []document.Specification{},
		},
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, where ...interface{}) int64 {
	t.Helper()
	q := db.Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	var n int64
	require.NoError(t, q.Count(&n).Error)
	return n
}

func labelID(t *testing.T, doc *document.Inspection) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(doc.Product.LabelID)
	require.NoError(t, err)
	return id
}

func inspectionID(t *testing.T, doc *document.Inspection) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(doc.InspectionID)
	require.NoError(t, err)
	return id
}
