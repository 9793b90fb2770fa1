// internal/services/catalog_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/fertiscan-backend/internal/document"
	"github.com/javajoker/fertiscan-backend/internal/models"
	"github.com/javajoker/fertiscan-backend/internal/utils"
)

// ErrMissingProductName is returned when verifying an inspection whose label
// has no product name to catalog it under.
var ErrMissingProductName = errors.New("a verified inspection needs a product name")

// CatalogService maintains the Fertilizer catalog. Entries are only ever
// written by promoting a verified inspection.
type CatalogService struct {
	db *gorm.DB
}

type FertilizerSearchParams struct {
	utils.PaginationParams
	OwnerID *uuid.UUID `json:"owner_id,omitempty"`
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// PromoteToCatalog upserts the Fertilizer identified by the label's product
// name and owner, pointing it at inspection. The owner is the company, or
// the manufacturer when there is no company.
func (s *CatalogService) PromoteToCatalog(tx *gorm.DB, inspection *models.Inspection, label *models.Label) (*models.Fertilizer, error) {
	name := strings.TrimSpace(label.ProductName)
	if name == "" {
		return nil, &document.MetadataFormattingError{Err: ErrMissingProductName}
	}

	ownerID := label.CompanyID
	if ownerID == nil {
		ownerID = label.ManufacturerID
	}

	q := tx.Where("name = ?", name)
	if ownerID == nil {
		q = q.Where("owner_id IS NULL")
	} else {
		q = q.Where("owner_id = ?", *ownerID)
	}

	var fertilizer models.Fertilizer
	err := q.First(&fertilizer).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fertilizer = models.Fertilizer{
			Name:               name,
			RegistrationNumber: label.RegistrationNumber,
			OwnerID:            ownerID,
			LatestInspectionID: &inspection.ID,
		}
		if err := tx.Omit(clause.Associations).Create(&fertilizer).Error; err != nil {
			return nil, fmt.Errorf("failed to create fertilizer: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("database error: %w", err)
	default:
		if err := tx.Model(&fertilizer).Updates(map[string]interface{}{
			"registration_number":  label.RegistrationNumber,
			"latest_inspection_id": inspection.ID,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to update fertilizer: %w", err)
		}
		fertilizer.RegistrationNumber = label.RegistrationNumber
		fertilizer.LatestInspectionID = &inspection.ID
	}

	logrus.WithFields(logrus.Fields{
		"fertilizer_id": fertilizer.ID,
		"inspection_id": inspection.ID,
		"name":          name,
	}).Info("Inspection promoted to fertilizer catalog")

	return &fertilizer, nil
}

func (s *CatalogService) GetFertilizer(ctx context.Context, id uuid.UUID) (*models.Fertilizer, error) {
	var fertilizer models.Fertilizer
	if err := s.db.WithContext(ctx).Preload("Owner").First(&fertilizer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "fertilizer", ID: id}
		}
		return nil, internalError("get fertilizer", id, err)
	}
	return &fertilizer, nil
}

func (s *CatalogService) ListFertilizers(ctx context.Context, params *FertilizerSearchParams) ([]models.Fertilizer, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Fertilizer{})

	if params.OwnerID != nil {
		query = query.Where("owner_id = ?", *params.OwnerID)
	}
	if params.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, internalError("count fertilizers", uuid.Nil, err)
	}

	var fertilizers []models.Fertilizer
	query = utils.ApplySort(query, params.PaginationParams, []string{"name", "created_at", "updated_at"})
	query = utils.ApplyPagination(query, params.PaginationParams)
	if err := query.Preload("Owner").Find(&fertilizers).Error; err != nil {
		return nil, 0, internalError("list fertilizers", uuid.Nil, err)
	}

	return fertilizers, total, nil
}
