// internal/services/inspection_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/fertiscan-backend/internal/database"
	"github.com/javajoker/fertiscan-backend/internal/document"
	"github.com/javajoker/fertiscan-backend/internal/metrics"
	"github.com/javajoker/fertiscan-backend/internal/models"
	"github.com/javajoker/fertiscan-backend/internal/utils"
)

// UserDirectory answers whether an id belongs to a known inspector.
type UserDirectory interface {
	IsValidUser(ctx context.Context, id uuid.UUID) (bool, error)
}

// InspectionService persists, reconciles and removes inspection documents.
type InspectionService struct {
	db         *gorm.DB
	users      UserDirectory
	authorizer Authorizer
	storage    FolderStorage
	catalog    *CatalogService
	sync       *CollectionSynchronizer
	metrics    *metrics.InspectionMetrics
}

type InspectionSearchParams struct {
	utils.PaginationParams
	Verified *bool `json:"verified,omitempty"`
}

// InspectionSummary is one row of an inspector's inspection list.
type InspectionSummary struct {
	ID          uuid.UUID  `json:"id"`
	LabelID     uuid.UUID  `json:"label_id"`
	ProductName string     `json:"product_name"`
	LotNumber   string     `json:"lot_number"`
	Verified    bool       `json:"verified"`
	VerifiedAt  *time.Time `json:"verified_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewInspectionService(
	db *gorm.DB,
	users UserDirectory,
	authorizer Authorizer,
	storage FolderStorage,
	catalog *CatalogService,
	m *metrics.InspectionMetrics,
) *InspectionService {
	return &InspectionService{
		db:         db,
		users:      users,
		authorizer: authorizer,
		storage:    storage,
		catalog:    catalog,
		sync:       NewCollectionSynchronizer(m),
		metrics:    m,
	}
}

// CreateInspection persists an imported document as a new, unverified
// inspection owned by inspectorID and creates its picture folder. original
// is kept verbatim as the digitized dataset.
func (s *InspectionService) CreateInspection(ctx context.Context, inspectorID uuid.UUID, doc *document.Inspection, original map[string]interface{}) (result *document.Inspection, err error) {
	defer s.observe("create", time.Now(), &err)

	valid, err := s.users.IsValidUser(ctx, inspectorID)
	if err != nil {
		return nil, internalError("create inspection", inspectorID, err)
	}
	if !valid {
		return nil, &NotFoundError{Resource: "user", ID: inspectorID}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	n, p, k, err := utils.ParseNPK(utils.Deref(doc.Product.NPK))
	if err != nil {
		return nil, &document.MetadataFormattingError{Err: err}
	}

	// The folder exists before any row points at it and is removed again if
	// the rows cannot be committed.
	pictureSet := models.PictureSet{
		BaseModel: models.BaseModel{ID: uuid.New()},
		OwnerID:   inspectorID,
		Name:      utils.Deref(doc.Product.Name),
	}
	container := ContainerName(inspectorID)
	created, err := s.storage.CreateFolder(ctx, container, pictureSet.ID.String())
	if err != nil {
		return nil, internalError("create picture folder", inspectorID, err)
	}
	if !created {
		return nil, internalError("create picture folder", inspectorID,
			fmt.Errorf("picture folder %s was not created", pictureSet.ID))
	}

	var inspection models.Inspection
	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Create(&pictureSet).Error; err != nil {
			return fmt.Errorf("failed to create picture set: %w", err)
		}

		companyID, err := upsertOrganization(tx, doc.Company, false)
		if err != nil {
			return err
		}
		manufacturerID, err := upsertOrganization(tx, doc.Manufacturer, false)
		if err != nil {
			return err
		}

		label := labelFromDocument(doc, n, p, k)
		label.CompanyID = companyID
		label.ManufacturerID = manufacturerID
		if err := tx.Omit(clause.Associations).Create(&label).Error; err != nil {
			return fmt.Errorf("failed to create label: %w", err)
		}

		inspection = models.Inspection{
			Verified:        false,
			Comment:         utils.Deref(doc.InspectionComment),
			InspectorID:     inspectorID,
			LabelID:         label.ID,
			PictureSetID:    &pictureSet.ID,
			OriginalDataset: models.JSONB(original),
		}
		if err := tx.Omit(clause.Associations).Create(&inspection).Error; err != nil {
			return fmt.Errorf("failed to create inspection: %w", err)
		}

		return s.sync.Sync(tx, label.ID, doc, false)
	})
	if err != nil {
		if _, cleanupErr := s.storage.DeleteFolderPermanently(ctx, container, pictureSet.ID.String()); cleanupErr != nil {
			logrus.WithError(cleanupErr).WithFields(logrus.Fields{
				"inspector_id": inspectorID,
				"folder_id":    pictureSet.ID,
			}).Warn("Failed to remove picture folder of a failed inspection")
		}
		return nil, internalError("create inspection", inspectorID, err)
	}

	logrus.WithFields(logrus.Fields{
		"inspection_id": inspection.ID,
		"inspector_id":  inspectorID,
	}).Info("Inspection created")

	return s.export(inspection.ID)
}

// ExportDocument reassembles the stored document of an inspection.
func (s *InspectionService) ExportDocument(ctx context.Context, inspectionID uuid.UUID) (result *document.Inspection, err error) {
	defer s.observe("export", time.Now(), &err)
	return buildExport(s.db.WithContext(ctx), inspectionID)
}

// UpdateInspection reconciles the stored inspection with doc on behalf of
// actorID and returns the document as persisted. Authorization is checked
// before any write; all writes share one transaction.
func (s *InspectionService) UpdateInspection(ctx context.Context, inspectionID, actorID uuid.UUID, doc *document.Inspection) (result *document.Inspection, err error) {
	defer s.observe("update", time.Now(), &err)

	inspection, err := s.authorize(ctx, inspectionID, actorID, "update")
	if err != nil {
		return nil, err
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	n, p, k, err := utils.ParseNPK(utils.Deref(doc.Product.NPK))
	if err != nil {
		return nil, &document.MetadataFormattingError{Err: err}
	}

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		current, err := lockLabel(tx, inspection.LabelID)
		if err != nil {
			return err
		}

		companyID, err := upsertOrganization(tx, doc.Company, true)
		if err != nil {
			return err
		}
		manufacturerID, err := upsertOrganization(tx, doc.Manufacturer, true)
		if err != nil {
			return err
		}

		label := labelFromDocument(doc, n, p, k)
		label.ID = current.ID
		label.CreatedAt = current.CreatedAt
		label.CompanyID = companyID
		label.ManufacturerID = manufacturerID
		if err := tx.Model(&models.Label{}).Where("id = ?", current.ID).Updates(labelUpdates(&label)).Error; err != nil {
			return fmt.Errorf("failed to update label: %w", err)
		}

		if err := s.sync.Sync(tx, label.ID, doc, true); err != nil {
			return err
		}

		var verifiedAt *time.Time
		if doc.Verified {
			now := time.Now()
			verifiedAt = &now
		}
		if err := tx.Model(&models.Inspection{}).Where("id = ?", inspection.ID).Updates(map[string]interface{}{
			"comment":     utils.Deref(doc.InspectionComment),
			"verified":    doc.Verified,
			"verified_at": verifiedAt,
		}).Error; err != nil {
			return fmt.Errorf("failed to update inspection: %w", err)
		}
		inspection.Verified = doc.Verified
		inspection.VerifiedAt = verifiedAt

		if doc.Verified {
			if _, err := s.catalog.PromoteToCatalog(tx, inspection, &label); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, internalError("update inspection", inspectionID, err)
	}

	logrus.WithFields(logrus.Fields{
		"inspection_id": inspectionID,
		"actor_id":      actorID,
		"verified":      doc.Verified,
	}).Info("Inspection updated")

	return s.export(inspectionID)
}

// ListInspections returns the inspector's inspections, newest first unless
// another sort is requested.
func (s *InspectionService) ListInspections(ctx context.Context, inspectorID uuid.UUID, params *InspectionSearchParams) (result []InspectionSummary, total int64, err error) {
	defer s.observe("list", time.Now(), &err)

	query := s.db.WithContext(ctx).Model(&models.Inspection{}).Where("inspector_id = ?", inspectorID)

	if params.Verified != nil {
		query = query.Where("verified = ?", *params.Verified)
	}
	if params.Search != "" {
		search := "%" + strings.ToLower(params.Search) + "%"
		labels := s.db.WithContext(ctx).Model(&models.Label{}).Select("id").
			Where("LOWER(product_name) LIKE ? OR LOWER(lot_number) LIKE ?", search, search)
		query = query.Where("label_id IN (?)", labels)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, internalError("count inspections", inspectorID, err)
	}

	var inspections []models.Inspection
	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "updated_at", "verified_at"})
	query = utils.ApplyPagination(query, params.PaginationParams)
	if err := query.Preload("Label").Find(&inspections).Error; err != nil {
		return nil, 0, internalError("list inspections", inspectorID, err)
	}

	result = make([]InspectionSummary, 0, len(inspections))
	for _, inspection := range inspections {
		result = append(result, InspectionSummary{
			ID:          inspection.ID,
			LabelID:     inspection.LabelID,
			ProductName: inspection.Label.ProductName,
			LotNumber:   inspection.Label.LotNumber,
			Verified:    inspection.Verified,
			VerifiedAt:  inspection.VerifiedAt,
			CreatedAt:   inspection.CreatedAt,
			UpdatedAt:   inspection.UpdatedAt,
		})
	}
	return result, total, nil
}

// authorize loads the inspection and checks actorID may write it.
func (s *InspectionService) authorize(ctx context.Context, inspectionID, actorID uuid.UUID, action string) (*models.Inspection, error) {
	var inspection models.Inspection
	if err := s.db.WithContext(ctx).First(&inspection, "id = ?", inspectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "inspection", ID: inspectionID}
		}
		return nil, internalError(action+" inspection", inspectionID, err)
	}

	allowed, err := s.authorizer.CanWrite(ctx, actorID, &inspection)
	if err != nil {
		return nil, internalError("authorize "+action, inspectionID, err)
	}
	if !allowed {
		logrus.WithFields(logrus.Fields{
			"inspection_id": inspectionID,
			"actor_id":      actorID,
			"action":        action,
		}).Warn("Inspection write denied")
		return nil, &AuthorizationError{ActorID: actorID, InspectionID: inspectionID, Action: action}
	}
	return &inspection, nil
}

func (s *InspectionService) export(inspectionID uuid.UUID) (*document.Inspection, error) {
	return buildExport(s.db, inspectionID)
}

func (s *InspectionService) observe(op string, start time.Time, err *error) {
	s.metrics.ObserveOperation(op, outcomeOf(*err), time.Since(start))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, ErrUnauthorized):
		return metrics.OutcomeUnauthorized
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeInternal
	}
}

func labelFromDocument(doc *document.Inspection, n, p, k *float64) models.Label {
	product := doc.Product
	return models.Label{
		ProductName:        strings.TrimSpace(utils.Deref(product.Name)),
		LotNumber:          utils.Deref(product.LotNumber),
		NPK:                utils.Deref(product.NPK),
		N:                  n,
		P:                  p,
		K:                  k,
		RegistrationNumber: utils.Deref(product.RegistrationNumber),
		Warranty:           utils.Deref(product.Warranty),
		TitleEn:            doc.GuaranteedAnalysis.Title.En,
		TitleFr:            doc.GuaranteedAnalysis.Title.Fr,
		IsMinimal:          doc.GuaranteedAnalysis.IsMinimal,
	}
}

func labelUpdates(label *models.Label) map[string]interface{} {
	return map[string]interface{}{
		"product_name":        label.ProductName,
		"lot_number":          label.LotNumber,
		"npk":                 label.NPK,
		"n":                   label.N,
		"p":                   label.P,
		"k":                   label.K,
		"registration_number": label.RegistrationNumber,
		"warranty":            label.Warranty,
		"title_en":            label.TitleEn,
		"title_fr":            label.TitleFr,
		"is_minimal":          label.IsMinimal,
		"company_id":          label.CompanyID,
		"manufacturer_id":     label.ManufacturerID,
	}
}

// upsertOrganization resolves info to an organization row. Only a row named
// by id is updated in place. Without an id, a row identical in every field is
// reused as is, else a new row is created. Empty info links nothing and
// leaves any existing organization alone.
func upsertOrganization(tx *gorm.DB, info *document.OrganizationInformation, markEdited bool) (*uuid.UUID, error) {
	if info.IsEmpty() {
		return nil, nil
	}

	fields := map[string]interface{}{
		"name":         strings.TrimSpace(utils.Deref(info.Name)),
		"address":      utils.Deref(info.Address),
		"website":      utils.Deref(info.Website),
		"phone_number": utils.Deref(info.PhoneNumber),
		"edited":       markEdited || info.Edited,
	}

	var org models.Organization
	if info.ID != "" {
		id, err := uuid.Parse(info.ID)
		if err != nil {
			return nil, &document.MetadataFormattingError{Err: fmt.Errorf("organization id %q: %w", info.ID, err)}
		}
		if err := tx.First(&org, "id = ?", id).Error; err != nil {
			return nil, notFound(err, "organization", id)
		}
		if err := tx.Model(&org).Updates(fields).Error; err != nil {
			return nil, fmt.Errorf("failed to update organization: %w", err)
		}
		return &org.ID, nil
	}

	// Other labels may link a row with the same name; those rows are never
	// rewritten from an id-less document.
	err := tx.Where("name = ? AND address = ? AND website = ? AND phone_number = ?",
		fields["name"], fields["address"], fields["website"], fields["phone_number"]).
		Order("created_at").First(&org).Error
	if err == nil {
		return &org.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	org = models.Organization{
		Name:        fields["name"].(string),
		Address:     fields["address"].(string),
		Website:     fields["website"].(string),
		PhoneNumber: fields["phone_number"].(string),
		Edited:      fields["edited"].(bool),
	}
	if err := tx.Create(&org).Error; err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return &org.ID, nil
}
