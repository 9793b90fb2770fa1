// internal/services/deletion.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/fertiscan-backend/internal/database"
	"github.com/javajoker/fertiscan-backend/internal/document"
	"github.com/javajoker/fertiscan-backend/internal/models"
)

// DeletedInspection is the document as it was before deletion.
type DeletedInspection struct {
	Inspection    *document.Inspection `json:"inspection"`
	DeletedAt     time.Time            `json:"deleted_at"`
	FolderDeleted bool                 `json:"folder_deleted"`
}

// DeleteInspection removes the inspection and every row it exclusively
// owns, then its picture folder. Shared organizations survive while any
// label or catalog entry still references them.
func (s *InspectionService) DeleteInspection(ctx context.Context, inspectionID, actorID uuid.UUID) (result *DeletedInspection, err error) {
	defer s.observe("delete", time.Now(), &err)

	inspection, err := s.authorize(ctx, inspectionID, actorID, "delete")
	if err != nil {
		return nil, err
	}

	snapshot, err := buildExport(s.db.WithContext(ctx), inspectionID)
	if err != nil {
		return nil, err
	}

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		label, err := lockLabel(tx, inspection.LabelID)
		if err != nil {
			return err
		}

		if err := deleteCollections(tx, label.ID); err != nil {
			return err
		}

		// A catalog entry cannot outlive the inspection it points at
		if err := tx.Where("latest_inspection_id = ?", inspection.ID).Delete(&models.Fertilizer{}).Error; err != nil {
			return fmt.Errorf("failed to delete fertilizers: %w", err)
		}

		// The inspection references the label, so it goes first
		if err := tx.Delete(&models.Inspection{}, "id = ?", inspection.ID).Error; err != nil {
			return fmt.Errorf("failed to delete inspection: %w", err)
		}
		if err := tx.Delete(&models.Label{}, "id = ?", label.ID).Error; err != nil {
			return fmt.Errorf("failed to delete label: %w", err)
		}

		for _, orgID := range distinctIDs(label.CompanyID, label.ManufacturerID) {
			if err := deleteOrganizationIfUnreferenced(tx, orgID); err != nil {
				return err
			}
		}

		if inspection.PictureSetID != nil {
			if err := deletePictureSetIfUnreferenced(tx, *inspection.PictureSetID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, internalError("delete inspection", inspectionID, err)
	}

	result = &DeletedInspection{Inspection: snapshot, DeletedAt: time.Now()}

	logger := logrus.WithFields(logrus.Fields{
		"inspection_id": inspectionID,
		"actor_id":      actorID,
	})

	if inspection.PictureSetID != nil {
		deleted, err := s.storage.DeleteFolderPermanently(ctx, ContainerName(inspection.InspectorID), inspection.PictureSetID.String())
		if err != nil {
			// Relational state is already gone; report both.
			logger.WithError(err).Error("Failed to delete picture folder")
			return result, &InternalError{Op: "delete picture folder", ID: inspectionID, Err: err}
		}
		result.FolderDeleted = deleted
	}

	logger.Info("Inspection deleted")
	return result, nil
}

// deleteOrganizationIfUnreferenced removes the organization only when no
// label and no catalog entry still points at it.
func deleteOrganizationIfUnreferenced(tx *gorm.DB, orgID uuid.UUID) error {
	var labels int64
	if err := tx.Model(&models.Label{}).
		Where("company_id = ? OR manufacturer_id = ?", orgID, orgID).
		Count(&labels).Error; err != nil {
		return fmt.Errorf("failed to count organization references: %w", err)
	}
	if labels > 0 {
		return nil
	}

	var fertilizers int64
	if err := tx.Model(&models.Fertilizer{}).Where("owner_id = ?", orgID).Count(&fertilizers).Error; err != nil {
		return fmt.Errorf("failed to count organization references: %w", err)
	}
	if fertilizers > 0 {
		return nil
	}

	if err := tx.Delete(&models.Organization{}, "id = ?", orgID).Error; err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	return nil
}

func deletePictureSetIfUnreferenced(tx *gorm.DB, pictureSetID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Inspection{}).Where("picture_set_id = ?", pictureSetID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count picture set references: %w", err)
	}
	if count > 0 {
		return nil
	}
	if err := tx.Delete(&models.PictureSet{}, "id = ?", pictureSetID).Error; err != nil {
		return fmt.Errorf("failed to delete picture set: %w", err)
	}
	return nil
}

func distinctIDs(ids ...*uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	var out []uuid.UUID
	for _, id := range ids {
		if id == nil || seen[*id] {
			continue
		}
		seen[*id] = true
		out = append(out, *id)
	}
	return out
}
