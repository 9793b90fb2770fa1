package services

import (
	"errors"

	"github.com/google/uuid"

	"github.com/javajoker/fertiscan-backend/internal/document"
	"github.com/javajoker/fertiscan-backend/internal/models"
)

func (s *InspectionServiceTestSuite) verify(id uuid.UUID, doc *document.Inspection) {
	doc.Verified = true
	_, err := s.service.UpdateInspection(s.ctx, id, s.inspector, doc)
	s.Require().NoError(err)
}

func (s *InspectionServiceTestSuite) TestDeleteInspection_RemovesOwnedRows() {
	created := s.create(sampleDocument())
	id := inspectionID(s.T(), created)
	label := labelID(s.T(), created)

	deleted, err := s.service.DeleteInspection(s.ctx, id, s.inspector)
	s.Require().NoError(err)

	s.Equal(created, deleted.Inspection)
	s.True(deleted.FolderDeleted)
	s.False(deleted.DeletedAt.IsZero())
	s.Equal([]string{created.ContainerID + "/" + created.FolderID}, s.storage.deleted)

	for _, table := range []interface{}{
		&models.Metric{}, &models.SubLabel{}, &models.GuaranteedAnalysis{}, &models.Ingredient{},
		&models.Micronutrient{}, &models.RegistrationNumber{}, &models.Specification{},
	} {
		s.Zero(countRows(s.T(), s.db, table, "label_id = ?", label), "%T", table)
	}
	s.Zero(countRows(s.T(), s.db, &models.Label{}))
	s.Zero(countRows(s.T(), s.db, &models.Inspection{}))
	s.Zero(countRows(s.T(), s.db, &models.PictureSet{}))
	s.Zero(countRows(s.T(), s.db, &models.Organization{}))

	_, err = s.service.ExportDocument(s.ctx, id)
	s.True(errors.Is(err, ErrNotFound))
}

func (s *InspectionServiceTestSuite) TestDeleteInspection_KeepsSharedOrganization() {
	first := s.create(sampleDocument())
	second := s.create(sampleDocument())
	s.Require().Equal(first.Company.ID, second.Company.ID)

	_, err := s.service.DeleteInspection(s.ctx, inspectionID(s.T(), first), s.inspector)
	s.Require().NoError(err)
	s.Equal(int64(1), countRows(s.T(), s.db, &models.Organization{}, "id = ?", first.Company.ID))
	s.Equal(int64(1), countRows(s.T(), s.db, &models.Organization{}, "id = ?", first.Manufacturer.ID))

	_, err = s.service.DeleteInspection(s.ctx, inspectionID(s.T(), second), s.inspector)
	s.Require().NoError(err)
	s.Zero(countRows(s.T(), s.db, &models.Organization{}))
}

func (s *InspectionServiceTestSuite) TestDeleteInspection_CompanyAndManufacturerCheckedIndependently() {
	first := s.create(sampleDocument())
	doc := sampleDocument()
	doc.Company = &document.OrganizationInformation{Name: ptr("Other Distributor")}
	second := s.create(doc)

	_, err := s.service.DeleteInspection(s.ctx, inspectionID(s.T(), first), s.inspector)
	s.Require().NoError(err)

	// The company was only used by the deleted label, the manufacturer is shared
	s.Zero(countRows(s.T(), s.db, &models.Organization{}, "id = ?", first.Company.ID))
	s.Equal(int64(1), countRows(s.T(), s.db, &models.Organization{}, "id = ?", second.Manufacturer.ID))
	s.Equal(int64(1), countRows(s.T(), s.db, &models.Organization{}, "id = ?", second.Company.ID))
}

func (s *InspectionServiceTestSuite) TestDeleteInspection_Unauthorized() {
	created := s.create(sampleDocument())
	id := inspectionID(s.T(), created)

	_, err := s.service.DeleteInspection(s.ctx, id, s.other)

	var authErr *AuthorizationError
	s.Require().True(errors.As(err, &authErr))
	s.Equal("delete", authErr.Action)
	s.Contains(err.Error(), s.other.String())
	s.Contains(err.Error(), id.String())
	s.Empty(s.storage.deleted)

	after, err := s.service.ExportDocument(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(created, after)
}

func (s *InspectionServiceTestSuite) TestDeleteInspection_NotFound() {
	_, err := s.service.DeleteInspection(s.ctx, uuid.New(), s.inspector)
	s.True(errors.Is(err, ErrNotFound))
}

func (s *InspectionServiceTestSuite) TestDeleteInspection_FertilizerCascade() {
	first := s.create(sampleDocument())
	second := s.create(sampleDocument())
	s.verify(inspectionID(s.T(), first), sampleDocument())
	s.verify(inspectionID(s.T(), second), sampleDocument())

	var fertilizer models.Fertilizer
	s.Require().NoError(s.db.First(&fertilizer).Error)
	s.Equal(inspectionID(s.T(), second), *fertilizer.LatestInspectionID)

	// The catalog entry points at the second inspection
	_, err := s.service.DeleteInspection(s.ctx, inspectionID(s.T(), first), s.inspector)
	s.Require().NoError(err)
	var untouched models.Fertilizer
	s.Require().NoError(s.db.First(&untouched, "id = ?", fertilizer.ID).Error)
	s.Equal(fertilizer, untouched)

	_, err = s.service.DeleteInspection(s.ctx, inspectionID(s.T(), second), s.inspector)
	s.Require().NoError(err)
	s.Zero(countRows(s.T(), s.db, &models.Fertilizer{}))
	s.Zero(countRows(s.T(), s.db, &models.Organization{}))
}

func (s *InspectionServiceTestSuite) TestDeleteInspection_KeepsOrganizationOwningFertilizer() {
	first := s.create(sampleDocument())
	s.verify(inspectionID(s.T(), first), sampleDocument())

	// Point the catalog entry elsewhere so it survives the cascade
	elsewhere := uuid.New()
	s.Require().NoError(s.db.Model(&models.Fertilizer{}).Where("1 = 1").
		Update("latest_inspection_id", elsewhere).Error)

	_, err := s.service.DeleteInspection(s.ctx, inspectionID(s.T(), first), s.inspector)
	s.Require().NoError(err)

	s.Equal(int64(1), countRows(s.T(), s.db, &models.Fertilizer{}))
	s.Equal(int64(1), countRows(s.T(), s.db, &models.Organization{}, "id = ?", first.Company.ID))
}

func (s *InspectionServiceTestSuite) TestDeleteInspection_StorageFailureAfterCommit() {
	created := s.create(sampleDocument())
	s.storage.deleteErr = errors.New("timeout")

	deleted, err := s.service.DeleteInspection(s.ctx, inspectionID(s.T(), created), s.inspector)

	s.Require().Error(err)
	s.True(IsInternal(err))
	s.Require().NotNil(deleted)
	s.Equal(created, deleted.Inspection)
	s.False(deleted.FolderDeleted)
	s.Zero(countRows(s.T(), s.db, &models.Inspection{}))
}
