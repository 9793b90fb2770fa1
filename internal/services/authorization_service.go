// internal/services/authorization_service.go
package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/javajoker/fertiscan-backend/internal/models"
)

// Authorizer decides whether an actor may modify an inspection.
type Authorizer interface {
	CanWrite(ctx context.Context, actorID uuid.UUID, inspection *models.Inspection) (bool, error)
}

// OwnershipAuthorizer grants write access only to the recorded inspector.
type OwnershipAuthorizer struct{}

func NewOwnershipAuthorizer() *OwnershipAuthorizer {
	return &OwnershipAuthorizer{}
}

func (OwnershipAuthorizer) CanWrite(_ context.Context, actorID uuid.UUID, inspection *models.Inspection) (bool, error) {
	return inspection != nil && actorID != uuid.Nil && inspection.InspectorID == actorID, nil
}
