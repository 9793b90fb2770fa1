// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/javajoker/fertiscan-backend/internal/document"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = document.ErrValidation
)

// NotFoundError reports a stale reference: the id has no matching row.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AuthorizationError is returned before any write when the actor may not
// modify the inspection.
type AuthorizationError struct {
	ActorID      uuid.UUID
	InspectionID uuid.UUID
	Action       string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %s is not authorized to %s inspection %s", e.ActorID, e.Action, e.InspectionID)
}

func (e *AuthorizationError) Is(target error) bool {
	return target == ErrUnauthorized
}

// BuildInspectionExportError wraps a known-missing-data failure while
// reassembling a document.
type BuildInspectionExportError struct {
	InspectionID uuid.UUID
	Step         string
	Err          error
}

func (e *BuildInspectionExportError) Error() string {
	return fmt.Sprintf("build export of inspection %s failed at %s: %v", e.InspectionID, e.Step, e.Err)
}

func (e *BuildInspectionExportError) Unwrap() error {
	return e.Err
}

// InternalError wraps an unexpected collaborator failure (database or
// storage) with the operation and target that triggered it.
type InternalError struct {
	Op  string
	ID  uuid.UUID
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s %s: internal error: %v", e.Op, e.ID, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// IsInternal reports whether err is an unexpected failure rather than a
// domain error the caller can act on.
func IsInternal(err error) bool {
	var internal *InternalError
	return errors.As(err, &internal)
}

func internalError(op string, id uuid.UUID, err error) error {
	if err == nil {
		return nil
	}
	var internal *InternalError
	if errors.As(err, &internal) || isDomainError(err) {
		return err
	}
	return &InternalError{Op: op, ID: id, Err: err}
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrValidation)
}
