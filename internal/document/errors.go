// internal/document/errors.go
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/fertiscan-backend/internal/utils"
)

// ErrValidation is matched by every error describing bad input.
var ErrValidation = errors.New("validation failed")

// MissingKeyError lists every required key absent from a raw document.
type MissingKeyError struct {
	Keys []string
}

func (e *MissingKeyError) Error() string {
	return "missing required keys: " + strings.Join(e.Keys, ", ")
}

func (e *MissingKeyError) Is(target error) bool {
	return target == ErrValidation
}

// MetadataFormattingError is returned when a built document fails its own
// schema check, or when raw values have the wrong shape.
type MetadataFormattingError struct {
	Err error
}

func (e *MetadataFormattingError) Error() string {
	return fmt.Sprintf("inspection metadata is malformed: %v", e.Err)
}

func (e *MetadataFormattingError) Unwrap() error {
	return e.Err
}

func (e *MetadataFormattingError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationDetails flattens a validation failure into per-field entries
// for API responses. Errors that are not validation failures yield nil.
func ValidationDetails(err error) []utils.ValidationError {
	var missing *MissingKeyError
	if errors.As(err, &missing) {
		details := make([]utils.ValidationError, 0, len(missing.Keys))
		for _, key := range missing.Keys {
			details = append(details, utils.ValidationError{
				Field:   key,
				Tag:     "required",
				Message: key + " is required",
			})
		}
		return details
	}

	var npkErr *utils.NPKError
	if errors.As(err, &npkErr) {
		return []utils.ValidationError{{Field: "npk", Tag: "npk", Message: npkErr.Error()}}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []utils.ValidationError{{
			Field:   typeErr.Field,
			Tag:     "type",
			Message: fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type),
		}}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return utils.GetValidationErrors(validationErrs)
	}

	return nil
}
