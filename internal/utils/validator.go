// internal/utils/validator.go
package utils

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var npkPattern = regexp.MustCompile(`^\s*\d+(\.\d+)?\s*-\s*\d+(\.\d+)?\s*-\s*\d+(\.\d+)?\s*$`)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("npk", validateNPK)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// npk accepts the empty string and anything shorter than a full triple,
// matching ParseNPK which leaves those unparsed.
func validateNPK(fl validator.FieldLevel) bool {
	npk := strings.TrimSpace(fl.Field().String())
	if len(npk) < 5 {
		return true
	}
	return npkPattern.MatchString(npk)
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   fieldPath(e),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

// fieldPath drops the root struct name from the namespace so that
// "Inspection.product.npk" reads "product.npk".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "oneof":
		return e.Field() + " must be one of " + e.Param()
	case "gte":
		return e.Field() + " must be greater than or equal to " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "npk":
		return "NPK must have the form N-P-K with numeric components"
	default:
		return e.Field() + " is invalid"
	}
}
