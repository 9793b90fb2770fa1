// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"

	// Validation
	KeyValidationInvalid   = "validation.invalid"
	KeyValidationInvalidID = "validation.invalid_id"
	KeyValidationMissing   = "validation.missing_keys"

	// Inspections
	KeyInspectionCreated       = "inspection.created"
	KeyInspectionUpdated       = "inspection.updated"
	KeyInspectionDeleted       = "inspection.deleted"
	KeyInspectionNotFound      = "inspection.not_found"
	KeyInspectionForbidden     = "inspection.forbidden"
	KeyInspectionFolderCleanup = "inspection.folder_cleanup_failed"

	// Related resources
	KeyLabelNotFound        = "label.not_found"
	KeyOrganizationNotFound = "organization.not_found"
	KeyUserNotFound         = "user.not_found"
	KeyFertilizerNotFound   = "fertilizer.not_found"

	// System
	KeyRateLimitExceeded = "rate_limit.exceeded"
	KeyInternalError     = "error.internal"
)
