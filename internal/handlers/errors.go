// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/fertiscan-backend/internal/document"
	"github.com/javajoker/fertiscan-backend/internal/i18n"
	"github.com/javajoker/fertiscan-backend/internal/services"
	"github.com/javajoker/fertiscan-backend/internal/utils"
)

// respondError maps service errors to API responses: bad input is 400,
// authorization 403, stale references 404 and anything else 500.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var missing *document.MissingKeyError
	var notFound *services.NotFoundError
	switch {
	case errors.As(err, &missing):
		utils.MissingFieldsResponse(c, document.ValidationDetails(err))
	case errors.Is(err, services.ErrValidation):
		if details := document.ValidationDetails(err); len(details) > 0 {
			utils.ValidationErrorResponse(c, details)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrUnauthorized):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyInspectionForbidden))
	case errors.As(err, &notFound):
		utils.NotFoundResponse(c, notFound.Resource)
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}

// parseID reads a uuid path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, param, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalidID, resource), nil)
		return uuid.Nil, false
	}
	return id, true
}

// actorID is the authenticated user making the request.
func actorID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	return id, true
}
