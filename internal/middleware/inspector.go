// internal/middleware/inspector.go
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/fertiscan-backend/internal/models"
	"github.com/javajoker/fertiscan-backend/internal/utils"
)

// InspectorRegistry records users known to the identity service locally.
type InspectorRegistry interface {
	EnsureUser(ctx context.Context, id uuid.UUID, email string) (*models.User, error)
}

// RegisterInspector makes sure the authenticated user has a local record
// before any inspection is attributed to them. It runs after AuthRequired.
func RegisterInspector(registry InspectorRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDStr, _ := utils.GetUserIDFromContext(c)
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		email := c.GetString("email")
		if email == "" {
			email = userID.String() + "@users.invalid"
		}

		if _, err := registry.EnsureUser(c.Request.Context(), userID, email); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("Failed to register inspector")
			utils.InternalErrorResponse(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}
