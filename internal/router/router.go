// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/javajoker/fertiscan-backend/internal/config"
	"github.com/javajoker/fertiscan-backend/internal/handlers"
	"github.com/javajoker/fertiscan-backend/internal/metrics"
	"github.com/javajoker/fertiscan-backend/internal/middleware"
	"github.com/javajoker/fertiscan-backend/internal/services"
	"github.com/javajoker/fertiscan-backend/internal/utils"
)

// Dependencies are the collaborators the routes are served with. Storage
// is built from configuration when nil.
type Dependencies struct {
	DB      *gorm.DB
	Config  *config.Config
	Metrics *metrics.InspectionMetrics
	Storage services.FolderStorage
}

func Initialize(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config

	storage := deps.Storage
	if storage == nil {
		storageService, err := services.NewStorageService(cfg.AWS)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		storage = storageService
	}

	// Initialize services
	userService := services.NewUserService(deps.DB)
	catalogService := services.NewCatalogService(deps.DB)
	inspectionService := services.NewInspectionService(deps.DB, userService,
		services.NewOwnershipAuthorizer(), storage, catalogService, deps.Metrics)

	// Initialize handlers
	inspectionHandler := handlers.NewInspectionHandler(inspectionService)
	fertilizerHandler := handlers.NewFertilizerHandler(catalogService)

	// Set JWT validation
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	utils.SetJWTIssuer(cfg.JWT.Issuer)

	// Initialize Gin router
	r := gin.New()

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// API v1 routes
	v1 := r.Group("/v1")
	v1.Use(limiter.Middleware(), middleware.AuthRequired())
	{
		inspections := v1.Group("/inspections")
		inspections.Use(middleware.RegisterInspector(userService))
		{
			inspections.POST("", inspectionHandler.CreateInspection)
			inspections.GET("", inspectionHandler.GetInspections)
			inspections.GET("/:id", inspectionHandler.GetInspection)
			inspections.PUT("/:id", inspectionHandler.UpdateInspection)
			inspections.DELETE("/:id", inspectionHandler.DeleteInspection)
		}

		fertilizers := v1.Group("/fertilizers")
		{
			fertilizers.GET("", fertilizerHandler.GetFertilizers)
			fertilizers.GET("/:id", fertilizerHandler.GetFertilizer)
		}
	}

	return r, nil
}
