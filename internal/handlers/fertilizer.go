// internal/handlers/fertilizer.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/fertiscan-backend/internal/services"
	"github.com/javajoker/fertiscan-backend/internal/utils"
)

type FertilizerHandler struct {
	catalogService *services.CatalogService
}

func NewFertilizerHandler(catalogService *services.CatalogService) *FertilizerHandler {
	return &FertilizerHandler{catalogService: catalogService}
}

// GET /fertilizers
func (h *FertilizerHandler) GetFertilizers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	searchParams := services.FertilizerSearchParams{PaginationParams: params}

	if ownerIDStr := c.Query("owner_id"); ownerIDStr != "" {
		if ownerID, err := uuid.Parse(ownerIDStr); err == nil {
			searchParams.OwnerID = &ownerID
		}
	}

	fertilizers, total, err := h.catalogService.ListFertilizers(c.Request.Context(), &searchParams)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(fertilizers, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /fertilizers/:id
func (h *FertilizerHandler) GetFertilizer(c *gin.Context) {
	id, ok := parseID(c, "id", "fertilizer")
	if !ok {
		return
	}

	fertilizer, err := h.catalogService.GetFertilizer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"fertilizer": fertilizer,
	})
}
