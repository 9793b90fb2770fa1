// internal/handlers/inspection.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/fertiscan-backend/internal/document"
	"github.com/javajoker/fertiscan-backend/internal/i18n"
	"github.com/javajoker/fertiscan-backend/internal/services"
	"github.com/javajoker/fertiscan-backend/internal/utils"
)

type InspectionHandler struct {
	inspectionService *services.InspectionService
}

func NewInspectionHandler(inspectionService *services.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspectionService: inspectionService}
}

// POST /inspections
// The body is the raw digitized form produced by label extraction.
func (h *InspectionHandler) CreateInspection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	inspectorID, ok := actorID(c)
	if !ok {
		return
	}

	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	doc, err := document.Import(raw)
	if err != nil {
		respondError(c, err)
		return
	}

	inspection, err := h.inspectionService.CreateInspection(c.Request.Context(), inspectorID, doc, raw)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyInspectionCreated),
		"inspection": inspection,
	})
}

// GET /inspections
func (h *InspectionHandler) GetInspections(c *gin.Context) {
	inspectorID, ok := actorID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	searchParams := services.InspectionSearchParams{PaginationParams: params}
	if verifiedStr := c.Query("verified"); verifiedStr != "" {
		if verified, err := strconv.ParseBool(verifiedStr); err == nil {
			searchParams.Verified = &verified
		}
	}

	inspections, total, err := h.inspectionService.ListInspections(c.Request.Context(), inspectorID, &searchParams)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(inspections, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /inspections/:id
func (h *InspectionHandler) GetInspection(c *gin.Context) {
	id, ok := parseID(c, "id", "inspection")
	if !ok {
		return
	}

	inspection, err := h.inspectionService.ExportDocument(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"inspection": inspection,
	})
}

// PUT /inspections/:id
// The body is a full document; every collection in it replaces the stored one.
func (h *InspectionHandler) UpdateInspection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id", "inspection")
	if !ok {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var doc document.Inspection
	if err := c.ShouldBindJSON(&doc); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	inspection, err := h.inspectionService.UpdateInspection(c.Request.Context(), id, actor, &doc)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyInspectionUpdated),
		"inspection": inspection,
	})
}

// DELETE /inspections/:id
func (h *InspectionHandler) DeleteInspection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "id", "inspection")
	if !ok {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	deleted, err := h.inspectionService.DeleteInspection(c.Request.Context(), id, actor)
	if err != nil && deleted == nil {
		respondError(c, err)
		return
	}

	// Rows are gone even when the picture folder could not be removed
	if err != nil {
		utils.SuccessResponseWithMeta(c, gin.H{
			"message": i18n.T(lang, i18n.KeyInspectionDeleted),
			"deleted": deleted,
		}, gin.H{
			"warning": i18n.T(lang, i18n.KeyInspectionFolderCleanup),
		})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyInspectionDeleted),
		"deleted": deleted,
	})
}
