package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/services"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

type SettingsHandler struct {
	settingsService services.SettingsService
}

func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) ListConsumerCategories(c *gin.Context) {
	settings, err := h.settingsService.ListConsumerCategories(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, settings)
}

type createConsumerCategoryRequest struct {
	CategoryName string `json:"category_name" binding:"required"`
	DisplayName  string `json:"display_name" binding:"required"`
	IconName     string `json:"icon_name"`
	Color        string `json:"color"`
	SortOrder    int    `json:"sort_order"`
}

func (h *SettingsHandler) CreateConsumerCategory(c *gin.Context) {
	var req createConsumerCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	setting, err := h.settingsService.CreateConsumerCategory(c.Request.Context(), &types.ConsumerCategorySetting{
		CategoryName: req.CategoryName,
		DisplayName:  req.DisplayName,
		IconName:     req.IconName,
		Color:        req.Color,
		SortOrder:    req.SortOrder,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, setting)
}

func (h *SettingsHandler) UpdateConsumerCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("category_id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var update types.ConsumerCategoryUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	setting, err := h.settingsService.UpdateConsumerCategory(c.Request.Context(), id, &update)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, setting)
}

func (h *SettingsHandler) DeleteConsumerCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("category_id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.settingsService.DeleteConsumerCategory(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Category deleted"})
}
