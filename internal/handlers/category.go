package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/middleware"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/services"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context(), middleware.ProjectID(c), c.Query("node_type"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, categories)
}

type createCategoryRequest struct {
	ProjectID    int64          `json:"project_id" binding:"required"`
	NodeType     types.NodeType `json:"node_type" binding:"required"`
	CategoryName string         `json:"category_name" binding:"required"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	category, err := h.categoryService.Create(c.Request.Context(), req.ProjectID, req.NodeType, req.CategoryName)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, category)
}
