package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/services"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

type ProjectHandler struct {
	projectService services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type createProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	project, err := h.projectService.Create(c.Request.Context(), req.Name)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, project)
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.List(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, err := pathProjectID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	project, err := h.projectService.Get(c.Request.Context(), projectID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, err := pathProjectID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.projectService.Delete(c.Request.Context(), projectID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Project deleted successfully"})
}

func (h *ProjectHandler) Export(c *gin.Context) {
	projectID, err := pathProjectID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	export, err := h.projectService.Export(c.Request.Context(), projectID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, export)
}

func (h *ProjectHandler) Import(c *gin.Context) {
	var export types.ProjectExport
	if err := c.ShouldBindJSON(&export); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	project, err := h.projectService.Import(c.Request.Context(), &export)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, project)
}

func pathProjectID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("project_id"), 10, 64)
}
