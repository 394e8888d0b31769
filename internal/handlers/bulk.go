package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/repos"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/services"
)

type BulkHandler struct {
	bulkService services.BulkImportService
	projects    repos.ProjectRepo
}

func NewBulkHandler(bulkService services.BulkImportService, projects repos.ProjectRepo) *BulkHandler {
	return &BulkHandler{bulkService: bulkService, projects: projects}
}

// ImportNodes takes a multipart form with a project_id field and a CSV
// file. Responds 200 when every row imported, 207 on partial success.
func (h *BulkHandler) ImportNodes(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.PostForm("project_id"), 10, 64)
	if err != nil || projectID <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("project_id is required"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("no file uploaded"))
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("only CSV files are allowed"))
		return
	}

	if _, err := h.projects.GetByID(c.Request.Context(), nil, projectID); err != nil {
		RespondServiceError(c, err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := h.bulkService.ImportCSV(c.Request.Context(), projectID, raw)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	status := http.StatusOK
	if len(result.Errors) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, result)
}
