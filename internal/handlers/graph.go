package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/middleware"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/services"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

// GraphHandler serves the traversal and structural endpoints. Routes under
// the project group run behind RequireProject; Connect and InsertBetween
// carry their scope in the body instead.
type GraphHandler struct {
	treeService services.TreeService
}

func NewGraphHandler(treeService services.TreeService) *GraphHandler {
	return &GraphHandler{treeService: treeService}
}

func (h *GraphHandler) Context(c *gin.Context) {
	depth, err := strconv.Atoi(c.DefaultQuery("depth", "1"))
	if err != nil || depth < 1 {
		depth = 1
	}
	context, err := h.treeService.Context(c.Request.Context(), middleware.ProjectID(c), c.Param("node_id"), depth)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, context)
}

// Expand is Context fixed at depth 1; the UI uses it for one-step unfolds.
func (h *GraphHandler) Expand(c *gin.Context) {
	context, err := h.treeService.Context(c.Request.Context(), middleware.ProjectID(c), c.Param("node_id"), 1)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, context)
}

func (h *GraphHandler) Tree(c *gin.Context) {
	nodes, err := h.treeService.Children(c.Request.Context(), middleware.ProjectID(c), c.Query("parent_id"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, nodes)
}

func (h *GraphHandler) Search(c *gin.Context) {
	nodes, err := h.treeService.Search(c.Request.Context(), middleware.ProjectID(c), c.Query("q"), c.Query("category"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, nodes)
}

func (h *GraphHandler) SearchGlobal(c *gin.Context) {
	nodes, err := h.treeService.SearchGlobal(c.Request.Context(), c.Query("q"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, nodes)
}

func (h *GraphHandler) Paths(c *gin.Context) {
	nodeIDs := splitIDs(c.Query("node_ids"))
	paths, err := h.treeService.Paths(c.Request.Context(), middleware.ProjectID(c), nodeIDs)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, paths)
}

func (h *GraphHandler) CategoryTree(c *gin.Context) {
	nodeIDs := splitIDs(c.Query("node_ids"))
	tree, err := h.treeService.CategoryTree(c.Request.Context(), middleware.ProjectID(c), nodeIDs)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, tree)
}

func (h *GraphHandler) UtilityRoots(c *gin.Context) {
	projectID, err := strconv.ParseInt(c.Param("project_id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	roots, err := h.treeService.UtilityRoots(c.Request.Context(), projectID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, roots)
}

type createConnectionRequest struct {
	ProjectID      int64  `json:"project_id" binding:"required"`
	StartNodeID    string `json:"start_node_id" binding:"required"`
	EndNodeID      string `json:"end_node_id" binding:"required"`
	ConnectionType string `json:"connection_type"`
}

// Connection creates an edge without rule checks; it exists for tooling
// that rebuilds trees wholesale. Interactive wiring goes through Connect.
func (h *GraphHandler) Connection(c *gin.Context) {
	var req createConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rel, err := h.treeService.Connect(c.Request.Context(), req.ProjectID, req.StartNodeID, req.EndNodeID, req.ConnectionType)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, rel)
}

type connectRequest struct {
	SourceID string `json:"source_id" binding:"required"`
	TargetID string `json:"target_id" binding:"required"`
}

func (h *GraphHandler) Connect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.treeService.ConnectValidated(c.Request.Context(), req.SourceID, req.TargetID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"message": "Connection created"})
}

type insertBetweenRequest struct {
	ProjectID  int64          `json:"project_id" binding:"required"`
	SourceID   string         `json:"source_id" binding:"required"`
	TargetID   string         `json:"target_id" binding:"required"`
	NodeType   types.NodeType `json:"node_type" binding:"required"`
	Properties map[string]any `json:"properties"`
}

func (h *GraphHandler) InsertBetween(c *gin.Context) {
	var req insertBetweenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Properties == nil {
		req.Properties = map[string]any{}
	}
	node, err := h.treeService.InsertBetween(c.Request.Context(), req.ProjectID, req.SourceID, req.TargetID, req.NodeType, req.Properties)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, node)
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
