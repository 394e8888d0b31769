package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/services"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

type NodeHandler struct {
	nodeService services.NodeService
}

func NewNodeHandler(nodeService services.NodeService) *NodeHandler {
	return &NodeHandler{nodeService: nodeService}
}

type createNodeRequest struct {
	ProjectID  int64          `json:"project_id" binding:"required"`
	Type       types.NodeType `json:"type" binding:"required"`
	ParentID   string         `json:"parent_id"`
	Properties map[string]any `json:"properties" binding:"required"`
}

func (h *NodeHandler) Create(c *gin.Context) {
	var req createNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	node, err := h.nodeService.Create(c.Request.Context(), req.ProjectID, req.Type, req.ParentID, req.Properties)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, node)
}

func (h *NodeHandler) Get(c *gin.Context) {
	projectID, err := queryProjectID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	node, err := h.nodeService.Get(c.Request.Context(), projectID, c.Param("node_id"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, node)
}

type updateNodeRequest struct {
	ProjectID  int64          `json:"project_id" binding:"required"`
	Properties map[string]any `json:"properties" binding:"required"`
}

func (h *NodeHandler) Update(c *gin.Context) {
	var req updateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	node, err := h.nodeService.Update(c.Request.Context(), req.ProjectID, c.Param("node_id"), req.Properties)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, node)
}

func (h *NodeHandler) Delete(c *gin.Context) {
	projectID, err := queryProjectID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.nodeService.Delete(c.Request.Context(), projectID, c.Param("node_id")); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Node deleted successfully"})
}

func queryProjectID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Query("project_id"), 10, 64)
}
