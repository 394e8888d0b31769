package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/services"
)

type ReadingHandler struct {
	readingService services.ReadingService
}

func NewReadingHandler(readingService services.ReadingService) *ReadingHandler {
	return &ReadingHandler{readingService: readingService}
}

func (h *ReadingHandler) List(c *gin.Context) {
	projectID, err := queryProjectID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	from := c.Query("from")
	to := c.Query("to")
	if from != "" && to != "" {
		fromTime, err := time.Parse(time.RFC3339, from)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		toTime, err := time.Parse(time.RFC3339, to)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		readings, err := h.readingService.ListRange(c.Request.Context(), projectID, c.Param("node_id"), fromTime, toTime)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, readings)
		return
	}

	readings, err := h.readingService.List(c.Request.Context(), projectID, c.Param("node_id"), limit, offset)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, readings)
}

type addReadingRequest struct {
	ProjectID int64    `json:"project_id" binding:"required"`
	Value     *float64 `json:"value" binding:"required"`
	Unit      string   `json:"unit" binding:"required"`
	Timestamp string   `json:"timestamp"`
}

func (h *ReadingHandler) Add(c *gin.Context) {
	var req addReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var at *time.Time
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		at = &parsed
	}
	reading, err := h.readingService.Add(c.Request.Context(), req.ProjectID, c.Param("node_id"), *req.Value, req.Unit, at)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, reading)
}

func (h *ReadingHandler) Daily(c *gin.Context) {
	projectID, err := queryProjectID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	aggregates, err := h.readingService.Daily(c.Request.Context(), projectID, c.Param("node_id"), days)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, aggregates)
}
