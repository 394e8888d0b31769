package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/repos"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

// ProjectIDKey is where RequireProject stores the validated project id on
// the gin context.
const ProjectIDKey = "project_id"

type ProjectMiddleware struct {
	log      *logger.Logger
	projects repos.ProjectRepo
}

func NewProjectMiddleware(log *logger.Logger, projects repos.ProjectRepo) *ProjectMiddleware {
	middlewareLogger := log.With("Middleware", "ProjectMiddleware")
	return &ProjectMiddleware{log: middlewareLogger, projects: projects}
}

// RequireProject validates the project_id query parameter against the
// project table and aborts with 400/404 when missing or unknown.
func (pm *ProjectMiddleware) RequireProject() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("project_id")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "project_id is required"})
			return
		}
		projectID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || projectID <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "project_id must be a positive integer"})
			return
		}
		if _, err := pm.projects.GetByID(c.Request.Context(), nil, projectID); err != nil {
			if errors.Is(err, types.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Project not found"})
				return
			}
			pm.log.Error("project lookup failed", "project_id", projectID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "project lookup failed"})
			return
		}
		c.Set(ProjectIDKey, projectID)
		c.Next()
	}
}

// ProjectID reads the project id validated by RequireProject.
func ProjectID(c *gin.Context) int64 {
	v, _ := c.Get(ProjectIDKey)
	id, _ := v.(int64)
	return id
}
