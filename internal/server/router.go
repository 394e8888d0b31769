package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/handlers"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/middleware"
)

type RouterConfig struct {
	ProjectHandler    *handlers.ProjectHandler
	NodeHandler       *handlers.NodeHandler
	GraphHandler      *handlers.GraphHandler
	ReadingHandler    *handlers.ReadingHandler
	BulkHandler       *handlers.BulkHandler
	CategoryHandler   *handlers.CategoryHandler
	SettingsHandler   *handlers.SettingsHandler
	ProjectMiddleware *middleware.ProjectMiddleware
	ServiceName       string
	EnableTracing     bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	if cfg.EnableTracing {
		router.Use(otelgin.Middleware(cfg.ServiceName))
	}

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")

	// Projects
	projects := api.Group("/projects")
	{
		projects.GET("", cfg.ProjectHandler.List)
		projects.POST("", cfg.ProjectHandler.Create)
		projects.GET("/:project_id", cfg.ProjectHandler.Get)
		projects.DELETE("/:project_id", cfg.ProjectHandler.Delete)
		projects.GET("/:project_id/export", cfg.ProjectHandler.Export)
		projects.POST("/import", cfg.ProjectHandler.Import)
	}

	// Nodes
	nodes := api.Group("/nodes")
	{
		nodes.POST("", cfg.NodeHandler.Create)
		nodes.GET("/:node_id", cfg.NodeHandler.Get)
		nodes.PUT("/:node_id", cfg.NodeHandler.Update)
		nodes.DELETE("/:node_id", cfg.NodeHandler.Delete)
	}

	// Graph traversal; project-scoped reads validate project_id up front.
	graph := api.Group("/graph")
	{
		scoped := graph.Group("")
		scoped.Use(cfg.ProjectMiddleware.RequireProject())
		scoped.GET("/context/:node_id", cfg.GraphHandler.Context)
		scoped.GET("/expand/:node_id", cfg.GraphHandler.Expand)
		scoped.GET("/tree", cfg.GraphHandler.Tree)
		scoped.GET("/search", cfg.GraphHandler.Search)
		scoped.GET("/paths", cfg.GraphHandler.Paths)
		scoped.GET("/category-tree", cfg.GraphHandler.CategoryTree)

		graph.GET("/search-global", cfg.GraphHandler.SearchGlobal)
		graph.GET("/utility-roots/:project_id", cfg.GraphHandler.UtilityRoots)
		graph.POST("/connection", cfg.GraphHandler.Connection)
		graph.POST("/connect", cfg.GraphHandler.Connect)
		graph.POST("/insert-between", cfg.GraphHandler.InsertBetween)
	}

	// Readings
	readings := api.Group("/readings")
	{
		readings.GET("/:node_id", cfg.ReadingHandler.List)
		readings.POST("/:node_id", cfg.ReadingHandler.Add)
		readings.GET("/:node_id/daily", cfg.ReadingHandler.Daily)
	}

	// Bulk import
	api.POST("/bulk/nodes", cfg.BulkHandler.ImportNodes)

	// Categories
	categories := api.Group("/categories")
	{
		categories.GET("", cfg.ProjectMiddleware.RequireProject(), cfg.CategoryHandler.List)
		categories.POST("", cfg.CategoryHandler.Create)
	}

	// Settings
	settings := api.Group("/settings")
	{
		settings.GET("/consumer-categories", cfg.SettingsHandler.ListConsumerCategories)
		settings.POST("/consumer-categories", cfg.SettingsHandler.CreateConsumerCategory)
		settings.PUT("/consumer-categories/:category_id", cfg.SettingsHandler.UpdateConsumerCategory)
		settings.DELETE("/consumer-categories/:category_id", cfg.SettingsHandler.DeleteConsumerCategory)
	}

	return router
}
