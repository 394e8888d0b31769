package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/db"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/graph"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/graphdb"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/handlers"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/middleware"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/observability"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/repos"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/server"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/services"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing (no-op unless OTEL_ENABLED)
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "meteringgraph",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	// Postgres / TimescaleDB
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Neo4j
	log.Info("Connecting to graph store...")
	graphClient, err := graphdb.NewFromEnv(log)
	if err != nil {
		log.Error("Neo4j init failed", "error", err)
		os.Exit(1)
	}
	defer graphClient.Close(ctx)
	if err := graphClient.InitSchema(ctx, 30, 2*time.Second); err != nil {
		log.Error("Neo4j schema init failed", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up repos from main...")
	projectRepo := repos.NewProjectRepo(thePG, log)
	categoryRepo := repos.NewCategoryRepo(thePG, log)
	readingRepo := repos.NewReadingRepo(thePG, log)
	consumerCategoryRepo := repos.NewConsumerCategoryRepo(thePG, log)

	// Graph components
	treeRepo := graph.NewTreeRepo(graphClient, log)
	rootManager := graph.NewRootManager(graphClient, treeRepo, log)
	validator := graph.NewValidator(treeRepo, log)

	// Services
	log.Info("Setting up services from main...")
	projectService := services.NewProjectService(projectRepo, categoryRepo, readingRepo, treeRepo, rootManager, log)
	nodeService := services.NewNodeService(treeRepo, rootManager, log)
	treeService := services.NewTreeService(treeRepo, rootManager, validator, log)
	bulkImportService := services.NewBulkImportService(treeRepo, rootManager, log)
	readingService := services.NewReadingService(readingRepo, log)
	categoryService := services.NewCategoryService(categoryRepo, log)
	settingsService := services.NewSettingsService(consumerCategoryRepo, log)

	// Handlers
	log.Info("Setting up handlers from main...")
	projectHandler := handlers.NewProjectHandler(projectService)
	nodeHandler := handlers.NewNodeHandler(nodeService)
	graphHandler := handlers.NewGraphHandler(treeService)
	readingHandler := handlers.NewReadingHandler(readingService)
	bulkHandler := handlers.NewBulkHandler(bulkImportService, projectRepo)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	// Middleware
	projectMiddleware := middleware.NewProjectMiddleware(log, projectRepo)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ProjectHandler:    projectHandler,
		NodeHandler:       nodeHandler,
		GraphHandler:      graphHandler,
		ReadingHandler:    readingHandler,
		BulkHandler:       bulkHandler,
		CategoryHandler:   categoryHandler,
		SettingsHandler:   settingsHandler,
		ProjectMiddleware: projectMiddleware,
		ServiceName:       "meteringgraph",
		EnableTracing:     os.Getenv("OTEL_ENABLED") != "",
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
