package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "metering_user", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_DB", "metering", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Project{},
		&types.Category{},
		&types.Reading{},
		&types.ConsumerCategorySetting{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	if err := s.db.Exec(`
		ALTER TABLE "categories"
		DROP CONSTRAINT IF EXISTS "fk_categories_project_id",
		ADD CONSTRAINT "fk_categories_project_id"
		FOREIGN KEY ("project_id")
		REFERENCES "projects"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("add fk_categories_project_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "readings"
		DROP CONSTRAINT IF EXISTS "fk_readings_project_id",
		ADD CONSTRAINT "fk_readings_project_id"
		FOREIGN KEY ("project_id")
		REFERENCES "projects"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("add fk_readings_project_id: %w", err)
	}

	// Timescale-specific setup is best-effort: on plain Postgres the
	// readings table stays a regular table and daily_readings falls back
	// to a plain view.
	if err := s.db.Exec(`SELECT create_hypertable('readings', 'time', if_not_exists => TRUE)`).Error; err != nil {
		s.log.Warn("create_hypertable failed (running on plain Postgres?)", "error", err)
	}
	if err := s.db.Exec(`
		CREATE OR REPLACE VIEW daily_readings AS
		SELECT
			project_id,
			node_id,
			date_trunc('day', time) AS day,
			avg(value)   AS avg_value,
			min(value)   AS min_value,
			max(value)   AS max_value,
			count(*)     AS reading_count
		FROM readings
		GROUP BY project_id, node_id, date_trunc('day', time)
	`).Error; err != nil {
		s.log.Warn("daily_readings view creation failed", "error", err)
	}

	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
