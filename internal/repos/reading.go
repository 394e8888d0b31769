package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

type ReadingRepo interface {
	Insert(ctx context.Context, tx *gorm.DB, readings []*types.Reading) error
	// ListByNode returns the newest readings first, paginated.
	ListByNode(ctx context.Context, tx *gorm.DB, projectID int64, nodeID string, limit, offset int) ([]*types.Reading, error)
	ListByNodeRange(ctx context.Context, tx *gorm.DB, projectID int64, nodeID string, from, to time.Time) ([]*types.Reading, error)
	// DailyAggregates reads the daily rollup for the trailing window.
	DailyAggregates(ctx context.Context, tx *gorm.DB, projectID int64, nodeID string, days int) ([]*types.DailyReading, error)
	DeleteByProject(ctx context.Context, tx *gorm.DB, projectID int64) (int64, error)
	ExportByProject(ctx context.Context, tx *gorm.DB, projectID int64) ([]*types.ExportReading, error)
}

type readingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReadingRepo(db *gorm.DB, baseLog *logger.Logger) ReadingRepo {
	repoLog := baseLog.With("repo", "ReadingRepo")
	return &readingRepo{db: db, log: repoLog}
}

func (r *readingRepo) Insert(ctx context.Context, tx *gorm.DB, readings []*types.Reading) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(readings) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).CreateInBatches(&readings, 500).Error
}

func (r *readingRepo) ListByNode(ctx context.Context, tx *gorm.DB, projectID int64, nodeID string, limit, offset int) ([]*types.Reading, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	var readings []*types.Reading
	if err := transaction.WithContext(ctx).
		Where("project_id = ? AND node_id = ?", projectID, nodeID).
		Order("time DESC").
		Limit(limit).
		Offset(offset).
		Find(&readings).Error; err != nil {
		return nil, err
	}
	return readings, nil
}

func (r *readingRepo) ListByNodeRange(ctx context.Context, tx *gorm.DB, projectID int64, nodeID string, from, to time.Time) ([]*types.Reading, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var readings []*types.Reading
	if err := transaction.WithContext(ctx).
		Where("project_id = ? AND node_id = ? AND time >= ? AND time <= ?", projectID, nodeID, from, to).
		Order("time ASC").
		Find(&readings).Error; err != nil {
		return nil, err
	}
	return readings, nil
}

func (r *readingRepo) DailyAggregates(ctx context.Context, tx *gorm.DB, projectID int64, nodeID string, days int) ([]*types.DailyReading, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if days <= 0 {
		days = 30
	}
	var rows []*types.DailyReading
	if err := transaction.WithContext(ctx).
		Table("daily_readings").
		Where("project_id = ? AND node_id = ?", projectID, nodeID).
		Where("day >= NOW() - make_interval(days => ?)", days).
		Order("day ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *readingRepo) DeleteByProject(ctx context.Context, tx *gorm.DB, projectID int64) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	result := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&types.Reading{})
	return result.RowsAffected, result.Error
}

func (r *readingRepo) ExportByProject(ctx context.Context, tx *gorm.DB, projectID int64) ([]*types.ExportReading, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.ExportReading
	if err := transaction.WithContext(ctx).
		Table("readings").
		Select("time, node_id, value, unit").
		Where("project_id = ?", projectID).
		Order("time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
