package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

// defaultCategories are seeded for every new project so the import UI has a
// sensible palette before any custom categories exist.
var defaultCategories = []struct {
	NodeType types.NodeType
	Name     string
}{
	{types.NodeTypeConsumer, "Lighting"},
	{types.NodeTypeConsumer, "HVAC"},
	{types.NodeTypeConsumer, "Elevator"},
	{types.NodeTypeConsumer, "Pumps"},
	{types.NodeTypeConsumer, "Ventilation"},
	{types.NodeTypeConsumer, "Outlets"},
	{types.NodeTypeMeter, "Main"},
	{types.NodeTypeMeter, "Submeter"},
	{types.NodeTypeDistribution, "Main Panel"},
	{types.NodeTypeDistribution, "Sub Panel"},
}

type CategoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, category *types.Category) (*types.Category, error)
	ListByProject(ctx context.Context, tx *gorm.DB, projectID int64) ([]*types.Category, error)
	ListByProjectAndType(ctx context.Context, tx *gorm.DB, projectID int64, nodeType types.NodeType) ([]*types.Category, error)
	SeedDefaults(ctx context.Context, tx *gorm.DB, projectID int64) error
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	repoLog := baseLog.With("repo", "CategoryRepo")
	return &categoryRepo{db: db, log: repoLog}
}

func (r *categoryRepo) Create(ctx context.Context, tx *gorm.DB, category *types.Category) (*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	// Re-importing the same sheet must not fail on existing names.
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepo) ListByProject(ctx context.Context, tx *gorm.DB, projectID int64) ([]*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var categories []*types.Category
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("node_type, category_name").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepo) ListByProjectAndType(ctx context.Context, tx *gorm.DB, projectID int64, nodeType types.NodeType) ([]*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var categories []*types.Category
	if err := transaction.WithContext(ctx).
		Where("project_id = ? AND node_type = ?", projectID, string(nodeType)).
		Order("category_name").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepo) SeedDefaults(ctx context.Context, tx *gorm.DB, projectID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	rows := make([]*types.Category, 0, len(defaultCategories))
	for _, dc := range defaultCategories {
		rows = append(rows, &types.Category{
			ProjectID:    projectID,
			NodeType:     string(dc.NodeType),
			CategoryName: dc.Name,
		})
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *categoryRepo) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	result := transaction.WithContext(ctx).Delete(&types.Category{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}
