package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

type ConsumerCategoryRepo interface {
	List(ctx context.Context, tx *gorm.DB) ([]*types.ConsumerCategorySetting, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.ConsumerCategorySetting, error)
	Create(ctx context.Context, tx *gorm.DB, setting *types.ConsumerCategorySetting) (*types.ConsumerCategorySetting, error)
	Update(ctx context.Context, tx *gorm.DB, id int64, update *types.ConsumerCategoryUpdate) (*types.ConsumerCategorySetting, error)
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
}

type consumerCategoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConsumerCategoryRepo(db *gorm.DB, baseLog *logger.Logger) ConsumerCategoryRepo {
	repoLog := baseLog.With("repo", "ConsumerCategoryRepo")
	return &consumerCategoryRepo{db: db, log: repoLog}
}

func (r *consumerCategoryRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.ConsumerCategorySetting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var settings []*types.ConsumerCategorySetting
	if err := transaction.WithContext(ctx).
		Order("sort_order, category_name").
		Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *consumerCategoryRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.ConsumerCategorySetting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var settings []*types.ConsumerCategorySetting
	if err := transaction.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order, category_name").
		Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *consumerCategoryRepo) Create(ctx context.Context, tx *gorm.DB, setting *types.ConsumerCategorySetting) (*types.ConsumerCategorySetting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(setting).Error; err != nil {
		return nil, err
	}
	return setting, nil
}

func (r *consumerCategoryRepo) Update(ctx context.Context, tx *gorm.DB, id int64, update *types.ConsumerCategoryUpdate) (*types.ConsumerCategorySetting, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	fields := map[string]any{}
	if update.DisplayName != nil {
		fields["display_name"] = *update.DisplayName
	}
	if update.IconName != nil {
		fields["icon_name"] = *update.IconName
	}
	if update.Color != nil {
		fields["color"] = *update.Color
	}
	if update.SortOrder != nil {
		fields["sort_order"] = *update.SortOrder
	}
	if update.IsActive != nil {
		fields["is_active"] = *update.IsActive
	}
	if len(fields) > 0 {
		result := transaction.WithContext(ctx).
			Model(&types.ConsumerCategorySetting{}).
			Where("id = ?", id).
			Updates(fields)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, types.ErrNotFound
		}
	}
	var setting types.ConsumerCategorySetting
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

func (r *consumerCategoryRepo) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	result := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.ConsumerCategorySetting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}
	return nil
}
