package services

import (
	"context"
	"fmt"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/repos"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

// SettingsService manages the global consumer-category display settings.
type SettingsService interface {
	ListConsumerCategories(ctx context.Context) ([]*types.ConsumerCategorySetting, error)
	CreateConsumerCategory(ctx context.Context, setting *types.ConsumerCategorySetting) (*types.ConsumerCategorySetting, error)
	UpdateConsumerCategory(ctx context.Context, id int64, update *types.ConsumerCategoryUpdate) (*types.ConsumerCategorySetting, error)
	DeleteConsumerCategory(ctx context.Context, id int64) error
}

type settingsService struct {
	settings repos.ConsumerCategoryRepo
	log      *logger.Logger
}

func NewSettingsService(settings repos.ConsumerCategoryRepo, baseLog *logger.Logger) SettingsService {
	return &settingsService{
		settings: settings,
		log:      baseLog.With("service", "SettingsService"),
	}
}

func (s *settingsService) ListConsumerCategories(ctx context.Context) ([]*types.ConsumerCategorySetting, error) {
	return s.settings.List(ctx, nil)
}

func (s *settingsService) CreateConsumerCategory(ctx context.Context, setting *types.ConsumerCategorySetting) (*types.ConsumerCategorySetting, error) {
	if setting.CategoryName == "" || setting.DisplayName == "" {
		return nil, fmt.Errorf("%w: category_name and display_name are required", types.ErrInvalidArgument)
	}
	if setting.IconName == "" {
		setting.IconName = "box-fill"
	}
	if setting.Color == "" {
		setting.Color = "#868e96"
	}
	if setting.SortOrder == 0 {
		setting.SortOrder = 50
	}
	setting.IsActive = true
	return s.settings.Create(ctx, nil, setting)
}

func (s *settingsService) UpdateConsumerCategory(ctx context.Context, id int64, update *types.ConsumerCategoryUpdate) (*types.ConsumerCategorySetting, error) {
	return s.settings.Update(ctx, nil, id, update)
}

func (s *settingsService) DeleteConsumerCategory(ctx context.Context, id int64) error {
	return s.settings.Delete(ctx, nil, id)
}
