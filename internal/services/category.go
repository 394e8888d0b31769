package services

import (
	"context"
	"fmt"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/repos"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

type CategoryService interface {
	List(ctx context.Context, projectID int64, nodeType string) ([]*types.Category, error)
	Create(ctx context.Context, projectID int64, nodeType types.NodeType, categoryName string) (*types.Category, error)
}

type categoryService struct {
	categories repos.CategoryRepo
	log        *logger.Logger
}

func NewCategoryService(categories repos.CategoryRepo, baseLog *logger.Logger) CategoryService {
	return &categoryService{
		categories: categories,
		log:        baseLog.With("service", "CategoryService"),
	}
}

func (s *categoryService) List(ctx context.Context, projectID int64, nodeType string) ([]*types.Category, error) {
	if nodeType != "" {
		return s.categories.ListByProjectAndType(ctx, nil, projectID, types.NodeType(nodeType))
	}
	return s.categories.ListByProject(ctx, nil, projectID)
}

func (s *categoryService) Create(ctx context.Context, projectID int64, nodeType types.NodeType, categoryName string) (*types.Category, error) {
	if !nodeType.Valid() {
		return nil, fmt.Errorf("%w: unknown node type %q", types.ErrInvalidArgument, nodeType)
	}
	if categoryName == "" {
		return nil, fmt.Errorf("%w: category_name is required", types.ErrInvalidArgument)
	}
	category, err := s.categories.Create(ctx, nil, &types.Category{
		ProjectID:    projectID,
		NodeType:     string(nodeType),
		CategoryName: categoryName,
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}
