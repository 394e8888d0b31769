package services

import (
	"context"
	"fmt"
	"time"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/graph"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/repos"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

const exportVersion = "1.0"

// ProjectService orchestrates the relational project row and its graph
// partition together. Creation seeds the three utility roots and the
// default category palette; deletion removes the graph partition first and
// lets the relational cascade clean up readings and categories.
type ProjectService interface {
	Create(ctx context.Context, name string) (*types.Project, error)
	Get(ctx context.Context, projectID int64) (*types.Project, error)
	List(ctx context.Context) ([]*types.Project, error)
	Delete(ctx context.Context, projectID int64) error
	Export(ctx context.Context, projectID int64) (*types.ProjectExport, error)
	Import(ctx context.Context, export *types.ProjectExport) (*types.Project, error)
}

type projectService struct {
	projects   repos.ProjectRepo
	categories repos.CategoryRepo
	readings   repos.ReadingRepo
	tree       graph.TreeRepo
	roots      graph.RootManager
	log        *logger.Logger
}

func NewProjectService(
	projects repos.ProjectRepo,
	categories repos.CategoryRepo,
	readings repos.ReadingRepo,
	tree graph.TreeRepo,
	roots graph.RootManager,
	baseLog *logger.Logger,
) ProjectService {
	return &projectService{
		projects:   projects,
		categories: categories,
		readings:   readings,
		tree:       tree,
		roots:      roots,
		log:        baseLog.With("service", "ProjectService"),
	}
}

func (s *projectService) Create(ctx context.Context, name string) (*types.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", types.ErrInvalidArgument)
	}

	project, err := s.projects.Create(ctx, nil, &types.Project{Name: name})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if _, err := s.roots.EnsureUtilityRoots(ctx, project.ID); err != nil {
		return nil, fmt.Errorf("seed utility roots for project %d: %w", project.ID, err)
	}
	if err := s.categories.SeedDefaults(ctx, nil, project.ID); err != nil {
		return nil, fmt.Errorf("seed categories for project %d: %w", project.ID, err)
	}

	s.log.Info("project created", "project_id", project.ID, "name", name)
	return project, nil
}

func (s *projectService) Get(ctx context.Context, projectID int64) (*types.Project, error) {
	project, err := s.projects.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}
	s.attachNodeCount(ctx, project)
	return project, nil
}

func (s *projectService) List(ctx context.Context) ([]*types.Project, error) {
	projects, err := s.projects.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	for _, project := range projects {
		s.attachNodeCount(ctx, project)
	}
	return projects, nil
}

// attachNodeCount is best effort: a count failure must not hide the project.
func (s *projectService) attachNodeCount(ctx context.Context, project *types.Project) {
	count, err := s.tree.CountNodes(ctx, project.ID)
	if err != nil {
		s.log.Warn("node count unavailable", "project_id", project.ID, "error", err)
		return
	}
	project.NodeCount = count
}

func (s *projectService) Delete(ctx context.Context, projectID int64) error {
	if _, err := s.projects.GetByID(ctx, nil, projectID); err != nil {
		return err
	}

	deleted, err := s.tree.DeleteProjectNodes(ctx, projectID)
	if err != nil {
		return fmt.Errorf("delete graph partition for project %d: %w", projectID, err)
	}
	// Readings and categories cascade with the project row.
	if err := s.projects.Delete(ctx, nil, projectID); err != nil {
		return err
	}

	s.log.Info("project deleted", "project_id", projectID, "nodes_deleted", deleted)
	return nil
}

func (s *projectService) Export(ctx context.Context, projectID int64) (*types.ProjectExport, error) {
	project, err := s.projects.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}

	nodes, err := s.tree.GetAllNodes(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("export nodes: %w", err)
	}
	relationships, err := s.tree.GetRelationships(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("export relationships: %w", err)
	}
	categories, err := s.categories.ListByProject(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("export categories: %w", err)
	}
	readings, err := s.readings.ExportByProject(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("export readings: %w", err)
	}

	return &types.ProjectExport{
		Version: exportVersion,
		Project: types.ProjectExportMeta{
			Name:        project.Name,
			UtilityType: project.UtilityType,
			ExportedAt:  project.UpdatedAt.Format(time.RFC3339),
		},
		Nodes:         nodes,
		Relationships: relationships,
		Categories:    categories,
		Readings:      readings,
	}, nil
}

// Import recreates an exported project under a fresh project id. Node ids
// are preserved so relationships and readings keep pointing at the right
// nodes; project_id on every node is rewritten to the new partition.
func (s *projectService) Import(ctx context.Context, export *types.ProjectExport) (*types.Project, error) {
	if export == nil || export.Version == "" || export.Project.Name == "" {
		return nil, fmt.Errorf("%w: invalid import format", types.ErrInvalidArgument)
	}

	project, err := s.projects.Create(ctx, nil, &types.Project{
		Name:        export.Project.Name + " (Imported)",
		UtilityType: export.Project.UtilityType,
	})
	if err != nil {
		return nil, fmt.Errorf("create imported project: %w", err)
	}

	for _, node := range export.Nodes {
		props := make(map[string]any, len(node.Properties)+4)
		for k, v := range node.Properties {
			props[k] = v
		}
		props["id"] = node.ID
		props["name"] = node.Name
		if node.UtilityType != "" {
			props["utility_type"] = string(node.UtilityType)
		}
		if node.IsUtilityRoot {
			props["is_utility_root"] = true
		}
		if _, err := s.tree.CreateNode(ctx, project.ID, node.Type, props); err != nil {
			return nil, fmt.Errorf("import node %s: %w", node.ID, err)
		}
	}

	for _, rel := range export.Relationships {
		if _, err := s.tree.CreateRelationship(ctx, project.ID, rel.StartNode, rel.EndNode, rel.Type, rel.Properties); err != nil {
			return nil, fmt.Errorf("import relationship %s->%s: %w", rel.StartNode, rel.EndNode, err)
		}
	}

	for _, cat := range export.Categories {
		if _, err := s.categories.Create(ctx, nil, &types.Category{
			ProjectID:    project.ID,
			NodeType:     cat.NodeType,
			CategoryName: cat.CategoryName,
		}); err != nil {
			return nil, fmt.Errorf("import category %s: %w", cat.CategoryName, err)
		}
	}

	if len(export.Readings) > 0 {
		rows := make([]*types.Reading, 0, len(export.Readings))
		for _, reading := range export.Readings {
			rows = append(rows, &types.Reading{
				Time:      reading.Time,
				ProjectID: project.ID,
				NodeID:    reading.NodeID,
				Value:     reading.Value,
				Unit:      reading.Unit,
			})
		}
		if err := s.readings.Insert(ctx, nil, rows); err != nil {
			return nil, fmt.Errorf("import readings: %w", err)
		}
	}

	s.log.Info("project imported",
		"project_id", project.ID,
		"nodes", len(export.Nodes),
		"relationships", len(export.Relationships),
		"readings", len(export.Readings))
	return project, nil
}
