package services

import (
	"context"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/graph"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

// TreeService wraps the traversal reads and the structural mutations the
// graph views are built from.
type TreeService interface {
	Context(ctx context.Context, projectID int64, nodeID string, depth int) (*types.NodeContext, error)
	Children(ctx context.Context, projectID int64, parentID string) ([]*types.Node, error)
	Paths(ctx context.Context, projectID int64, nodeIDs []string) ([]*types.NodePath, error)
	CategoryTree(ctx context.Context, projectID int64, nodeIDs []string) (*types.NodeContext, error)
	UtilityRoots(ctx context.Context, projectID int64) ([]*types.Node, error)

	Search(ctx context.Context, projectID int64, query, category string) ([]*types.Node, error)
	SearchGlobal(ctx context.Context, query string) ([]*types.Node, error)

	Connect(ctx context.Context, projectID int64, startID, endID, connectionType string) (*types.Relationship, error)
	ConnectValidated(ctx context.Context, sourceID, targetID string) error
	InsertBetween(ctx context.Context, projectID int64, sourceID, targetID string, nodeType types.NodeType, props map[string]any) (*types.Node, error)
}

type treeService struct {
	repo      graph.TreeRepo
	roots     graph.RootManager
	validator graph.Validator
	log       *logger.Logger
}

func NewTreeService(repo graph.TreeRepo, roots graph.RootManager, validator graph.Validator, baseLog *logger.Logger) TreeService {
	return &treeService{
		repo:      repo,
		roots:     roots,
		validator: validator,
		log:       baseLog.With("service", "TreeService"),
	}
}

func (s *treeService) Context(ctx context.Context, projectID int64, nodeID string, depth int) (*types.NodeContext, error) {
	return s.repo.GetNodeContext(ctx, projectID, nodeID, depth)
}

func (s *treeService) Children(ctx context.Context, projectID int64, parentID string) ([]*types.Node, error) {
	return s.repo.GetTreeChildren(ctx, projectID, parentID)
}

func (s *treeService) Paths(ctx context.Context, projectID int64, nodeIDs []string) ([]*types.NodePath, error) {
	if len(nodeIDs) == 0 {
		return []*types.NodePath{}, nil
	}
	return s.repo.GetPathsToNodes(ctx, projectID, nodeIDs)
}

func (s *treeService) CategoryTree(ctx context.Context, projectID int64, nodeIDs []string) (*types.NodeContext, error) {
	if len(nodeIDs) == 0 {
		return &types.NodeContext{Nodes: []*types.Node{}, Relationships: []*types.Relationship{}}, nil
	}
	return s.repo.GetCategoryTree(ctx, projectID, nodeIDs)
}

func (s *treeService) UtilityRoots(ctx context.Context, projectID int64) ([]*types.Node, error) {
	return s.roots.GetUtilityRoots(ctx, projectID)
}

// Search dispatches on its arguments: an exact category filter wins, an
// empty query lists everything, otherwise a substring search runs.
func (s *treeService) Search(ctx context.Context, projectID int64, query, category string) ([]*types.Node, error) {
	switch {
	case category != "":
		return s.repo.SearchNodesByCategory(ctx, projectID, category)
	case query == "":
		return s.repo.GetAllNodes(ctx, projectID)
	default:
		return s.repo.SearchNodes(ctx, projectID, query)
	}
}

func (s *treeService) SearchGlobal(ctx context.Context, query string) ([]*types.Node, error) {
	if len(query) < 2 {
		return []*types.Node{}, nil
	}
	return s.repo.SearchNodesGlobal(ctx, query)
}

func (s *treeService) Connect(ctx context.Context, projectID int64, startID, endID, connectionType string) (*types.Relationship, error) {
	var props map[string]any
	if connectionType != "" {
		props = map[string]any{"connection_type": connectionType}
	}
	return s.repo.CreateRelationship(ctx, projectID, startID, endID, types.RelTypeConnectedTo, props)
}

func (s *treeService) ConnectValidated(ctx context.Context, sourceID, targetID string) error {
	return s.validator.CreateConnection(ctx, sourceID, targetID)
}

func (s *treeService) InsertBetween(ctx context.Context, projectID int64, sourceID, targetID string, nodeType types.NodeType, props map[string]any) (*types.Node, error) {
	node, err := s.repo.InsertNodeBetween(ctx, projectID, sourceID, targetID, nodeType, props)
	if err != nil {
		return nil, err
	}
	if node == nil {
		// No direct edge between source and target.
		return nil, types.ErrNotFound
	}
	s.log.Info("node inserted between",
		"project_id", projectID,
		"source_id", sourceID,
		"target_id", targetID,
		"node_id", node.ID)
	return node, nil
}
