package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/graph"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

// NodeService creates and maintains individual graph nodes. New nodes with
// no explicit parent are attached to their utility's root so nothing is ever
// orphaned, with one exception: Consumers stay parentless until wired up,
// since they are often shared endpoints connected later.
type NodeService interface {
	Create(ctx context.Context, projectID int64, nodeType types.NodeType, parentID string, props map[string]any) (*types.Node, error)
	Get(ctx context.Context, projectID int64, nodeID string) (*types.Node, error)
	Update(ctx context.Context, projectID int64, nodeID string, props map[string]any) (*types.Node, error)
	Delete(ctx context.Context, projectID int64, nodeID string) error
}

type nodeService struct {
	repo  graph.TreeRepo
	roots graph.RootManager
	log   *logger.Logger
}

func NewNodeService(repo graph.TreeRepo, roots graph.RootManager, baseLog *logger.Logger) NodeService {
	return &nodeService{
		repo:  repo,
		roots: roots,
		log:   baseLog.With("service", "NodeService"),
	}
}

func (s *nodeService) Create(ctx context.Context, projectID int64, nodeType types.NodeType, parentID string, props map[string]any) (*types.Node, error) {
	name, _ := props["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", types.ErrInvalidArgument)
	}

	node, err := s.repo.CreateNode(ctx, projectID, nodeType, props)
	if err != nil {
		return nil, err
	}

	actualParentID := parentID
	if actualParentID == "" && nodeType != types.NodeTypeConsumer {
		utility := types.UtilityElectricity
		if v, ok := props["utility_type"].(string); ok && v != "" {
			utility = types.UtilityType(v)
		}
		root, err := s.roots.GetUtilityRoot(ctx, projectID, utility)
		if err == nil {
			actualParentID = root.ID
		} else if !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
	}

	if actualParentID != "" {
		if _, err := s.repo.CreateRelationship(ctx, projectID, actualParentID, node.ID, types.RelTypeConnectedTo, nil); err != nil {
			return nil, fmt.Errorf("attach node %s to parent %s: %w", node.ID, actualParentID, err)
		}
	}

	s.log.Info("node created",
		"project_id", projectID,
		"node_id", node.ID,
		"type", nodeType,
		"parent_id", actualParentID)
	return node, nil
}

func (s *nodeService) Get(ctx context.Context, projectID int64, nodeID string) (*types.Node, error) {
	return s.repo.GetNode(ctx, projectID, nodeID)
}

func (s *nodeService) Update(ctx context.Context, projectID int64, nodeID string, props map[string]any) (*types.Node, error) {
	return s.repo.UpdateNode(ctx, projectID, nodeID, props)
}

func (s *nodeService) Delete(ctx context.Context, projectID int64, nodeID string) error {
	deleted, err := s.repo.DeleteNode(ctx, projectID, nodeID)
	if err != nil {
		return err
	}
	if !deleted {
		return types.ErrNotFound
	}
	s.log.Info("node deleted", "project_id", projectID, "node_id", nodeID)
	return nil
}
