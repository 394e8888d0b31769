package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/graphdb"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

// RootManager maintains the per-project MeteringTree root nodes, one per
// utility. Roots are the anchor every traversal starts from, so creation is
// idempotent and racing creators are caught by the store's composite
// uniqueness constraint.
type RootManager interface {
	EnsureUtilityRoots(ctx context.Context, projectID int64) ([]*types.Node, error)
	GetUtilityRoot(ctx context.Context, projectID int64, utility types.UtilityType) (*types.Node, error)
	GetUtilityRoots(ctx context.Context, projectID int64) ([]*types.Node, error)
}

type rootManager struct {
	client *graphdb.Client
	repo   TreeRepo
	log    *logger.Logger
}

func NewRootManager(client *graphdb.Client, repo TreeRepo, baseLog *logger.Logger) RootManager {
	return &rootManager{
		client: client,
		repo:   repo,
		log:    baseLog.With("component", "RootManager"),
	}
}

func rootName(utility types.UtilityType) string {
	s := string(utility)
	if s == "" {
		return "Infrastructure"
	}
	return fmt.Sprintf("%s%s Infrastructure", strings.ToUpper(s[:1]), s[1:])
}

func (m *rootManager) EnsureUtilityRoots(ctx context.Context, projectID int64) ([]*types.Node, error) {
	roots := make([]*types.Node, 0, len(types.UtilityRootTypes))
	for _, utility := range types.UtilityRootTypes {
		root, err := m.GetUtilityRoot(ctx, projectID, utility)
		if err == nil {
			roots = append(roots, root)
			continue
		}
		if !isNotFound(err) {
			return nil, err
		}
		created, err := m.createRootNode(ctx, projectID, utility)
		if err != nil {
			return nil, fmt.Errorf("ensure %s root: %w", utility, err)
		}
		m.log.Info("created utility root",
			"project_id", projectID,
			"utility_type", utility,
			"node_id", created.ID)
		roots = append(roots, created)
	}
	return roots, nil
}

func (m *rootManager) GetUtilityRoot(ctx context.Context, projectID int64, utility types.UtilityType) (*types.Node, error) {
	session := m.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (n:MeteringTree {project_id: $project_id, utility_type: $utility_type, is_utility_root: true})
RETURN n AS node`,
			map[string]any{"project_id": projectID, "utility_type": string(utility)})
		if err != nil {
			return nil, err
		}
		recs, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			return nil, nil
		}
		return nodeFromRecord(recs[0], "node")
	})
	if err != nil {
		return nil, fmt.Errorf("get utility root: %w", err)
	}
	if result == nil {
		return nil, types.ErrNotFound
	}
	return result.(*types.Node), nil
}

func (m *rootManager) GetUtilityRoots(ctx context.Context, projectID int64) ([]*types.Node, error) {
	session := m.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectNodes(ctx, tx, `
MATCH (n:MeteringTree {project_id: $project_id, is_utility_root: true})
RETURN n AS node
ORDER BY n.utility_type`,
			map[string]any{"project_id": projectID})
	})
	if err != nil {
		return nil, fmt.Errorf("get utility roots: %w", err)
	}
	roots, _ := result.([]*types.Node)
	if roots == nil {
		roots = []*types.Node{}
	}
	return roots, nil
}

func (m *rootManager) createRootNode(ctx context.Context, projectID int64, utility types.UtilityType) (*types.Node, error) {
	return m.repo.CreateNode(ctx, projectID, types.NodeTypeMeteringTree, map[string]any{
		propName:          rootName(utility),
		propUtilityType:   string(utility),
		propIsUtilityRoot: true,
		"description":     fmt.Sprintf("Root node for %s metering system", utility),
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, types.ErrNotFound)
}
