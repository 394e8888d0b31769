package services

import (
	"context"
	"errors"
	"testing"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/graph"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

func newTreeService(repo *fakeTreeRepo) TreeService {
	log, err := logger.New("dev")
	if err != nil {
		panic(err)
	}
	return NewTreeService(repo, &fakeRootManager{repo: repo}, graph.NewValidator(repo, log), log)
}

func mustCreate(t *testing.T, repo *fakeTreeRepo, nodeType types.NodeType, name string) *types.Node {
	t.Helper()
	node, err := repo.CreateNode(context.Background(), 1, nodeType, map[string]any{"name": name})
	if err != nil {
		t.Fatalf("CreateNode %s: %v", name, err)
	}
	return node
}

func mustConnect(t *testing.T, repo *fakeTreeRepo, startID, endID string) {
	t.Helper()
	if _, err := repo.CreateRelationship(context.Background(), 1, startID, endID, types.RelTypeConnectedTo, nil); err != nil {
		t.Fatalf("CreateRelationship: %v", err)
	}
}

func TestTreeContextChainRoundTrip(t *testing.T) {
	repo := newFakeTreeRepo()
	svc := newTreeService(repo)

	root := mustCreate(t, repo, types.NodeTypeMeteringTree, "Electricity Infrastructure")
	meter := mustCreate(t, repo, types.NodeTypeMeter, "Main Meter")
	panel := mustCreate(t, repo, types.NodeTypeDistribution, "Panel A")
	lights := mustCreate(t, repo, types.NodeTypeConsumer, "Lobby Lights")
	mustConnect(t, repo, root.ID, meter.ID)
	mustConnect(t, repo, meter.ID, panel.ID)
	mustConnect(t, repo, panel.ID, lights.ID)

	result, err := svc.Context(context.Background(), 1, lights.ID, 1)
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	if len(result.Nodes) != 4 {
		t.Fatalf("nodes = %d, want 4 (three ancestors + target)", len(result.Nodes))
	}
	if len(result.Relationships) != 3 {
		t.Errorf("relationships = %d, want 3", len(result.Relationships))
	}
	for _, n := range result.Nodes {
		if n.IsCurrent != (n.ID == lights.ID) {
			t.Errorf("node %q is_current = %v", n.Name, n.IsCurrent)
		}
	}
}

func TestTreeInsertBetweenRewiresEdge(t *testing.T) {
	repo := newFakeTreeRepo()
	svc := newTreeService(repo)

	meter := mustCreate(t, repo, types.NodeTypeMeter, "Main Meter")
	lights := mustCreate(t, repo, types.NodeTypeConsumer, "Lobby Lights")
	mustConnect(t, repo, meter.ID, lights.ID)

	inserted, err := svc.InsertBetween(context.Background(), 1, meter.ID, lights.ID,
		types.NodeTypeDistribution, map[string]any{"name": "Panel A"})
	if err != nil {
		t.Fatalf("InsertBetween: %v", err)
	}
	if inserted == nil || inserted.Name != "Panel A" {
		t.Fatalf("inserted = %+v", inserted)
	}

	// The direct edge is replaced by exactly two edges through the new node.
	if len(repo.rels) != 2 {
		t.Fatalf("relationships = %d, want 2", len(repo.rels))
	}
	var toInserted, fromInserted, direct bool
	for _, rel := range repo.rels {
		switch {
		case rel.StartNode == meter.ID && rel.EndNode == inserted.ID:
			toInserted = true
		case rel.StartNode == inserted.ID && rel.EndNode == lights.ID:
			fromInserted = true
		case rel.StartNode == meter.ID && rel.EndNode == lights.ID:
			direct = true
		}
	}
	if !toInserted || !fromInserted {
		t.Error("rewired edges missing")
	}
	if direct {
		t.Error("original direct edge should be gone")
	}

	// With no direct edge left, a second insert between the same pair fails.
	if _, err := svc.InsertBetween(context.Background(), 1, meter.ID, lights.ID,
		types.NodeTypeDistribution, map[string]any{"name": "Panel B"}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("second insert err = %v, want ErrNotFound", err)
	}
}
