package services

import (
	"context"
	"testing"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

func newNodeService(t *testing.T, repo *fakeTreeRepo) NodeService {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	roots := &fakeRootManager{repo: repo}
	if _, err := roots.EnsureUtilityRoots(context.Background(), 1); err != nil {
		t.Fatalf("seed roots: %v", err)
	}
	return NewNodeService(repo, roots, log)
}

func TestNodeCreateRequiresName(t *testing.T) {
	repo := newFakeTreeRepo()
	svc := newNodeService(t, repo)

	_, err := svc.Create(context.Background(), 1, types.NodeTypeMeter, "", map[string]any{})
	if err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestNodeCreateDefaultsToUtilityRoot(t *testing.T) {
	repo := newFakeTreeRepo()
	svc := newNodeService(t, repo)

	node, err := svc.Create(context.Background(), 1, types.NodeTypeMeter, "", map[string]any{
		"name":         "Water Meter",
		"utility_type": "water",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if relCount(repo, node.ID) != 1 {
		t.Fatal("node should be attached to a utility root")
	}
	for _, rel := range repo.rels {
		if rel.EndNode == node.ID {
			parent := repo.nodes[rel.StartNode]
			if parent.UtilityType != types.UtilityWater || !parent.IsUtilityRoot {
				t.Errorf("attached to wrong parent: %+v", parent)
			}
		}
	}
}

func TestNodeCreateConsumerStaysParentless(t *testing.T) {
	repo := newFakeTreeRepo()
	svc := newNodeService(t, repo)

	node, err := svc.Create(context.Background(), 1, types.NodeTypeConsumer, "", map[string]any{
		"name":     "Shared Garage",
		"category": "Other",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if relCount(repo, node.ID) != 0 {
		t.Error("consumer without parent must not be auto-attached")
	}
}

func TestNodeCreateExplicitParentWins(t *testing.T) {
	repo := newFakeTreeRepo()
	svc := newNodeService(t, repo)

	parent, err := svc.Create(context.Background(), 1, types.NodeTypeDistribution, "", map[string]any{
		"name": "Panel B",
	})
	if err != nil {
		t.Fatalf("Create parent: %v", err)
	}

	child, err := svc.Create(context.Background(), 1, types.NodeTypeMeter, parent.ID, map[string]any{
		"name":         "Submeter 3",
		"utility_type": "water",
	})
	if err != nil {
		t.Fatalf("Create child: %v", err)
	}
	found := false
	for _, rel := range repo.rels {
		if rel.StartNode == parent.ID && rel.EndNode == child.ID {
			found = true
		}
	}
	if !found {
		t.Error("explicit parent_id should override the utility root default")
	}
}
