package graph

import (
	"testing"
	"time"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

func TestNodeFromProps(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	props := map[string]any{
		"id":              "abc-123",
		"project_id":      int64(7),
		"name":            "Main Meter",
		"utility_type":    "electricity",
		"is_utility_root": false,
		"created_at":      created.Format(timeFormat),
		"serial_number":   "SN-001",
		"location":        "Basement",
	}

	node := nodeFromProps(props, []string{"Meter"})

	if node.ID != "abc-123" {
		t.Errorf("ID = %q, want abc-123", node.ID)
	}
	if node.ProjectID != 7 {
		t.Errorf("ProjectID = %d, want 7", node.ProjectID)
	}
	if node.Type != types.NodeTypeMeter {
		t.Errorf("Type = %q, want Meter", node.Type)
	}
	if node.UtilityType != types.UtilityElectricity {
		t.Errorf("UtilityType = %q, want electricity", node.UtilityType)
	}
	if !node.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", node.CreatedAt, created)
	}
	if node.Properties["serial_number"] != "SN-001" {
		t.Errorf("serial_number missing from extra properties: %v", node.Properties)
	}
	if _, lifted := node.Properties["id"]; lifted {
		t.Error("id should be lifted out of extra properties")
	}
}

func TestNodeFromPropsFloatProjectID(t *testing.T) {
	node := nodeFromProps(map[string]any{
		"id":         "x",
		"project_id": float64(42),
		"name":       "N",
	}, []string{"Consumer"})
	if node.ProjectID != 42 {
		t.Errorf("ProjectID = %d, want 42", node.ProjectID)
	}
}

func TestNodeWritePropsRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	props := nodeWriteProps("id-1", 3, map[string]any{
		"name":     "Floor 2",
		"location": "East wing",
	}, now)

	node := nodeFromProps(props, []string{"Floor"})
	if node.ID != "id-1" || node.ProjectID != 3 || node.Name != "Floor 2" {
		t.Errorf("round trip lost identity fields: %+v", node)
	}
	if node.Properties["location"] != "East wing" {
		t.Errorf("round trip lost extra property: %v", node.Properties)
	}
	if !node.CreatedAt.Equal(now) || !node.UpdatedAt.Equal(now) {
		t.Errorf("timestamps not stamped: created=%v updated=%v", node.CreatedAt, node.UpdatedAt)
	}
}

func TestMergeContextNodes(t *testing.T) {
	a := &types.Node{ID: "a"}
	b := &types.Node{ID: "b"}
	bDup := &types.Node{ID: "b", Name: "later copy"}
	c := &types.Node{ID: "c"}

	merged := mergeContextNodes("b", []*types.Node{a, b}, []*types.Node{bDup, c})

	if len(merged) != 3 {
		t.Fatalf("len = %d, want 3", len(merged))
	}
	byID := map[string]*types.Node{}
	for _, n := range merged {
		byID[n.ID] = n
	}
	if byID["b"].Name == "later copy" {
		t.Error("duplicate should keep the first occurrence")
	}
	if !byID["b"].IsCurrent {
		t.Error("current node not flagged")
	}
	if byID["a"].IsCurrent || byID["c"].IsCurrent {
		t.Error("non-current nodes must not be flagged")
	}
}

func TestAncestorRefsExcludesTarget(t *testing.T) {
	refs := ancestorRefs("leaf", []string{"root", "mid", "leaf"})
	if len(refs) != 2 {
		t.Fatalf("len = %d, want 2", len(refs))
	}
	for _, ref := range refs {
		if ref.ID == "leaf" {
			t.Error("target must not appear in its own ancestors")
		}
	}
}

func TestTreeAccumDedup(t *testing.T) {
	accum := newTreeAccum()
	accum.addNode(&types.Node{ID: "root"})
	accum.addNode(&types.Node{ID: "mid"})
	accum.addNode(&types.Node{ID: "root"})
	accum.addRel("root", "mid", types.RelTypeConnectedTo)
	accum.addRel("root", "mid", types.RelTypeConnectedTo)

	got := accum.result()
	if len(got.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(got.Nodes))
	}
	if len(got.Relationships) != 1 {
		t.Errorf("relationships = %d, want 1", len(got.Relationships))
	}
}

func TestTreeAccumEmptyResult(t *testing.T) {
	got := newTreeAccum().result()
	if got.Nodes == nil || got.Relationships == nil {
		t.Error("empty result must have non-nil slices for JSON encoding")
	}
}

func TestRootName(t *testing.T) {
	if got := rootName(types.UtilityElectricity); got != "Electricity Infrastructure" {
		t.Errorf("rootName = %q", got)
	}
	if got := rootName(types.UtilityWater); got != "Water Infrastructure" {
		t.Errorf("rootName = %q", got)
	}
}
