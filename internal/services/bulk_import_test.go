package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

// fakeTreeRepo is an in-memory TreeRepo covering what bulk import touches.
type fakeTreeRepo struct {
	nodes       map[string]*types.Node
	rels        []*types.Relationship
	failCreates map[string]error // keyed by node name
}

func newFakeTreeRepo() *fakeTreeRepo {
	return &fakeTreeRepo{
		nodes:       map[string]*types.Node{},
		failCreates: map[string]error{},
	}
}

func (f *fakeTreeRepo) CreateNode(_ context.Context, projectID int64, nodeType types.NodeType, props map[string]any) (*types.Node, error) {
	name, _ := props["name"].(string)
	if err, ok := f.failCreates[name]; ok {
		return nil, err
	}
	node := &types.Node{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Type:      nodeType,
		Name:      name,
	}
	if v, ok := props["utility_type"].(string); ok {
		node.UtilityType = types.UtilityType(v)
	}
	if v, ok := props["is_utility_root"].(bool); ok {
		node.IsUtilityRoot = v
	}
	f.nodes[node.ID] = node
	return node, nil
}

func (f *fakeTreeRepo) GetNode(_ context.Context, _ int64, nodeID string) (*types.Node, error) {
	if n, ok := f.nodes[nodeID]; ok {
		return n, nil
	}
	return nil, types.ErrNotFound
}

func (f *fakeTreeRepo) GetNodeByID(ctx context.Context, nodeID string) (*types.Node, error) {
	return f.GetNode(ctx, 0, nodeID)
}

func (f *fakeTreeRepo) UpdateNode(_ context.Context, _ int64, _ string, _ map[string]any) (*types.Node, error) {
	return nil, types.ErrNotFound
}

func (f *fakeTreeRepo) DeleteNode(_ context.Context, _ int64, _ string) (bool, error) {
	return false, nil
}

func (f *fakeTreeRepo) CreateRelationship(_ context.Context, _ int64, startID, endID, relType string, _ map[string]any) (*types.Relationship, error) {
	if _, ok := f.nodes[startID]; !ok {
		return nil, types.ErrNotFound
	}
	if _, ok := f.nodes[endID]; !ok {
		return nil, types.ErrNotFound
	}
	rel := &types.Relationship{StartNode: startID, EndNode: endID, Type: relType}
	f.rels = append(f.rels, rel)
	return rel, nil
}

func (f *fakeTreeRepo) MergeConnection(_ context.Context, _, _ string) error { return nil }

func (f *fakeTreeRepo) GetNodeContext(_ context.Context, _ int64, nodeID string, depth int) (*types.NodeContext, error) {
	if _, ok := f.nodes[nodeID]; !ok {
		return nil, types.ErrNotFound
	}
	inSet := map[string]bool{nodeID: true}
	var ordered []string

	// Ancestor chain, root first.
	var ancestors []string
	for current := nodeID; ; {
		parent := ""
		for _, rel := range f.rels {
			if rel.EndNode == current {
				parent = rel.StartNode
				break
			}
		}
		if parent == "" {
			break
		}
		ancestors = append([]string{parent}, ancestors...)
		current = parent
	}
	for _, id := range ancestors {
		if !inSet[id] {
			inSet[id] = true
			ordered = append(ordered, id)
		}
	}
	ordered = append(ordered, nodeID)

	// Children breadth-first down to depth.
	frontier := []string{nodeID}
	for level := 0; level < depth; level++ {
		var next []string
		for _, id := range frontier {
			for _, rel := range f.rels {
				if rel.StartNode == id && !inSet[rel.EndNode] {
					inSet[rel.EndNode] = true
					ordered = append(ordered, rel.EndNode)
					next = append(next, rel.EndNode)
				}
			}
		}
		frontier = next
	}

	out := &types.NodeContext{}
	for _, id := range ordered {
		node := *f.nodes[id]
		node.IsCurrent = id == nodeID
		out.Nodes = append(out.Nodes, &node)
	}
	for _, rel := range f.rels {
		if inSet[rel.StartNode] && inSet[rel.EndNode] {
			out.Relationships = append(out.Relationships, rel)
		}
	}
	return out, nil
}

func (f *fakeTreeRepo) GetTreeChildren(_ context.Context, _ int64, _ string) ([]*types.Node, error) {
	return nil, nil
}

func (f *fakeTreeRepo) GetPathsToNodes(_ context.Context, _ int64, _ []string) ([]*types.NodePath, error) {
	return nil, nil
}

func (f *fakeTreeRepo) GetCategoryTree(_ context.Context, _ int64, _ []string) (*types.NodeContext, error) {
	return nil, nil
}

func (f *fakeTreeRepo) InsertNodeBetween(ctx context.Context, projectID int64, startID, endID string, nodeType types.NodeType, props map[string]any) (*types.Node, error) {
	idx := -1
	for i, rel := range f.rels {
		if rel.StartNode == startID && rel.EndNode == endID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil
	}
	node, err := f.CreateNode(ctx, projectID, nodeType, props)
	if err != nil {
		return nil, err
	}
	f.rels = append(f.rels[:idx], f.rels[idx+1:]...)
	f.rels = append(f.rels,
		&types.Relationship{StartNode: startID, EndNode: node.ID, Type: types.RelTypeConnectedTo},
		&types.Relationship{StartNode: node.ID, EndNode: endID, Type: types.RelTypeConnectedTo})
	return node, nil
}

func (f *fakeTreeRepo) SearchNodes(_ context.Context, projectID int64, query string) ([]*types.Node, error) {
	var out []*types.Node
	for _, n := range f.nodes {
		if n.ProjectID == projectID && strings.Contains(strings.ToLower(n.Name), strings.ToLower(query)) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeTreeRepo) SearchNodesGlobal(_ context.Context, _ string) ([]*types.Node, error) {
	return nil, nil
}

func (f *fakeTreeRepo) SearchNodesByCategory(_ context.Context, _ int64, _ string) ([]*types.Node, error) {
	return nil, nil
}

func (f *fakeTreeRepo) GetAllNodes(_ context.Context, _ int64) ([]*types.Node, error) {
	return nil, nil
}

func (f *fakeTreeRepo) GetRelationships(_ context.Context, _ int64) ([]*types.Relationship, error) {
	return f.rels, nil
}

func (f *fakeTreeRepo) CountNodes(_ context.Context, _ int64) (int64, error) {
	return int64(len(f.nodes)), nil
}

func (f *fakeTreeRepo) DeleteProjectNodes(_ context.Context, _ int64) (int64, error) {
	return 0, nil
}

// fakeRootManager serves pre-created utility roots out of the fake repo.
type fakeRootManager struct {
	repo *fakeTreeRepo
}

func (m *fakeRootManager) EnsureUtilityRoots(ctx context.Context, projectID int64) ([]*types.Node, error) {
	var roots []*types.Node
	for _, utility := range types.UtilityRootTypes {
		root, err := m.GetUtilityRoot(ctx, projectID, utility)
		if err != nil {
			root, err = m.repo.CreateNode(ctx, projectID, types.NodeTypeMeteringTree, map[string]any{
				"name":            string(utility) + " root",
				"utility_type":    string(utility),
				"is_utility_root": true,
			})
			if err != nil {
				return nil, err
			}
		}
		roots = append(roots, root)
	}
	return roots, nil
}

func (m *fakeRootManager) GetUtilityRoot(_ context.Context, projectID int64, utility types.UtilityType) (*types.Node, error) {
	for _, n := range m.repo.nodes {
		if n.ProjectID == projectID && n.IsUtilityRoot && n.UtilityType == utility {
			return n, nil
		}
	}
	return nil, types.ErrNotFound
}

func (m *fakeRootManager) GetUtilityRoots(_ context.Context, projectID int64) ([]*types.Node, error) {
	var roots []*types.Node
	for _, n := range m.repo.nodes {
		if n.ProjectID == projectID && n.IsUtilityRoot {
			roots = append(roots, n)
		}
	}
	return roots, nil
}

func newBulkService(repo *fakeTreeRepo) BulkImportService {
	log, err := logger.New("dev")
	if err != nil {
		panic(err)
	}
	return NewBulkImportService(repo, &fakeRootManager{repo: repo}, log)
}

func relCount(repo *fakeTreeRepo, endID string) int {
	count := 0
	for _, rel := range repo.rels {
		if rel.EndNode == endID {
			count++
		}
	}
	return count
}

func TestImportRowsHappyPath(t *testing.T) {
	repo := newFakeTreeRepo()
	svc := newBulkService(repo)

	rows := []*types.BulkNodeRow{
		{Type: types.NodeTypeMeter, Properties: map[string]any{"name": "Main Meter", "utility_type": "electricity", "subtype": "Main"}},
		{Type: types.NodeTypeDistribution, Properties: map[string]any{"name": "Panel A", "subtype": "Main Panel"}, ParentName: "Main Meter"},
		{Type: types.NodeTypeConsumer, Properties: map[string]any{"name": "Lobby Lights", "category": "Lighting"}, ParentName: "Panel A"},
	}

	result, err := svc.ImportRows(context.Background(), 1, rows)
	if err != nil {
		t.Fatalf("ImportRows: %v", err)
	}
	if result.Success != 3 || result.Total != 3 {
		t.Errorf("success/total = %d/%d, want 3/3", result.Success, result.Total)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	// 3 utility roots + 3 imported nodes.
	if len(repo.nodes) != 6 {
		t.Errorf("node count = %d, want 6", len(repo.nodes))
	}
	// Main Meter hangs off the electricity root; the other two off their
	// named parents.
	if len(repo.rels) != 3 {
		t.Errorf("relationship count = %d, want 3", len(repo.rels))
	}
}

func TestImportCSVErrorRowsMatchSheet(t *testing.T) {
	repo := newFakeTreeRepo()
	svc := newBulkService(repo)

	// Row 3 has no name and is dropped by the parser; the bad-parent row
	// is row 4 in the sheet and must be reported as row 4.
	sheet := "name,type,subtype_or_category,parent_name\n" +
		"Main Meter,Meter,Main,\n" +
		" ,Meter,Main,\n" +
		"Stray,Consumer,Other,Ghost Panel\n"

	result, err := svc.ImportCSV(context.Background(), 1, []byte(sheet))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if result.Success != 1 || result.Total != 2 {
		t.Errorf("success/total = %d/%d, want 1/2", result.Success, result.Total)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(result.Errors))
	}
	if result.Errors[0].Row != 4 {
		t.Errorf("error row = %d, want 4", result.Errors[0].Row)
	}
}

func TestImportRowsParentNotFound(t *testing.T) {
	repo := newFakeTreeRepo()
	svc := newBulkService(repo)

	rows := []*types.BulkNodeRow{
		{Type: types.NodeTypeMeter, Properties: map[string]any{"name": "Orphan Meter"}, ParentName: "Ghost Panel"},
	}

	result, err := svc.ImportRows(context.Background(), 1, rows)
	if err != nil {
		t.Fatalf("ImportRows: %v", err)
	}
	// The node stays in the graph, but the row counts as a failure.
	if result.Success != 0 {
		t.Errorf("success = %d, want 0", result.Success)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(result.Errors))
	}
	if result.Errors[0].Row != 2 {
		t.Errorf("error row = %d, want 2 (first data row)", result.Errors[0].Row)
	}
	if !strings.Contains(result.Errors[0].Error, "Parent 'Ghost Panel' not found") {
		t.Errorf("error = %q", result.Errors[0].Error)
	}
}

func TestImportRowsBadParentRowNotCountedAsSuccess(t *testing.T) {
	repo := newFakeTreeRepo()
	svc := newBulkService(repo)

	rows := []*types.BulkNodeRow{
		{Type: types.NodeTypeMeter, Properties: map[string]any{"name": "Meter 1", "subtype": "Main"}},
		{Type: types.NodeTypeDistribution, Properties: map[string]any{"name": "Panel 1", "subtype": "Main Panel"}, ParentName: "Meter 1"},
		{Type: types.NodeTypeConsumer, Properties: map[string]any{"name": "Lights 1", "category": "Lighting"}, ParentName: "Panel 1"},
		{Type: types.NodeTypeConsumer, Properties: map[string]any{"name": "Lights 2", "category": "Lighting"}, ParentName: "Panel 1"},
		{Type: types.NodeTypeConsumer, Properties: map[string]any{"name": "HVAC 1", "category": "HVAC"}, ParentName: "Panel 1"},
		{Type: types.NodeTypeConsumer, Properties: map[string]any{"name": "Stray", "category": "Other"}, ParentName: "No Such Panel"},
	}

	result, err := svc.ImportRows(context.Background(), 1, rows)
	if err != nil {
		t.Fatalf("ImportRows: %v", err)
	}
	if result.Success != 5 {
		t.Errorf("success = %d, want 5", result.Success)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(result.Errors))
	}
	if result.Errors[0].Row != 7 {
		t.Errorf("error row = %d, want 7", result.Errors[0].Row)
	}
	if result.Total != 6 {
		t.Errorf("total = %d, want 6", result.Total)
	}
}

func TestImportRowsPartialFailure(t *testing.T) {
	repo := newFakeTreeRepo()
	repo.failCreates["Broken"] = fmt.Errorf("boom")
	svc := newBulkService(repo)

	rows := []*types.BulkNodeRow{
		{Type: types.NodeTypeMeter, Properties: map[string]any{"name": "Good One"}},
		{Type: types.NodeTypeMeter, Properties: map[string]any{"name": "Broken"}},
		{Type: types.NodeTypeMeter, Properties: map[string]any{"name": "Good Two"}},
	}

	result, err := svc.ImportRows(context.Background(), 1, rows)
	if err != nil {
		t.Fatalf("ImportRows: %v", err)
	}
	if result.Success != 2 {
		t.Errorf("success = %d, want 2", result.Success)
	}
	if len(result.Errors) != 1 || result.Errors[0].Row != 3 {
		t.Errorf("errors = %+v, want one error at row 3", result.Errors)
	}
	if result.Total != 3 {
		t.Errorf("total = %d, want 3", result.Total)
	}
}

func TestImportRowsParentlessConsumerDefaultsToElectricityRoot(t *testing.T) {
	repo := newFakeTreeRepo()
	svc := newBulkService(repo)

	rows := []*types.BulkNodeRow{
		{Type: types.NodeTypeConsumer, Properties: map[string]any{"name": "Garage", "category": "Other"}},
		{Type: types.NodeTypeMeter, Properties: map[string]any{"name": "Water Meter", "utility_type": "water", "subtype": "Main"}},
	}

	result, err := svc.ImportRows(context.Background(), 1, rows)
	if err != nil {
		t.Fatalf("ImportRows: %v", err)
	}
	if result.Success != 2 {
		t.Fatalf("success = %d, want 2", result.Success)
	}

	var garage, waterMeter *types.Node
	for _, n := range repo.nodes {
		switch n.Name {
		case "Garage":
			garage = n
		case "Water Meter":
			waterMeter = n
		}
	}
	if garage == nil || waterMeter == nil {
		t.Fatal("imported nodes missing")
	}
	if relCount(repo, garage.ID) != 1 {
		t.Error("parentless consumer should be linked to the electricity root")
	}
	if relCount(repo, waterMeter.ID) != 1 {
		t.Error("water meter should be linked to the water root")
	}

	for _, rel := range repo.rels {
		if rel.EndNode == waterMeter.ID {
			root := repo.nodes[rel.StartNode]
			if root.UtilityType != types.UtilityWater {
				t.Errorf("water meter linked to %s root", root.UtilityType)
			}
		}
	}
}

func TestImportRowsExactNameMatchOnly(t *testing.T) {
	repo := newFakeTreeRepo()
	svc := newBulkService(repo)

	rows := []*types.BulkNodeRow{
		{Type: types.NodeTypeMeter, Properties: map[string]any{"name": "Panel A Extended"}},
		{Type: types.NodeTypeConsumer, Properties: map[string]any{"name": "Light", "category": "Lighting"}, ParentName: "Panel A"},
	}

	result, err := svc.ImportRows(context.Background(), 1, rows)
	if err != nil {
		t.Fatalf("ImportRows: %v", err)
	}
	// "Panel A Extended" contains "Panel A" but is not an exact match.
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0].Error, "Parent 'Panel A' not found") {
		t.Errorf("errors = %+v", result.Errors)
	}
}
