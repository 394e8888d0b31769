package graph

import (
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

const (
	propID            = "id"
	propProjectID     = "project_id"
	propName          = "name"
	propUtilityType   = "utility_type"
	propIsUtilityRoot = "is_utility_root"
	propCreatedAt     = "created_at"
	propUpdatedAt     = "updated_at"
)

// timeFormat is how timestamps are stored on graph properties. Strings keep
// the driver mapping trivial and sort correctly.
const timeFormat = time.RFC3339Nano

// nodeFromProps lifts the well-known properties of a stored node into typed
// fields and leaves the rest opaque.
func nodeFromProps(props map[string]any, labels []string) *types.Node {
	n := &types.Node{Properties: map[string]any{}}
	if len(labels) > 0 {
		n.Type = types.NodeType(labels[0])
	}
	for k, v := range props {
		switch k {
		case propID:
			n.ID, _ = v.(string)
		case propProjectID:
			switch pid := v.(type) {
			case int64:
				n.ProjectID = pid
			case float64:
				n.ProjectID = int64(pid)
			}
		case propName:
			n.Name, _ = v.(string)
		case propUtilityType:
			if s, ok := v.(string); ok {
				n.UtilityType = types.UtilityType(s)
			}
		case propIsUtilityRoot:
			n.IsUtilityRoot, _ = v.(bool)
		case propCreatedAt:
			if s, ok := v.(string); ok {
				if t, err := time.Parse(timeFormat, s); err == nil {
					n.CreatedAt = t
				}
			}
		case propUpdatedAt:
			if s, ok := v.(string); ok {
				if t, err := time.Parse(timeFormat, s); err == nil {
					n.UpdatedAt = t
				}
			}
		default:
			n.Properties[k] = v
		}
	}
	if len(n.Properties) == 0 {
		n.Properties = nil
	}
	return n
}

// nodeWriteProps builds the flat property map persisted for a new node.
// Caller-provided extras go in as-is; the well-known keys win on conflict.
func nodeWriteProps(id string, projectID int64, extra map[string]any, createdAt time.Time) map[string]any {
	props := make(map[string]any, len(extra)+3)
	for k, v := range extra {
		props[k] = v
	}
	props[propID] = id
	props[propProjectID] = projectID
	props[propCreatedAt] = createdAt.UTC().Format(timeFormat)
	props[propUpdatedAt] = createdAt.UTC().Format(timeFormat)
	return props
}

func nodeFromRecord(rec *db.Record, key string) (*types.Node, error) {
	v, ok := rec.Get(key)
	if !ok {
		return nil, fmt.Errorf("graph: record has no %q column", key)
	}
	dbNode, ok := v.(neo4j.Node)
	if !ok {
		return nil, fmt.Errorf("graph: %q column is %T, want node", key, v)
	}
	return nodeFromProps(dbNode.Props, dbNode.Labels), nil
}

func relationshipFromRecord(rec *db.Record) (*types.Relationship, error) {
	start, _ := rec.Get("start_node")
	end, _ := rec.Get("end_node")
	relType, _ := rec.Get("rel_type")
	rel := &types.Relationship{}
	if rel.StartNode, _ = start.(string); rel.StartNode == "" {
		return nil, fmt.Errorf("graph: relationship record missing start_node")
	}
	if rel.EndNode, _ = end.(string); rel.EndNode == "" {
		return nil, fmt.Errorf("graph: relationship record missing end_node")
	}
	rel.Type, _ = relType.(string)
	if props, ok := rec.Get("properties"); ok {
		if m, ok := props.(map[string]any); ok && len(m) > 0 {
			rel.Properties = m
		}
	}
	return rel, nil
}

// mergeContextNodes combines the ancestor, current and children result sets
// of a context query into one de-duplicated list, flagging the current node.
// First occurrence wins, so ordering follows ancestors -> current ->
// children.
func mergeContextNodes(currentID string, groups ...[]*types.Node) []*types.Node {
	merged := make([]*types.Node, 0)
	seen := make(map[string]struct{})
	for _, group := range groups {
		for _, n := range group {
			if n == nil {
				continue
			}
			if _, dup := seen[n.ID]; dup {
				continue
			}
			seen[n.ID] = struct{}{}
			if n.ID == currentID {
				n.IsCurrent = true
			}
			merged = append(merged, n)
		}
	}
	return merged
}

// ancestorRefs filters a root-to-target path node id list down to the
// ancestors of the target, excluding the target itself.
func ancestorRefs(targetID string, pathIDs []string) []types.NodeIDRef {
	refs := make([]types.NodeIDRef, 0, len(pathIDs))
	for _, id := range pathIDs {
		if id == "" || id == targetID {
			continue
		}
		refs = append(refs, types.NodeIDRef{ID: id})
	}
	return refs
}

// treeAccum accumulates the union of several root-to-target paths,
// de-duplicating nodes by id and relationships by (start, end) pair.
// Relationship identity deliberately ignores the edge type: the metering
// graph only uses CONNECTED_TO, so two parallel edges of different types
// between the same pair would collapse here.
type treeAccum struct {
	nodes     []*types.Node
	rels      []*types.Relationship
	seenNodes map[string]struct{}
	seenRels  map[string]struct{}
}

func newTreeAccum() *treeAccum {
	return &treeAccum{
		seenNodes: make(map[string]struct{}),
		seenRels:  make(map[string]struct{}),
	}
}

func (a *treeAccum) addNode(n *types.Node) {
	if n == nil || n.ID == "" {
		return
	}
	if _, dup := a.seenNodes[n.ID]; dup {
		return
	}
	a.seenNodes[n.ID] = struct{}{}
	a.nodes = append(a.nodes, n)
}

func (a *treeAccum) addRel(start, end, relType string) {
	if start == "" || end == "" {
		return
	}
	key := start + "-" + end
	if _, dup := a.seenRels[key]; dup {
		return
	}
	a.seenRels[key] = struct{}{}
	a.rels = append(a.rels, &types.Relationship{StartNode: start, EndNode: end, Type: relType})
}

func (a *treeAccum) result() *types.NodeContext {
	nodes := a.nodes
	if nodes == nil {
		nodes = []*types.Node{}
	}
	rels := a.rels
	if rels == nil {
		rels = []*types.Relationship{}
	}
	return &types.NodeContext{Nodes: nodes, Relationships: rels}
}
