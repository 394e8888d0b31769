package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/TeodorGlobalworth/MeteringGraph/internal/graphdb"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/logger"
	"github.com/TeodorGlobalworth/MeteringGraph/internal/types"
)

const searchResultLimit = 50

// TreeRepo owns node/relationship CRUD and the traversal reads over one
// project's metering graph. All Cypher is fully parameterized; node labels
// are interpolated only after validation against the closed NodeType set.
type TreeRepo interface {
	CreateNode(ctx context.Context, projectID int64, nodeType types.NodeType, props map[string]any) (*types.Node, error)
	GetNode(ctx context.Context, projectID int64, nodeID string) (*types.Node, error)
	// GetNodeByID resolves a node without a project scope; needed by the
	// connection validator and the cross-project Consumer case.
	GetNodeByID(ctx context.Context, nodeID string) (*types.Node, error)
	UpdateNode(ctx context.Context, projectID int64, nodeID string, props map[string]any) (*types.Node, error)
	DeleteNode(ctx context.Context, projectID int64, nodeID string) (bool, error)

	CreateRelationship(ctx context.Context, projectID int64, startID, endID, relType string, props map[string]any) (*types.Relationship, error)
	// MergeConnection idempotently creates a CONNECTED_TO edge with an
	// unscoped endpoint match. Rule validation is the caller's job.
	MergeConnection(ctx context.Context, sourceID, targetID string) error

	GetNodeContext(ctx context.Context, projectID int64, nodeID string, depth int) (*types.NodeContext, error)
	GetTreeChildren(ctx context.Context, projectID int64, parentID string) ([]*types.Node, error)
	GetPathsToNodes(ctx context.Context, projectID int64, nodeIDs []string) ([]*types.NodePath, error)
	GetCategoryTree(ctx context.Context, projectID int64, nodeIDs []string) (*types.NodeContext, error)
	InsertNodeBetween(ctx context.Context, projectID int64, sourceID, targetID string, nodeType types.NodeType, props map[string]any) (*types.Node, error)

	SearchNodes(ctx context.Context, projectID int64, query string) ([]*types.Node, error)
	SearchNodesGlobal(ctx context.Context, query string) ([]*types.Node, error)
	SearchNodesByCategory(ctx context.Context, projectID int64, category string) ([]*types.Node, error)

	GetAllNodes(ctx context.Context, projectID int64) ([]*types.Node, error)
	GetRelationships(ctx context.Context, projectID int64) ([]*types.Relationship, error)
	CountNodes(ctx context.Context, projectID int64) (int64, error)
	DeleteProjectNodes(ctx context.Context, projectID int64) (int64, error)
}

type treeRepo struct {
	client *graphdb.Client
	log    *logger.Logger
	clock  func() time.Time
}

func NewTreeRepo(client *graphdb.Client, baseLog *logger.Logger) TreeRepo {
	return &treeRepo{
		client: client,
		log:    baseLog.With("repo", "TreeRepo"),
		clock:  time.Now,
	}
}

func (r *treeRepo) CreateNode(ctx context.Context, projectID int64, nodeType types.NodeType, props map[string]any) (*types.Node, error) {
	if !nodeType.Valid() {
		return nil, fmt.Errorf("%w: unknown node type %q", types.ErrInvalidArgument, nodeType)
	}

	id := ""
	if v, ok := props[propID].(string); ok && v != "" {
		id = v
	} else {
		id = uuid.NewString()
	}
	writeProps := nodeWriteProps(id, projectID, props, r.clock())

	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`CREATE (n:%s) SET n = $props RETURN n AS node`, nodeType)
	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"props": writeProps})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		return nodeFromRecord(rec, "node")
	})
	if err != nil {
		return nil, fmt.Errorf("create node: %w", err)
	}
	return result.(*types.Node), nil
}

func (r *treeRepo) GetNode(ctx context.Context, projectID int64, nodeID string) (*types.Node, error) {
	return r.fetchNode(ctx, `MATCH (n {id: $node_id, project_id: $project_id}) RETURN n AS node`,
		map[string]any{"node_id": nodeID, "project_id": projectID})
}

func (r *treeRepo) GetNodeByID(ctx context.Context, nodeID string) (*types.Node, error) {
	return r.fetchNode(ctx, `MATCH (n {id: $node_id}) RETURN n AS node`,
		map[string]any{"node_id": nodeID})
}

func (r *treeRepo) fetchNode(ctx context.Context, query string, params map[string]any) (*types.Node, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
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
		return nil, fmt.Errorf("get node: %w", err)
	}
	if result == nil {
		return nil, types.ErrNotFound
	}
	return result.(*types.Node), nil
}

func (r *treeRepo) UpdateNode(ctx context.Context, projectID int64, nodeID string, props map[string]any) (*types.Node, error) {
	// id, project_id and type are immutable.
	cleaned := make(map[string]any, len(props))
	for k, v := range props {
		if k == propID || k == propProjectID {
			continue
		}
		cleaned[k] = v
	}

	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (n {id: $node_id, project_id: $project_id})
SET n += $props, n.updated_at = $updated_at
RETURN n AS node`,
			map[string]any{
				"node_id":    nodeID,
				"project_id": projectID,
				"props":      cleaned,
				"updated_at": r.clock().Format(timeFormat),
			})
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
		return nil, fmt.Errorf("update node: %w", err)
	}
	if result == nil {
		return nil, types.ErrNotFound
	}
	return result.(*types.Node), nil
}

func (r *treeRepo) DeleteNode(ctx context.Context, projectID int64, nodeID string) (bool, error) {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (n {id: $node_id, project_id: $project_id})
DETACH DELETE n
RETURN count(n) AS deleted`,
			map[string]any{"node_id": nodeID, "project_id": projectID})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		deleted, _ := rec.Get("deleted")
		count, _ := deleted.(int64)
		return count > 0, nil
	})
	if err != nil {
		return false, fmt.Errorf("delete node: %w", err)
	}
	return result.(bool), nil
}

func (r *treeRepo) CreateRelationship(ctx context.Context, projectID int64, startID, endID, relType string, props map[string]any) (*types.Relationship, error) {
	if relType != types.RelTypeConnectedTo {
		return nil, fmt.Errorf("%w: unknown relationship type %q", types.ErrInvalidArgument, relType)
	}
	if props == nil {
		props = map[string]any{}
	}

	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (a {id: $start_id, project_id: $project_id}), (b {id: $end_id, project_id: $project_id})
CREATE (a)-[r:CONNECTED_TO]->(b)
SET r = $props
RETURN a.id AS start_node, b.id AS end_node, type(r) AS rel_type, properties(r) AS properties`,
			map[string]any{
				"start_id":   startID,
				"end_id":     endID,
				"project_id": projectID,
				"props":      props,
			})
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
		return relationshipFromRecord(recs[0])
	})
	if err != nil {
		return nil, fmt.Errorf("create relationship: %w", err)
	}
	if result == nil {
		// One or both endpoints missing in this project's partition.
		return nil, types.ErrNotFound
	}
	return result.(*types.Relationship), nil
}

func (r *treeRepo) MergeConnection(ctx context.Context, sourceID, targetID string) error {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (source {id: $source_id})
MATCH (target {id: $target_id})
MERGE (source)-[r:CONNECTED_TO]->(target)
RETURN source.id AS start_node`,
			map[string]any{"source_id": sourceID, "target_id": targetID})
		if err != nil {
			return nil, err
		}
		recs, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return len(recs) > 0, nil
	})
	if err != nil {
		return fmt.Errorf("merge connection: %w", err)
	}
	if !result.(bool) {
		return types.ErrNotFound
	}
	return nil
}

func (r *treeRepo) GetNodeContext(ctx context.Context, projectID int64, nodeID string, depth int) (*types.NodeContext, error) {
	if depth < 1 {
		depth = 1
	}

	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	params := map[string]any{"node_id": nodeID, "project_id": projectID}

	// Ancestors are every node on a path from nodeID upward to a node with
	// no further incoming CONNECTED_TO edge. By graph invariant those are
	// exactly the MeteringTree roots.
	ancestorsQuery := `
MATCH path = (n {id: $node_id, project_id: $project_id})<-[:CONNECTED_TO*]-(ancestor)
WHERE ancestor.project_id = $project_id AND NOT (ancestor)<-[:CONNECTED_TO]-()
UNWIND nodes(path) AS node
RETURN DISTINCT node`

	currentQuery := `
MATCH (n {id: $node_id, project_id: $project_id})
RETURN n AS node`

	childrenQuery := fmt.Sprintf(`
MATCH (n {id: $node_id, project_id: $project_id})-[:CONNECTED_TO*1..%d]->(child)
WHERE child.project_id = $project_id
RETURN DISTINCT child AS node`, depth)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		var groups [][]*types.Node
		for _, q := range []string{ancestorsQuery, currentQuery, childrenQuery} {
			nodes, err := collectNodes(ctx, tx, q, params)
			if err != nil {
				return nil, err
			}
			groups = append(groups, nodes)
		}
		merged := mergeContextNodes(nodeID, groups...)

		ids := make([]string, 0, len(merged))
		for _, n := range merged {
			ids = append(ids, n.ID)
		}
		rels := []*types.Relationship{}
		if len(ids) > 0 {
			res, err := tx.Run(ctx, `
MATCH (a)-[r:CONNECTED_TO]->(b)
WHERE a.id IN $node_ids AND b.id IN $node_ids
  AND a.project_id = $project_id AND b.project_id = $project_id
RETURN a.id AS start_node, b.id AS end_node, type(r) AS rel_type, properties(r) AS properties`,
				map[string]any{"node_ids": ids, "project_id": projectID})
			if err != nil {
				return nil, err
			}
			recs, err := res.Collect(ctx)
			if err != nil {
				return nil, err
			}
			for _, rec := range recs {
				rel, err := relationshipFromRecord(rec)
				if err != nil {
					return nil, err
				}
				rels = append(rels, rel)
			}
		}
		return &types.NodeContext{Nodes: merged, Relationships: rels}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("get node context: %w", err)
	}
	return result.(*types.NodeContext), nil
}

func (r *treeRepo) GetTreeChildren(ctx context.Context, projectID int64, parentID string) ([]*types.Node, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	var query string
	params := map[string]any{"project_id": projectID}
	if parentID != "" {
		query = `
MATCH (p {id: $parent_id, project_id: $project_id})-[:CONNECTED_TO]->(child)
WHERE child.project_id = $project_id
RETURN child AS node, EXISTS { (child)-[:CONNECTED_TO]->() } AS has_children
ORDER BY child.name`
		params["parent_id"] = parentID
	} else {
		// Deliberately matches every MeteringTree node of the project, not
		// just is_utility_root = true; with the current invariants those
		// are the same set.
		query = `
MATCH (n:MeteringTree {project_id: $project_id})
RETURN n AS node, EXISTS { (n)-[:CONNECTED_TO]->() } AS has_children
ORDER BY n.utility_type`
	}

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		var nodes []*types.Node
		for res.Next(ctx) {
			rec := res.Record()
			node, err := nodeFromRecord(rec, "node")
			if err != nil {
				return nil, err
			}
			if hc, ok := rec.Get("has_children"); ok {
				if b, ok := hc.(bool); ok {
					node.HasChildren = &b
				}
			}
			nodes = append(nodes, node)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return nodes, nil
	})
	if err != nil {
		return nil, fmt.Errorf("get tree children: %w", err)
	}
	nodes, _ := result.([]*types.Node)
	if nodes == nil {
		nodes = []*types.Node{}
	}
	return nodes, nil
}

func (r *treeRepo) GetPathsToNodes(ctx context.Context, projectID int64, nodeIDs []string) ([]*types.NodePath, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		paths := make([]*types.NodePath, 0, len(nodeIDs))
		for _, nodeID := range nodeIDs {
			res, err := tx.Run(ctx, `
MATCH (target {id: $node_id, project_id: $project_id})
OPTIONAL MATCH path = (root:MeteringTree {project_id: $project_id})-[:CONNECTED_TO*]->(target)
WITH nodes(path) AS pathNodes
WHERE pathNodes IS NOT NULL
UNWIND pathNodes AS n
WITH DISTINCT n
RETURN n.id AS id`,
				map[string]any{"node_id": nodeID, "project_id": projectID})
			if err != nil {
				return nil, err
			}
			recs, err := res.Collect(ctx)
			if err != nil {
				return nil, err
			}
			ids := make([]string, 0, len(recs))
			for _, rec := range recs {
				if v, ok := rec.Get("id"); ok {
					if s, ok := v.(string); ok {
						ids = append(ids, s)
					}
				}
			}
			paths = append(paths, &types.NodePath{
				NodeID:    nodeID,
				Ancestors: ancestorRefs(nodeID, ids),
			})
		}
		return paths, nil
	})
	if err != nil {
		return nil, fmt.Errorf("get paths to nodes: %w", err)
	}
	return result.([]*types.NodePath), nil
}

func (r *treeRepo) GetCategoryTree(ctx context.Context, projectID int64, nodeIDs []string) (*types.NodeContext, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		accum := newTreeAccum()
		for _, targetID := range nodeIDs {
			res, err := tx.Run(ctx, `
MATCH path = (root:MeteringTree {project_id: $project_id})-[:CONNECTED_TO*0..]->(target {id: $target_id, project_id: $project_id})
UNWIND nodes(path) AS n
UNWIND relationships(path) AS r
RETURN DISTINCT n AS node, startNode(r).id AS rel_start, endNode(r).id AS rel_end, type(r) AS rel_type`,
				map[string]any{"target_id": targetID, "project_id": projectID})
			if err != nil {
				return nil, err
			}
			for res.Next(ctx) {
				rec := res.Record()
				node, err := nodeFromRecord(rec, "node")
				if err != nil {
					return nil, err
				}
				accum.addNode(node)
				start, _ := rec.Get("rel_start")
				end, _ := rec.Get("rel_end")
				relType, _ := rec.Get("rel_type")
				startID, _ := start.(string)
				endID, _ := end.(string)
				typeName, _ := relType.(string)
				accum.addRel(startID, endID, typeName)
			}
			if err := res.Err(); err != nil {
				return nil, err
			}
		}
		return accum.result(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("get category tree: %w", err)
	}
	return result.(*types.NodeContext), nil
}

// InsertNodeBetween rewires a direct source->target edge through a new node
// in a single write transaction. When the direct edge does not exist (or was
// raced away by another mutation) it returns (nil, nil): the restructure
// simply did not happen.
func (r *treeRepo) InsertNodeBetween(ctx context.Context, projectID int64, sourceID, targetID string, nodeType types.NodeType, props map[string]any) (*types.Node, error) {
	if !nodeType.Valid() {
		return nil, fmt.Errorf("%w: unknown node type %q", types.ErrInvalidArgument, nodeType)
	}

	id := ""
	if v, ok := props[propID].(string); ok && v != "" {
		id = v
	} else {
		id = uuid.NewString()
	}
	writeProps := nodeWriteProps(id, projectID, props, r.clock())

	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(`
MATCH (source {id: $source_id, project_id: $project_id})
MATCH (target {id: $target_id, project_id: $project_id})
MATCH (source)-[old_rel:CONNECTED_TO]->(target)
CREATE (new:%s)
SET new = $props
CREATE (source)-[:CONNECTED_TO]->(new)
CREATE (new)-[:CONNECTED_TO]->(target)
DELETE old_rel
RETURN new AS node`, nodeType)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{
			"source_id":  sourceID,
			"target_id":  targetID,
			"project_id": projectID,
			"props":      writeProps,
		})
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
		return nil, fmt.Errorf("insert node between: %w", err)
	}
	if result == nil {
		return nil, nil
	}
	return result.(*types.Node), nil
}

func (r *treeRepo) SearchNodes(ctx context.Context, projectID int64, query string) ([]*types.Node, error) {
	return r.searchQuery(ctx, `
MATCH (n {project_id: $project_id})
WHERE toLower(n.name) CONTAINS toLower($search_term)
   OR toLower(coalesce(n.description, '')) CONTAINS toLower($search_term)
RETURN n AS node
LIMIT $limit`,
		map[string]any{"project_id": projectID, "search_term": query, "limit": searchResultLimit})
}

func (r *treeRepo) SearchNodesGlobal(ctx context.Context, query string) ([]*types.Node, error) {
	return r.searchQuery(ctx, `
MATCH (n)
WHERE (toLower(n.name) CONTAINS toLower($search_term)
   OR toLower(coalesce(n.description, '')) CONTAINS toLower($search_term)
   OR toLower(coalesce(n.serial_number, '')) CONTAINS toLower($search_term))
  AND NOT n:MeteringTree
RETURN n AS node
LIMIT $limit`,
		map[string]any{"search_term": query, "limit": searchResultLimit})
}

func (r *treeRepo) SearchNodesByCategory(ctx context.Context, projectID int64, category string) ([]*types.Node, error) {
	return r.searchQuery(ctx, `
MATCH (n:Consumer {project_id: $project_id, category: $category})
RETURN n AS node`,
		map[string]any{"project_id": projectID, "category": category})
}

func (r *treeRepo) GetAllNodes(ctx context.Context, projectID int64) ([]*types.Node, error) {
	return r.searchQuery(ctx, `MATCH (n {project_id: $project_id}) RETURN n AS node`,
		map[string]any{"project_id": projectID})
}

func (r *treeRepo) searchQuery(ctx context.Context, query string, params map[string]any) ([]*types.Node, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collectNodes(ctx, tx, query, params)
	})
	if err != nil {
		return nil, fmt.Errorf("search nodes: %w", err)
	}
	nodes, _ := result.([]*types.Node)
	if nodes == nil {
		nodes = []*types.Node{}
	}
	return nodes, nil
}

func (r *treeRepo) GetRelationships(ctx context.Context, projectID int64) ([]*types.Relationship, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (a {project_id: $project_id})-[r]->(b {project_id: $project_id})
RETURN a.id AS start_node, b.id AS end_node, type(r) AS rel_type, properties(r) AS properties`,
			map[string]any{"project_id": projectID})
		if err != nil {
			return nil, err
		}
		recs, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		rels := make([]*types.Relationship, 0, len(recs))
		for _, rec := range recs {
			rel, err := relationshipFromRecord(rec)
			if err != nil {
				return nil, err
			}
			rels = append(rels, rel)
		}
		return rels, nil
	})
	if err != nil {
		return nil, fmt.Errorf("get relationships: %w", err)
	}
	return result.([]*types.Relationship), nil
}

func (r *treeRepo) CountNodes(ctx context.Context, projectID int64) (int64, error) {
	session := r.client.ReadSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (n {project_id: $project_id}) RETURN count(n) AS count`,
			map[string]any{"project_id": projectID})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		v, _ := rec.Get("count")
		count, _ := v.(int64)
		return count, nil
	})
	if err != nil {
		return 0, fmt.Errorf("count nodes: %w", err)
	}
	return result.(int64), nil
}

func (r *treeRepo) DeleteProjectNodes(ctx context.Context, projectID int64) (int64, error) {
	session := r.client.WriteSession(ctx)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (n {project_id: $project_id})
DETACH DELETE n
RETURN count(n) AS deleted`,
			map[string]any{"project_id": projectID})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		v, _ := rec.Get("deleted")
		deleted, _ := v.(int64)
		return deleted, nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete project nodes: %w", err)
	}
	return result.(int64), nil
}

func collectNodes(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) ([]*types.Node, error) {
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	var nodes []*types.Node
	for res.Next(ctx) {
		node, err := nodeFromRecord(res.Record(), "node")
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return nodes, nil
}
