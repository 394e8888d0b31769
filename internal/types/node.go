package types

import "time"

// NodeType is the closed set of graph node labels.
type NodeType string

const (
	NodeTypeMeteringTree NodeType = "MeteringTree"
	NodeTypeBuilding     NodeType = "Building"
	NodeTypeFloor        NodeType = "Floor"
	NodeTypeApartment    NodeType = "Apartment"
	NodeTypeMeter        NodeType = "Meter"
	NodeTypeDistribution NodeType = "Distribution"
	NodeTypeConsumer     NodeType = "Consumer"
)

var nodeTypes = map[NodeType]struct{}{
	NodeTypeMeteringTree: {},
	NodeTypeBuilding:     {},
	NodeTypeFloor:        {},
	NodeTypeApartment:    {},
	NodeTypeMeter:        {},
	NodeTypeDistribution: {},
	NodeTypeConsumer:     {},
}

func (t NodeType) Valid() bool {
	_, ok := nodeTypes[t]
	return ok
}

// UtilityType identifies which utility subtree a node belongs to.
type UtilityType string

const (
	UtilityElectricity UtilityType = "electricity"
	UtilityWater       UtilityType = "water"
	UtilityHeating     UtilityType = "heating"
	// UtilityGas is accepted at import validation time; no utility root
	// exists for it.
	UtilityGas UtilityType = "gas"
)

// UtilityRootTypes are the utilities that get a canonical root node per
// project, in creation order.
var UtilityRootTypes = []UtilityType{UtilityElectricity, UtilityWater, UtilityHeating}

// Node is a physical or logical entity in a metering infrastructure graph.
// Well-known properties are lifted into struct fields; everything else
// (description, serial_number, location, installation_date, category,
// subtype, ...) rides along opaquely in Properties.
type Node struct {
	ID            string         `json:"id"`
	ProjectID     int64          `json:"project_id"`
	Type          NodeType       `json:"type"`
	Name          string         `json:"name"`
	UtilityType   UtilityType    `json:"utility_type,omitempty"`
	IsUtilityRoot bool           `json:"is_utility_root,omitempty"`
	Properties    map[string]any `json:"properties,omitempty"`
	CreatedAt     time.Time      `json:"created_at,omitempty"`
	UpdatedAt     time.Time      `json:"updated_at,omitempty"`

	// View flags, populated only by specific read operations.
	IsCurrent   bool  `json:"is_current,omitempty"`
	HasChildren *bool `json:"has_children,omitempty"`
}

// Relationship is a directed CONNECTED_TO edge between two nodes.
type Relationship struct {
	StartNode  string         `json:"start_node"`
	EndNode    string         `json:"end_node"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// RelTypeConnectedTo is the single relationship type used by the metering
// graph.
const RelTypeConnectedTo = "CONNECTED_TO"

// NodeContext is the ancestor-chain + self + bounded-depth-children view of
// a node, the primary UI read shape.
type NodeContext struct {
	Nodes         []*Node         `json:"nodes"`
	Relationships []*Relationship `json:"relationships"`
}

// NodePath lists the ancestor ids of a target node, root first, excluding
// the target itself.
type NodePath struct {
	NodeID    string      `json:"node_id"`
	Ancestors []NodeIDRef `json:"ancestors"`
}

type NodeIDRef struct {
	ID string `json:"id"`
}
