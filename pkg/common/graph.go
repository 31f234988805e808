package common

import (
	"cmp"
	"slices"
)

// Relation type names used on graph edges.
const (
	RelBelongsTo    = "belongsTo"
	RelMadeOf       = "madeOf"
	RelDescribe     = "describe"
	RelDeveloped    = "developed"
	RelProduced     = "produced"
	RelCollaborated = "collaborated"
)

// Relationship is a directed, typed edge between two identified nodes.
// It is comparable: two relationships with equal fields are the same edge.
//
// Number is only set on belongsTo edges and carries the original catalog
// identifier of the row.
type Relationship struct {
	SubjectID   int64
	SubjectKey  string
	SubjectType EntityKind
	ObjectID    int64
	ObjectKey   string
	ObjectType  EntityKind
	Type        string
	Number      string
}

// Node is an entity together with the identity assigned to it.
type Node struct {
	Identity int64
	Entity   Entity
}

// GraphDocument is the result of a conversion run: every unique node grouped
// by kind in identity order, and the flat list of relationships.
type GraphDocument struct {
	RunID         string
	Groups        map[EntityKind][]Node
	Relationships []Relationship
}

// Nodes returns every node of the document in ascending identity order.
func (d *GraphDocument) Nodes() []Node {
	total := 0
	for _, nodes := range d.Groups {
		total += len(nodes)
	}
	out := make([]Node, 0, total)
	for _, kind := range Kinds {
		out = append(out, d.Groups[kind]...)
	}
	sortNodes(out)
	return out
}

// NodeCount returns the number of nodes of the given kind.
func (d *GraphDocument) NodeCount(kind EntityKind) int {
	return len(d.Groups[kind])
}

func sortNodes(nodes []Node) {
	slices.SortFunc(nodes, func(a, b Node) int {
		return cmp.Compare(a.Identity, b.Identity)
	})
}

// SkippedRow records a row rejected by the pipeline.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Warning records a recoverable, field-level problem in a processed row.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Report summarises a conversion run.
type Report struct {
	RunID            string             `json:"run_id"`
	TotalRows        int                `json:"total_rows"`
	ProcessedRows    int                `json:"processed_rows"`
	Skipped          []SkippedRow       `json:"skipped,omitempty"`
	Warnings         []Warning          `json:"warnings,omitempty"`
	NodeCounts       map[EntityKind]int `json:"node_counts"`
	RelationCounts   map[string]int     `json:"relationship_counts"`
	DroppedRelations int                `json:"dropped_relationships"`
}

// TotalNodes returns the number of nodes across all kinds.
func (r *Report) TotalNodes() int {
	n := 0
	for _, c := range r.NodeCounts {
		n += c
	}
	return n
}

// TotalRelationships returns the number of relationships across all types.
func (r *Report) TotalRelationships() int {
	n := 0
	for _, c := range r.RelationCounts {
		n += c
	}
	return n
}
