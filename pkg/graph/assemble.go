package graph

import (
	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger"
)

// Assemble groups the registered nodes by kind and collects the well-formed
// relationships into a graph document. It returns the document and the
// number of relationships that were dropped.
func Assemble(runID string, registry *Registry, rels []common.Relationship) (*common.GraphDocument, int) {
	doc := &common.GraphDocument{
		RunID:         runID,
		Groups:        make(map[common.EntityKind][]common.Node, len(common.Kinds)),
		Relationships: make([]common.Relationship, 0, len(rels)),
	}
	for _, n := range registry.Entities() {
		doc.Groups[n.Entity.Kind] = append(doc.Groups[n.Entity.Kind], n)
	}

	dropped := 0
	for _, rel := range rels {
		if !validRelationship(registry, rel) {
			dropped++
			logger.Warn("[Graph] Dropping malformed relationship",
				"type", rel.Type, "subject", rel.SubjectKey, "object", rel.ObjectKey)
			continue
		}
		doc.Relationships = append(doc.Relationships, rel)
	}
	return doc, dropped
}

// validRelationship reports whether both endpoints are registered nodes of
// the declared kinds and all type fields are set.
func validRelationship(registry *Registry, rel common.Relationship) bool {
	if rel.Type == "" || rel.SubjectType == "" || rel.ObjectType == "" {
		return false
	}
	return endpointRegistered(registry, rel.SubjectID, rel.SubjectType) &&
		endpointRegistered(registry, rel.ObjectID, rel.ObjectType)
}

func endpointRegistered(registry *Registry, id int64, kind common.EntityKind) bool {
	nodes := registry.Entities()
	if id < 0 || id >= int64(len(nodes)) {
		return false
	}
	return nodes[id].Entity.Kind == kind
}
