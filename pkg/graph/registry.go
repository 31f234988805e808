package graph

import "github.com/OFFIS-RIT/catalog-graph/pkg/common"

// CollectionIdentity is the identity of the collection singleton.
const CollectionIdentity int64 = 0

// Registry assigns identities to entities by canonical key. It belongs to a
// single run and is append-only.
type Registry struct {
	ids   map[common.Key]int64
	nodes []common.Node
	next  int64
}

// NewRegistry returns a registry with the named collection already
// registered at identity 0.
func NewRegistry(collectionName string) *Registry {
	collection := common.NewCollection(collectionName)
	r := &Registry{
		ids:  map[common.Key]int64{collection.Key(): CollectionIdentity},
		next: CollectionIdentity + 1,
	}
	r.nodes = append(r.nodes, common.Node{Identity: CollectionIdentity, Entity: collection})
	return r
}

// Resolve returns the identity of the entity's canonical key, assigning the
// next identity when the key is new. The second return value reports whether
// a node was created. An existing node keeps the attributes it was first
// registered with.
func (r *Registry) Resolve(e common.Entity) (int64, bool) {
	key := e.Key()
	if id, ok := r.ids[key]; ok {
		return id, false
	}
	id := r.next
	r.next++
	r.ids[key] = id
	r.nodes = append(r.nodes, common.Node{Identity: id, Entity: e})
	return id, true
}

// Lookup returns the identity registered for key.
func (r *Registry) Lookup(key common.Key) (int64, bool) {
	id, ok := r.ids[key]
	return id, ok
}

// Collection returns the collection singleton node.
func (r *Registry) Collection() common.Node {
	return r.nodes[0]
}

// Entities returns all nodes in identity order. The returned slice must not
// be modified.
func (r *Registry) Entities() []common.Node {
	return r.nodes
}

// Len returns the number of registered nodes, collection included.
func (r *Registry) Len() int {
	return len(r.nodes)
}

// CountsByKind returns the number of nodes per kind.
func (r *Registry) CountsByKind() map[common.EntityKind]int {
	counts := make(map[common.EntityKind]int, len(common.Kinds))
	for _, n := range r.nodes {
		counts[n.Entity.Kind]++
	}
	return counts
}
