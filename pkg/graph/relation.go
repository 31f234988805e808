package graph

import "github.com/OFFIS-RIT/catalog-graph/pkg/common"

// RelationFor returns the relation type to use for a base type and subject
// kind. Organizations never "develop": the edge becomes "produced".
func RelationFor(base string, subject common.EntityKind) string {
	if base == common.RelDeveloped && subject == common.KindOrganization {
		return common.RelProduced
	}
	return base
}

// RowEntities holds the resolved nodes of one processed row.
type RowEntities struct {
	IdNum        string
	Primary      common.Node
	Collection   common.Node
	Material     *common.Node
	Category     *common.Node
	Creator      *common.Node
	Contributors []common.Node
	AddlAuthors  []common.Node
}

// RelationBuilder derives relationships per row and keeps the unique ones in
// first-seen order.
type RelationBuilder struct {
	seen map[common.Relationship]struct{}
	rels []common.Relationship
}

func NewRelationBuilder() *RelationBuilder {
	return &RelationBuilder{seen: make(map[common.Relationship]struct{})}
}

// Add records the edge subject -> object unless an equal edge exists. It
// reports whether the edge was new.
func (b *RelationBuilder) Add(subject, object common.Node, base, number string) bool {
	rel := common.Relationship{
		SubjectID:   subject.Identity,
		SubjectKey:  subject.Entity.Label(),
		SubjectType: subject.Entity.Kind,
		ObjectID:    object.Identity,
		ObjectKey:   object.Entity.Label(),
		ObjectType:  object.Entity.Kind,
		Type:        RelationFor(base, subject.Entity.Kind),
		Number:      number,
	}
	if _, ok := b.seen[rel]; ok {
		return false
	}
	b.seen[rel] = struct{}{}
	b.rels = append(b.rels, rel)
	return true
}

// AddRow applies the relationship table to one row and returns the number of
// new edges.
func (b *RelationBuilder) AddRow(row RowEntities) int {
	added := 0
	add := func(subject, object common.Node, base, number string) {
		if b.Add(subject, object, base, number) {
			added++
		}
	}

	add(row.Primary, row.Collection, common.RelBelongsTo, row.IdNum)

	if row.Primary.Entity.Kind == common.KindItem {
		if row.Material != nil {
			add(row.Primary, *row.Material, common.RelMadeOf, "")
		}
	} else {
		if row.Category != nil {
			add(*row.Category, row.Primary, common.RelDescribe, "")
		}
		if row.Creator != nil {
			add(*row.Creator, row.Primary, common.RelDeveloped, "")
		}
	}

	for _, agent := range row.Contributors {
		add(agent, row.Primary, common.RelDeveloped, "")
	}
	for _, agent := range row.AddlAuthors {
		add(agent, row.Primary, common.RelCollaborated, "")
	}
	return added
}

// Relationships returns the unique relationships in first-seen order. The
// returned slice must not be modified.
func (b *RelationBuilder) Relationships() []common.Relationship {
	return b.rels
}

// Len returns the number of unique relationships.
func (b *RelationBuilder) Len() int {
	return len(b.rels)
}
