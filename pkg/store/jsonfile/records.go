package jsonfile

import "github.com/OFFIS-RIT/catalog-graph/pkg/common"

// GroupedDocument is the grouped graph document: entity lists per type and
// one flat relationship list.
type GroupedDocument struct {
	Entities      GroupedEntities      `json:"Entities"`
	Relationships []RelationshipRecord `json:"Relationships"`
}

// GroupedEntities holds one list per entity type. Lists are never null.
type GroupedEntities struct {
	Collection    []EntityRecord `json:"Collection"`
	Artifacts     []EntityRecord `json:"Artifacts"`
	Items         []EntityRecord `json:"Items"`
	Documents     []EntityRecord `json:"Documents"`
	People        []EntityRecord `json:"People"`
	Organizations []EntityRecord `json:"Organizations"`
	Categories    []EntityRecord `json:"Categories"`
	Materials     []EntityRecord `json:"Materials"`
}

// list returns the list a kind is grouped under.
func (g *GroupedEntities) list(kind common.EntityKind) *[]EntityRecord {
	switch kind {
	case common.KindCollection:
		return &g.Collection
	case common.KindArtifact:
		return &g.Artifacts
	case common.KindItem:
		return &g.Items
	case common.KindDocument:
		return &g.Documents
	case common.KindPerson:
		return &g.People
	case common.KindOrganization:
		return &g.Organizations
	case common.KindCategory:
		return &g.Categories
	case common.KindMaterial:
		return &g.Materials
	}
	return nil
}

// EntityRecord is one node with its natural-typed attributes. Absent
// attributes are omitted.
type EntityRecord struct {
	Identity     int64  `json:"identity"`
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	DescComment  string `json:"descComment,omitempty"`
	WherMade     string `json:"wherMade,omitempty"`
	PartNum      string `json:"partNum,omitempty"`
	ConditionNts string `json:"conditionNts,omitempty"`
	ToC          string `json:"toc,omitempty"`
	Extent       string `json:"extent,omitempty"`
	SerialNum    string `json:"serialNum,omitempty"`
	BibCit       string `json:"bibCit,omitempty"`
	Created      string `json:"created,omitempty"`
	Copyrighted  *bool  `json:"copyrighted,omitempty"`
	Name         string `json:"name,omitempty"`
	Surname      string `json:"surname,omitempty"`
}

func newEntityRecord(n common.Node) EntityRecord {
	rec := EntityRecord{Identity: n.Identity}
	setArtifact := func(a common.ArtifactData) {
		rec.Title = a.Title
		rec.Description = a.Description
		rec.DescComment = a.DescComment
		rec.WherMade = a.WherMade
	}

	e := n.Entity
	switch e.Kind {
	case common.KindArtifact:
		setArtifact(*e.Artifact)
	case common.KindItem:
		setArtifact(e.Item.ArtifactData)
		rec.PartNum = e.Item.PartNum
		rec.ConditionNts = e.Item.ConditionNts
	case common.KindDocument:
		setArtifact(e.Document.ArtifactData)
		rec.ToC = e.Document.ToC
		rec.Extent = e.Document.Extent
		rec.SerialNum = e.Document.SerialNum
		rec.BibCit = e.Document.BibCit
		rec.Created = e.Document.Created
		rec.Copyrighted = e.Document.Copyrighted
	case common.KindPerson:
		rec.Name = e.Person.Given
		rec.Surname = e.Person.Surname
	default:
		if e.Named != nil {
			rec.Name = e.Named.Name
		}
	}
	return rec
}

// RelationshipRecord is one edge of the grouped document. Number is only
// present on belongsTo edges.
type RelationshipRecord struct {
	Type        string            `json:"type"`
	Subject     int64             `json:"subject"`
	SubjectKey  string            `json:"subjectKey"`
	SubjectType common.EntityKind `json:"subjectType"`
	Object      int64             `json:"object"`
	ObjectKey   string            `json:"objectKey"`
	ObjectType  common.EntityKind `json:"objectType"`
	Number      string            `json:"number,omitempty"`
}

func newRelationshipRecord(rel common.Relationship) RelationshipRecord {
	return RelationshipRecord{
		Type:        rel.Type,
		Subject:     rel.SubjectID,
		SubjectKey:  rel.SubjectKey,
		SubjectType: rel.SubjectType,
		Object:      rel.ObjectID,
		ObjectKey:   rel.ObjectKey,
		ObjectType:  rel.ObjectType,
		Number:      rel.Number,
	}
}

// NewGroupedDocument converts a graph document into its grouped form.
func NewGroupedDocument(doc *common.GraphDocument) *GroupedDocument {
	out := &GroupedDocument{Relationships: make([]RelationshipRecord, 0, len(doc.Relationships))}
	for _, kind := range common.Kinds {
		list := out.Entities.list(kind)
		*list = make([]EntityRecord, 0, len(doc.Groups[kind]))
		for _, n := range doc.Groups[kind] {
			*list = append(*list, newEntityRecord(n))
		}
	}
	for _, rel := range doc.Relationships {
		out.Relationships = append(out.Relationships, newRelationshipRecord(rel))
	}
	return out
}

const (
	JTypeNode         = "node"
	JTypeRelationship = "relationship"
)

// NodeLine is a node record of the JSON-lines format.
type NodeLine struct {
	JType      string            `json:"jtype"`
	Identity   int64             `json:"identity"`
	Label      common.EntityKind `json:"label"`
	Properties map[string]string `json:"properties"`
}

// RelationshipLine is a relationship record of the JSON-lines format.
type RelationshipLine struct {
	JType      string            `json:"jtype"`
	Subject    int64             `json:"subject"`
	Object     int64             `json:"object"`
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties"`
}

func newNodeLine(n common.Node) NodeLine {
	return NodeLine{
		JType:      JTypeNode,
		Identity:   n.Identity,
		Label:      n.Entity.Kind,
		Properties: n.Entity.StringProperties(),
	}
}

func newRelationshipLine(rel common.Relationship) RelationshipLine {
	props := map[string]string{}
	if rel.Number != "" {
		props["originalIdNum"] = rel.Number
	}
	return RelationshipLine{
		JType:      JTypeRelationship,
		Subject:    rel.SubjectID,
		Object:     rel.ObjectID,
		Name:       rel.Type,
		Properties: props,
	}
}
