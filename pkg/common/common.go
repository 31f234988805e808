package common

import (
	"strconv"
	"strings"
)

// EntityKind is the variant tag of an Entity. Every node in the output graph
// carries exactly one kind, which also doubles as its node label.
type EntityKind string

const (
	KindCollection   EntityKind = "Collection"
	KindArtifact     EntityKind = "Artifact"
	KindItem         EntityKind = "Item"
	KindDocument     EntityKind = "Document"
	KindPerson       EntityKind = "Person"
	KindOrganization EntityKind = "Organization"
	KindCategory     EntityKind = "Category"
	KindMaterial     EntityKind = "Material"
)

// Kinds lists every entity kind in output order.
var Kinds = []EntityKind{
	KindCollection,
	KindArtifact,
	KindItem,
	KindDocument,
	KindPerson,
	KindOrganization,
	KindCategory,
	KindMaterial,
}

// Key is the canonical identity of an entity. Two entities with equal keys are
// the same node, regardless of their remaining attributes.
type Key struct {
	Kind      EntityKind
	Primary   string
	Secondary string
}

// ArtifactData holds the attributes shared by every catalog artifact.
type ArtifactData struct {
	Title       string
	Description string
	DescComment string
	WherMade    string
}

// ItemData is an artifact identified by title and part number.
type ItemData struct {
	ArtifactData
	PartNum      string
	ConditionNts string
}

// DocumentData is an artifact carrying bibliographic attributes.
type DocumentData struct {
	ArtifactData
	ToC         string
	Extent      string
	SerialNum   string
	BibCit      string
	Created     string
	Copyrighted *bool
}

// PersonData is a parsed personal name.
type PersonData struct {
	Given   string
	Surname string
}

// NamedData is the payload of every kind identified by a single name
// (Collection, Organization, Category, Material).
type NamedData struct {
	Name string
}

// Entity is a tagged variant over all node kinds. Exactly one payload pointer
// matching Kind is set. Entities are values: they are never mutated after
// construction and are compared through Key.
type Entity struct {
	Kind     EntityKind
	Artifact *ArtifactData
	Item     *ItemData
	Document *DocumentData
	Person   *PersonData
	Named    *NamedData
}

func NewCollection(name string) Entity {
	return Entity{Kind: KindCollection, Named: &NamedData{Name: name}}
}

func NewArtifact(data ArtifactData) Entity {
	return Entity{Kind: KindArtifact, Artifact: &data}
}

func NewItem(data ItemData) Entity {
	return Entity{Kind: KindItem, Item: &data}
}

func NewDocument(data DocumentData) Entity {
	return Entity{Kind: KindDocument, Document: &data}
}

func NewPerson(given, surname string) Entity {
	return Entity{Kind: KindPerson, Person: &PersonData{Given: given, Surname: surname}}
}

func NewOrganization(name string) Entity {
	return Entity{Kind: KindOrganization, Named: &NamedData{Name: name}}
}

func NewCategory(name string) Entity {
	return Entity{Kind: KindCategory, Named: &NamedData{Name: name}}
}

func NewMaterial(name string) Entity {
	return Entity{Kind: KindMaterial, Named: &NamedData{Name: name}}
}

// Key derives the canonical key of the entity.
func (e Entity) Key() Key {
	switch e.Kind {
	case KindArtifact:
		return Key{Kind: e.Kind, Primary: e.Artifact.Title}
	case KindItem:
		return Key{Kind: e.Kind, Primary: e.Item.Title, Secondary: e.Item.PartNum}
	case KindDocument:
		return Key{Kind: e.Kind, Primary: e.Document.Title}
	case KindPerson:
		return Key{Kind: e.Kind, Primary: e.Person.Given, Secondary: e.Person.Surname}
	default:
		if e.Named == nil {
			return Key{Kind: e.Kind}
		}
		return Key{Kind: e.Kind, Primary: e.Named.Name}
	}
}

// Label is the human-readable key used for relationship endpoints.
func (e Entity) Label() string {
	k := e.Key()
	if k.Secondary == "" {
		return k.Primary
	}
	return k.Primary + " " + k.Secondary
}

// Title returns the title of artifact-like entities and "" for all others.
func (e Entity) Title() string {
	switch e.Kind {
	case KindArtifact:
		return e.Artifact.Title
	case KindItem:
		return e.Item.Title
	case KindDocument:
		return e.Document.Title
	}
	return ""
}

// Properties returns the node attributes with their natural types. Absent
// attributes are omitted rather than set to null.
func (e Entity) Properties() map[string]any {
	props := make(map[string]any)
	put := func(key, value string) {
		if value != "" {
			props[key] = value
		}
	}
	putArtifact := func(a ArtifactData) {
		put("title", a.Title)
		put("description", a.Description)
		put("descComment", a.DescComment)
		put("wherMade", a.WherMade)
	}

	switch e.Kind {
	case KindArtifact:
		putArtifact(*e.Artifact)
	case KindItem:
		putArtifact(e.Item.ArtifactData)
		put("partNum", e.Item.PartNum)
		put("conditionNts", e.Item.ConditionNts)
	case KindDocument:
		putArtifact(e.Document.ArtifactData)
		put("toc", e.Document.ToC)
		put("extent", e.Document.Extent)
		put("serialNum", e.Document.SerialNum)
		put("bibCit", e.Document.BibCit)
		put("created", e.Document.Created)
		if e.Document.Copyrighted != nil {
			props["copyrighted"] = *e.Document.Copyrighted
		}
	case KindPerson:
		put("name", e.Person.Given)
		put("surname", e.Person.Surname)
	default:
		if e.Named != nil {
			put("name", e.Named.Name)
		}
	}
	return props
}

// StringProperties is Properties with every value rendered as a string, the
// form expected by line-oriented graph importers.
func (e Entity) StringProperties() map[string]string {
	props := e.Properties()
	out := make(map[string]string, len(props))
	for k, v := range props {
		switch val := v.(type) {
		case string:
			out[k] = val
		case bool:
			out[k] = strconv.FormatBool(val)
		}
	}
	return out
}

// Row is one record of the catalog table. Column names are matched
// case-insensitively.
type Row struct {
	values map[string]string
}

// NewRow builds a Row from a column-name to value mapping.
func NewRow(values map[string]string) Row {
	r := Row{values: make(map[string]string, len(values))}
	for k, v := range values {
		r.values[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return r
}

// Get returns the raw value of the named column, or "" when the column is
// missing.
func (r Row) Get(column string) string {
	return r.values[strings.ToLower(column)]
}

// Len returns the number of columns in the row.
func (r Row) Len() int {
	return len(r.values)
}

// RowsFromTable turns a header record and data records into rows. Cells
// beyond the header are ignored, missing cells are absent, and records whose
// cells are all blank are dropped.
func RowsFromTable(header []string, records [][]string) []Row {
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		if isBlankRecord(record) {
			continue
		}
		values := make(map[string]string, len(header))
		for i, column := range header {
			if column == "" || i >= len(record) {
				continue
			}
			values[column] = record[i]
		}
		rows = append(rows, NewRow(values))
	}
	return rows
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
