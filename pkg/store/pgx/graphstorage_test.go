package pgx

import (
	"reflect"
	"testing"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
)

func TestNodeAndRelationshipRows(t *testing.T) {
	doc := &common.GraphDocument{
		RunID: "run-1",
		Groups: map[common.EntityKind][]common.Node{
			common.KindPerson:     {{Identity: 2, Entity: common.NewPerson("Jane", "Doe")}},
			common.KindCollection: {{Identity: 0, Entity: common.NewCollection("HCLE")}},
			common.KindArtifact:   {{Identity: 1, Entity: common.NewArtifact(common.ArtifactData{Title: "Vase"})}},
		},
		Relationships: []common.Relationship{
			{SubjectID: 1, SubjectType: common.KindArtifact, ObjectID: 0, ObjectType: common.KindCollection, Type: common.RelBelongsTo, Number: "7"},
			{SubjectID: 2, SubjectType: common.KindPerson, ObjectID: 1, ObjectType: common.KindArtifact, Type: common.RelDeveloped},
		},
	}

	nodes := nodeRows(doc)
	want := [][]any{
		{"run-1", int64(0), "Collection", "HCLE", map[string]any{"name": "HCLE"}},
		{"run-1", int64(1), "Artifact", "Vase", map[string]any{"title": "Vase"}},
		{"run-1", int64(2), "Person", "Jane Doe", map[string]any{"name": "Jane", "surname": "Doe"}},
	}
	if !reflect.DeepEqual(nodes, want) {
		t.Fatalf("nodeRows() = %v, want %v", nodes, want)
	}

	rels := relationshipRows(doc)
	if len(rels) != 2 {
		t.Fatalf("relationshipRows() = %v", rels)
	}
	if got := rels[0][7].(*string); got == nil || *got != "7" {
		t.Fatalf("number = %v, want 7", got)
	}
	if got := rels[1][7].(*string); got != nil {
		t.Fatalf("number = %v, want nil", *got)
	}
	if rels[1][1] != int32(1) || rels[1][2] != common.RelDeveloped {
		t.Fatalf("relationship row = %v", rels[1])
	}
	for _, row := range rels {
		if len(row) != len(relationshipColumns) {
			t.Fatalf("row width %d, want %d", len(row), len(relationshipColumns))
		}
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries)%2 != 0 || len(entries) < 4 {
		t.Fatalf("migrations = %d, want up and down pairs for graph and lock tables", len(entries))
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain utf8", input: "hello world", want: "hello world"},
		{name: "contains null byte", input: "hel\x00lo", want: "hello"},
		{name: "contains invalid utf8", input: string([]byte{'a', 0xff, 'b'}), want: "ab"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeText(tt.input); got != tt.want {
				t.Fatalf("sanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
