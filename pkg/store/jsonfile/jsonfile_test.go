package jsonfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
)

func boolPtr(b bool) *bool { return &b }

func testDocument() *common.GraphDocument {
	collection := common.Node{Identity: 0, Entity: common.NewCollection("HCLE")}
	letter := common.Node{Identity: 1, Entity: common.NewDocument(common.DocumentData{
		ArtifactData: common.ArtifactData{Title: "Letter Home", Description: "ink on paper"},
		SerialNum:    "S1",
		Copyrighted:  boolPtr(false),
	})}
	person := common.Node{Identity: 2, Entity: common.NewPerson("John", "A. Smith")}
	pin := common.Node{Identity: 3, Entity: common.NewItem(common.ItemData{
		ArtifactData: common.ArtifactData{Title: "Pin"},
		PartNum:      "12",
	})}

	return &common.GraphDocument{
		RunID: "run",
		Groups: map[common.EntityKind][]common.Node{
			common.KindCollection: {collection},
			common.KindDocument:   {letter},
			common.KindPerson:     {person},
			common.KindItem:       {pin},
		},
		Relationships: []common.Relationship{
			{
				SubjectID: 1, SubjectKey: "Letter Home", SubjectType: common.KindDocument,
				ObjectID: 0, ObjectKey: "HCLE", ObjectType: common.KindCollection,
				Type: common.RelBelongsTo, Number: "1",
			},
			{
				SubjectID: 2, SubjectKey: "John A. Smith", SubjectType: common.KindPerson,
				ObjectID: 1, ObjectKey: "Letter Home", ObjectType: common.KindDocument,
				Type: common.RelDeveloped,
			},
		},
	}
}

func TestEncodeGroupedRoundTrip(t *testing.T) {
	doc := testDocument()
	data, err := EncodeBytes(doc, FormatGrouped)
	if err != nil {
		t.Fatalf("EncodeBytes() error = %v", err)
	}

	decoded, err := DecodeGrouped(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeGrouped() error = %v", err)
	}

	wantDocs := []EntityRecord{{
		Identity:    1,
		Title:       "Letter Home",
		Description: "ink on paper",
		SerialNum:   "S1",
		Copyrighted: boolPtr(false),
	}}
	if !reflect.DeepEqual(decoded.Entities.Documents, wantDocs) {
		t.Fatalf("Documents = %+v, want %+v", decoded.Entities.Documents, wantDocs)
	}
	wantCollection := []EntityRecord{{Identity: 0, Name: "HCLE"}}
	if !reflect.DeepEqual(decoded.Entities.Collection, wantCollection) {
		t.Fatalf("Collection = %+v", decoded.Entities.Collection)
	}
	if len(decoded.Entities.Artifacts) != 0 || decoded.Entities.Artifacts == nil {
		t.Fatalf("Artifacts = %#v, want empty list", decoded.Entities.Artifacts)
	}
	if len(decoded.Relationships) != 2 || decoded.Relationships[0].Number != "1" || decoded.Relationships[1].Number != "" {
		t.Fatalf("Relationships = %+v", decoded.Relationships)
	}
}

func TestEncodeGroupedOmitsAbsentFields(t *testing.T) {
	data, err := EncodeBytes(testDocument(), FormatGrouped)
	if err != nil {
		t.Fatalf("EncodeBytes() error = %v", err)
	}

	var raw struct {
		Entities      map[string][]map[string]any
		Relationships []map[string]any
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	item := raw.Entities["Items"][0]
	want := map[string]any{"identity": float64(3), "title": "Pin", "partNum": "12"}
	if !reflect.DeepEqual(item, want) {
		t.Fatalf("item = %v, want %v", item, want)
	}
	if _, ok := raw.Relationships[1]["number"]; ok {
		t.Fatalf("number present on developed edge: %v", raw.Relationships[1])
	}
	for _, key := range []string{"Collection", "Artifacts", "Items", "Documents", "People", "Organizations", "Categories", "Materials"} {
		if _, ok := raw.Entities[key]; !ok {
			t.Fatalf("missing entity group %s", key)
		}
	}
	if strings.Contains(string(data), "null") {
		t.Fatalf("document contains null values: %s", data)
	}
}

func TestEncodeLines(t *testing.T) {
	var buf bytes.Buffer
	if err := NewLinesWriter(&buf).WriteGraph(context.Background(), testDocument()); err != nil {
		t.Fatalf("WriteGraph() error = %v", err)
	}

	var lines []map[string]any
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var line map[string]any
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		lines = append(lines, line)
	}
	if len(lines) != 6 {
		t.Fatalf("lines = %d, want 6", len(lines))
	}

	for i, want := range []float64{0, 1, 2, 3} {
		if lines[i]["jtype"] != JTypeNode || lines[i]["identity"] != want {
			t.Fatalf("line %d = %v", i, lines[i])
		}
	}
	wantDoc := map[string]any{
		"title":       "Letter Home",
		"description": "ink on paper",
		"serialNum":   "S1",
		"copyrighted": "false",
	}
	if !reflect.DeepEqual(lines[1]["properties"], wantDoc) || lines[1]["label"] != "Document" {
		t.Fatalf("document line = %v", lines[1])
	}

	belongs := lines[4]
	if belongs["jtype"] != JTypeRelationship || belongs["name"] != common.RelBelongsTo {
		t.Fatalf("relationship line = %v", belongs)
	}
	if !reflect.DeepEqual(belongs["properties"], map[string]any{"originalIdNum": "1"}) {
		t.Fatalf("belongsTo properties = %v", belongs["properties"])
	}
	if !reflect.DeepEqual(lines[5]["properties"], map[string]any{}) {
		t.Fatalf("developed properties = %v", lines[5]["properties"])
	}
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "graph.json")
	w := NewFileWriter(path, FormatGrouped)
	if err := w.WriteGraph(context.Background(), testDocument()); err != nil {
		t.Fatalf("WriteGraph() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()
	doc, err := DecodeGrouped(f)
	if err != nil {
		t.Fatalf("DecodeGrouped() error = %v", err)
	}
	if len(doc.Entities.People) != 1 || doc.Entities.People[0].Surname != "A. Smith" {
		t.Fatalf("People = %+v", doc.Entities.People)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %v", entries)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatGrouped, false},
		{"grouped", FormatGrouped, false},
		{"JSON", FormatGrouped, false},
		{"jsonl", FormatLines, false},
		{"lines", FormatLines, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestSchema(t *testing.T) {
	data, err := Schema(FormatGrouped)
	if err != nil {
		t.Fatalf("Schema() error = %v", err)
	}
	var s map[string]any
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	props, ok := s["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties: %s", data)
	}
	if _, ok := props["Entities"]; !ok {
		t.Fatalf("schema lacks Entities: %s", data)
	}
	if _, ok := props["Relationships"]; !ok {
		t.Fatalf("schema lacks Relationships: %s", data)
	}
}
