package neo4j

import (
	"strings"
	"testing"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
)

func TestBuildStatements(t *testing.T) {
	doc := &common.GraphDocument{
		RunID: "run-1",
		Groups: map[common.EntityKind][]common.Node{
			common.KindCollection: {{Identity: 0, Entity: common.NewCollection("HCLE")}},
			common.KindArtifact: {
				{Identity: 1, Entity: common.NewArtifact(common.ArtifactData{Title: "Vase"})},
				{Identity: 2, Entity: common.NewArtifact(common.ArtifactData{Title: "Bowl"})},
				{Identity: 3, Entity: common.NewArtifact(common.ArtifactData{Title: "Cup"})},
			},
		},
		Relationships: []common.Relationship{
			belongsTo(1, "1"),
			belongsTo(2, "2"),
			belongsTo(3, "3"),
		},
	}

	got := buildStatements(doc, 2)
	deletes := len(common.Kinds)
	// deletes, collection, artifacts x2, belongsTo x2
	if len(got) != deletes+5 {
		t.Fatalf("statements = %d, want %d", len(got), deletes+5)
	}
	for i, kind := range common.Kinds {
		if got[i].query != deleteRunQuery(kind) || got[i].params["runId"] != "run-1" {
			t.Fatalf("delete statement %d = %+v", i, got[i])
		}
	}
	if !strings.Contains(got[deletes].query, "MERGE (n:`Collection`") {
		t.Fatalf("collection query = %s", got[deletes].query)
	}
	if rows := got[deletes+1].params["rows"].([]any); len(rows) != 2 {
		t.Fatalf("artifact batch = %d rows", len(rows))
	}
	if rows := got[deletes+2].params["rows"].([]any); len(rows) != 1 {
		t.Fatalf("artifact remainder = %d rows", len(rows))
	}

	rel := got[deletes+3].query
	for _, want := range []string{
		"MATCH (s:`Artifact` {runId: $runId, identity: row.subject})",
		"MATCH (o:`Collection` {runId: $runId, identity: row.object})",
		"CREATE (s)-[r:`belongsTo`]->(o)",
	} {
		if !strings.Contains(rel, want) {
			t.Fatalf("relationship query = %s, missing %s", rel, want)
		}
	}

	first := got[deletes+3].params["rows"].([]any)[0].(map[string]any)
	props := first["properties"].(map[string]any)
	if props["number"] != "1" || first["subject"] != int64(1) {
		t.Fatalf("relationship row = %v", first)
	}
}

func TestBuildStatementsSplitsRelationshipsByLabels(t *testing.T) {
	doc := &common.GraphDocument{
		RunID: "run-2",
		Relationships: []common.Relationship{
			{SubjectID: 2, SubjectType: common.KindPerson, ObjectID: 1, ObjectType: common.KindDocument, Type: common.RelDeveloped},
			{SubjectID: 3, SubjectType: common.KindPerson, ObjectID: 4, ObjectType: common.KindArtifact, Type: common.RelDeveloped},
			{SubjectID: 5, SubjectType: common.KindPerson, ObjectID: 1, ObjectType: common.KindDocument, Type: common.RelDeveloped},
		},
	}

	got := buildStatements(doc, 10)[len(common.Kinds):]
	if len(got) != 2 {
		t.Fatalf("relationship statements = %d, want 2", len(got))
	}
	if !strings.Contains(got[0].query, "MATCH (o:`Document`") || len(got[0].params["rows"].([]any)) != 2 {
		t.Fatalf("document batch = %+v", got[0])
	}
	if !strings.Contains(got[1].query, "MATCH (o:`Artifact`") || len(got[1].params["rows"].([]any)) != 1 {
		t.Fatalf("artifact batch = %+v", got[1])
	}
}

func TestIndexQuery(t *testing.T) {
	want := "CREATE INDEX `graph_person_run_identity` IF NOT EXISTS FOR (n:`Person`) ON (n.runId, n.identity)"
	if got := indexQuery(common.KindPerson); got != want {
		t.Fatalf("indexQuery() = %s, want %s", got, want)
	}
}

func belongsTo(subject int64, number string) common.Relationship {
	return common.Relationship{
		SubjectID:   subject,
		SubjectType: common.KindArtifact,
		ObjectID:    0,
		ObjectType:  common.KindCollection,
		Type:        common.RelBelongsTo,
		Number:      number,
	}
}

func TestQuote(t *testing.T) {
	if got := quote("a`b"); got != "`a``b`" {
		t.Fatalf("quote() = %s", got)
	}
}
