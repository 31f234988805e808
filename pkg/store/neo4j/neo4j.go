package neo4j

import (
	"context"
	"fmt"
	"strings"

	neo4jv5 "github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store"
)

const defaultBatchSize = 500

// GraphNeo4jStorage imports graph documents into Neo4j. Nodes carry the run
// ID and their identity; a run written twice replaces the earlier copy.
type GraphNeo4jStorage struct {
	driver    neo4jv5.DriverWithContext
	database  string
	batchSize int
}

// NewGraphNeo4jStorageParams defines the parameters of NewGraphNeo4jStorage.
type NewGraphNeo4jStorageParams struct {
	URL       string
	Username  string
	Password  string
	Database  string
	BatchSize int
}

// NewGraphNeo4jStorage connects to Neo4j and verifies connectivity.
func NewGraphNeo4jStorage(ctx context.Context, params NewGraphNeo4jStorageParams) (*GraphNeo4jStorage, error) {
	driver, err := neo4jv5.NewDriverWithContext(params.URL, neo4jv5.BasicAuth(params.Username, params.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}
	if err := ensureIndexes(ctx, driver, params.Database); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &GraphNeo4jStorage{
		driver:    driver,
		database:  params.Database,
		batchSize: batchSize,
	}, nil
}

func (s *GraphNeo4jStorage) Name() string { return "neo4j" }

// Close closes the driver.
func (s *GraphNeo4jStorage) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// WriteGraph replaces the run in one write transaction.
func (s *GraphNeo4jStorage) WriteGraph(ctx context.Context, doc *common.GraphDocument) error {
	session := s.driver.NewSession(ctx, neo4jv5.SessionConfig{
		AccessMode:   neo4jv5.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	statements := buildStatements(doc, s.batchSize)
	_, err := session.ExecuteWrite(ctx, func(tx neo4jv5.ManagedTransaction) (any, error) {
		for _, st := range statements {
			result, err := tx.Run(ctx, st.query, st.params)
			if err != nil {
				return nil, err
			}
			if _, err := result.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}

	logger.Debug("[Store] Neo4j import finished", "run_id", doc.RunID, "statements", len(statements))
	return nil
}

// ensureIndexes creates the per-label (runId, identity) index used by the
// import. Schema changes cannot share a transaction with data writes.
func ensureIndexes(ctx context.Context, driver neo4jv5.DriverWithContext, database string) error {
	session := driver.NewSession(ctx, neo4jv5.SessionConfig{
		AccessMode:   neo4jv5.AccessModeWrite,
		DatabaseName: database,
	})
	defer session.Close(ctx)

	for _, kind := range common.Kinds {
		result, err := session.Run(ctx, indexQuery(kind), nil)
		if err != nil {
			return fmt.Errorf("failed to create index for %s: %w", kind, err)
		}
		if _, err := result.Consume(ctx); err != nil {
			return fmt.Errorf("failed to create index for %s: %w", kind, err)
		}
	}
	return nil
}

type statement struct {
	query  string
	params map[string]any
}

func quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func indexQuery(kind common.EntityKind) string {
	name := "graph_" + strings.ToLower(string(kind)) + "_run_identity"
	return "CREATE INDEX " + quote(name) + " IF NOT EXISTS " +
		"FOR (n:" + quote(string(kind)) + ") ON (n.runId, n.identity)"
}

func deleteRunQuery(kind common.EntityKind) string {
	return "MATCH (n:" + quote(string(kind)) + " {runId: $runId}) DETACH DELETE n"
}

func nodeQuery(kind common.EntityKind) string {
	return "UNWIND $rows AS row " +
		"MERGE (n:" + quote(string(kind)) + " {runId: $runId, identity: row.identity}) " +
		"SET n += row.properties"
}

func relationshipQuery(relType string, subject, object common.EntityKind) string {
	return "UNWIND $rows AS row " +
		"MATCH (s:" + quote(string(subject)) + " {runId: $runId, identity: row.subject}) " +
		"MATCH (o:" + quote(string(object)) + " {runId: $runId, identity: row.object}) " +
		"CREATE (s)-[r:" + quote(relType) + "]->(o) " +
		"SET r += row.properties"
}

// relGroup is one relationship query shape: a type between two labels.
type relGroup struct {
	relType string
	subject common.EntityKind
	object  common.EntityKind
}

func groupByShape(rels []common.Relationship) ([]relGroup, map[relGroup][]common.Relationship) {
	var order []relGroup
	byShape := make(map[relGroup][]common.Relationship)
	for _, rel := range rels {
		g := relGroup{relType: rel.Type, subject: rel.SubjectType, object: rel.ObjectType}
		if _, ok := byShape[g]; !ok {
			order = append(order, g)
		}
		byShape[g] = append(byShape[g], rel)
	}
	return order, byShape
}

// buildStatements returns the ordered statements importing doc: clear the
// run per label, create nodes per kind, then relationships per type and
// label pair.
func buildStatements(doc *common.GraphDocument, batchSize int) []statement {
	var out []statement
	for _, kind := range common.Kinds {
		out = append(out, statement{
			query:  deleteRunQuery(kind),
			params: map[string]any{"runId": doc.RunID},
		})
	}

	for _, kind := range common.Kinds {
		nodes := doc.Groups[kind]
		_ = store.ChunkRange(len(nodes), batchSize, func(start, end int) error {
			rows := make([]any, 0, end-start)
			for _, n := range nodes[start:end] {
				rows = append(rows, map[string]any{
					"identity":   n.Identity,
					"properties": n.Entity.Properties(),
				})
			}
			out = append(out, statement{
				query:  nodeQuery(kind),
				params: map[string]any{"runId": doc.RunID, "rows": rows},
			})
			return nil
		})
	}

	order, byShape := groupByShape(doc.Relationships)
	for _, shape := range order {
		rels := byShape[shape]
		_ = store.ChunkRange(len(rels), batchSize, func(start, end int) error {
			rows := make([]any, 0, end-start)
			for _, rel := range rels[start:end] {
				props := map[string]any{}
				if rel.Number != "" {
					props["number"] = rel.Number
				}
				rows = append(rows, map[string]any{
					"subject":    rel.SubjectID,
					"object":     rel.ObjectID,
					"properties": props,
				})
			}
			out = append(out, statement{
				query:  relationshipQuery(shape.relType, shape.subject, shape.object),
				params: map[string]any{"runId": doc.RunID, "rows": rows},
			})
			return nil
		})
	}
	return out
}
