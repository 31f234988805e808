package pgx

import (
	"context"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

var (
	nodeColumns         = []string{"run_id", "identity", "label", "node_key", "properties"}
	relationshipColumns = []string{"run_id", "position", "type", "subject", "subject_type", "object", "object_type", "number"}
)

// GraphDBStorage writes graph documents into PostgreSQL. Every run is stored
// under its run ID; writing the same run again replaces it.
type GraphDBStorage struct {
	conn pgxIConn
}

// NewGraphDBStorageWithConnection creates a GraphDBStorage on an existing
// connection or pool. The schema must already be migrated.
func NewGraphDBStorageWithConnection(conn pgxIConn) *GraphDBStorage {
	return &GraphDBStorage{conn: conn}
}

// NewGraphDBStorageParams defines the parameters of NewGraphDBStorage.
type NewGraphDBStorageParams struct {
	DatabaseURL string
	SkipMigrate bool
}

// NewGraphDBStorage migrates the schema and opens a connection pool. The
// returned close function releases the pool.
func NewGraphDBStorage(ctx context.Context, params NewGraphDBStorageParams) (*GraphDBStorage, func(), error) {
	if !params.SkipMigrate {
		if err := Migrate(params.DatabaseURL); err != nil {
			return nil, nil, err
		}
	}

	pool, err := pgxpool.New(ctx, params.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewGraphDBStorageWithConnection(pool), pool.Close, nil
}

func (s *GraphDBStorage) Name() string { return "postgres" }

// WriteGraph stores the document in one transaction.
func (s *GraphDBStorage) WriteGraph(ctx context.Context, doc *common.GraphDocument) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM graph_runs WHERE run_id = $1`, doc.RunID); err != nil {
		return fmt.Errorf("failed to clear run: %w", err)
	}

	collection := ""
	if c := doc.Groups[common.KindCollection]; len(c) > 0 {
		collection = c[0].Entity.Label()
	}
	nodes := nodeRows(doc)
	rels := relationshipRows(doc)

	_, err = tx.Exec(ctx,
		`INSERT INTO graph_runs (run_id, collection, node_count, relationship_count) VALUES ($1, $2, $3, $4)`,
		doc.RunID, collection, len(nodes), len(rels),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	logger.Debug("[Store] Copying nodes", "run_id", doc.RunID, "count", len(nodes))
	if _, err := tx.CopyFrom(ctx, pgxv5.Identifier{"graph_nodes"}, nodeColumns, pgxv5.CopyFromRows(nodes)); err != nil {
		return fmt.Errorf("failed to copy nodes: %w", err)
	}

	logger.Debug("[Store] Copying relationships", "run_id", doc.RunID, "count", len(rels))
	if _, err := tx.CopyFrom(ctx, pgxv5.Identifier{"graph_relationships"}, relationshipColumns, pgxv5.CopyFromRows(rels)); err != nil {
		return fmt.Errorf("failed to copy relationships: %w", err)
	}

	return tx.Commit(ctx)
}

func nodeRows(doc *common.GraphDocument) [][]any {
	nodes := doc.Nodes()
	rows := make([][]any, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []any{
			doc.RunID,
			n.Identity,
			string(n.Entity.Kind),
			sanitizeText(n.Entity.Label()),
			sanitizeProperties(n.Entity.Properties()),
		})
	}
	return rows
}

func relationshipRows(doc *common.GraphDocument) [][]any {
	rows := make([][]any, 0, len(doc.Relationships))
	for i, rel := range doc.Relationships {
		var number *string
		if rel.Number != "" {
			n := sanitizeText(rel.Number)
			number = &n
		}
		rows = append(rows, []any{
			doc.RunID,
			int32(i),
			rel.Type,
			rel.SubjectID,
			string(rel.SubjectType),
			rel.ObjectID,
			string(rel.ObjectType),
			number,
		})
	}
	return rows
}

// sanitizeText drops NUL bytes and invalid UTF-8, which PostgreSQL text and
// jsonb values cannot hold.
func sanitizeText(value string) string {
	if value == "" {
		return value
	}
	return strings.ReplaceAll(strings.ToValidUTF8(value, ""), "\x00", "")
}

func sanitizeProperties(props map[string]any) map[string]any {
	for k, v := range props {
		if s, ok := v.(string); ok {
			props[k] = sanitizeText(s)
		}
	}
	return props
}
