package sinks

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/OFFIS-RIT/catalog-graph/internal/config"
	"github.com/OFFIS-RIT/catalog-graph/internal/storage"
	"github.com/OFFIS-RIT/catalog-graph/internal/util"
	"github.com/OFFIS-RIT/catalog-graph/pkg/loader"
	ioloader "github.com/OFFIS-RIT/catalog-graph/pkg/loader/io"
	s3loader "github.com/OFFIS-RIT/catalog-graph/pkg/loader/s3"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store/jsonfile"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store/neo4j"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store/pgx"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const connectTries = 3

// Open connects the database sinks configured in cfg. The returned close
// function releases every connection and is never nil.
func Open(ctx context.Context, cfg *config.Config) ([]store.GraphWriter, func(), error) {
	var writers []store.GraphWriter
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.DatabaseURL != "" {
		type pgSink struct {
			storage *pgx.GraphDBStorage
			close   func()
		}
		sink, err := util.RetryWithContext(ctx, connectTries, time.Second, func(ctx context.Context) (pgSink, error) {
			s, closeFn, err := pgx.NewGraphDBStorage(ctx, pgx.NewGraphDBStorageParams{
				DatabaseURL: cfg.DatabaseURL,
			})
			if err != nil {
				logger.Warn("[Store] Failed to open postgres sink", "err", err)
			}
			return pgSink{storage: s, close: closeFn}, err
		})
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		writers = append(writers, sink.storage)
		closers = append(closers, sink.close)
	}

	if cfg.Neo4j.URL != "" {
		sink, err := util.RetryWithContext(ctx, connectTries, time.Second, func(ctx context.Context) (*neo4j.GraphNeo4jStorage, error) {
			s, err := neo4j.NewGraphNeo4jStorage(ctx, neo4j.NewGraphNeo4jStorageParams{
				URL:      cfg.Neo4j.URL,
				Username: cfg.Neo4j.User,
				Password: cfg.Neo4j.Password,
				Database: cfg.Neo4j.Database,
			})
			if err != nil {
				logger.Warn("[Store] Failed to open neo4j sink", "err", err)
			}
			return s, err
		})
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		writers = append(writers, sink)
		closers = append(closers, func() {
			if err := sink.Close(context.Background()); err != nil {
				logger.Error("[Store] Failed to close neo4j driver", "err", err)
			}
		})
	}

	return writers, closeAll, nil
}

// ParseS3URL splits s3://bucket/key into its parts.
func ParseS3URL(target string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(target, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// InputFile resolves an input path. s3:// URLs are read through client, every
// other path from the local filesystem.
func InputFile(target string, client *s3.Client) (loader.GraphFile, error) {
	if bucket, key, ok := ParseS3URL(target); ok {
		if client == nil {
			return loader.GraphFile{}, fmt.Errorf("no S3 client configured for %s", target)
		}
		return loader.NewGraphFile(loader.NewGraphFileParams{
			ID:       target,
			FilePath: key,
			Loader:   s3loader.NewS3GraphFileLoaderWithClient(bucket, client),
		}), nil
	}
	return loader.NewGraphFile(loader.NewGraphFileParams{
		ID:       target,
		FilePath: target,
		Loader:   ioloader.NewIOGraphFileLoader(),
	}), nil
}

// OutputWriter resolves an output path. "" and "-" write to stdout and
// s3:// URLs upload through client.
func OutputWriter(target string, format jsonfile.Format, client *s3.Client) (store.GraphWriter, error) {
	switch {
	case target == "" || target == "-":
		if format == jsonfile.FormatLines {
			return jsonfile.NewLinesWriter(os.Stdout), nil
		}
		return jsonfile.NewGroupedWriter(os.Stdout), nil
	case strings.HasPrefix(target, "s3://"):
		bucket, key, ok := ParseS3URL(target)
		if !ok {
			return nil, fmt.Errorf("invalid S3 URL %q", target)
		}
		if client == nil {
			return nil, fmt.Errorf("no S3 client configured for %s", target)
		}
		return storage.NewGraphObjectWriter(client, bucket, key, format), nil
	default:
		return jsonfile.NewFileWriter(target, format), nil
	}
}

// NeedsS3 reports whether any of the paths is an s3:// URL.
func NeedsS3(targets ...string) bool {
	for _, t := range targets {
		if strings.HasPrefix(t, "s3://") {
			return true
		}
	}
	return false
}
