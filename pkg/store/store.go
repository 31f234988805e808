package store

import (
	"context"
	"fmt"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
	"github.com/OFFIS-RIT/catalog-graph/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// GraphWriter persists a finished graph document. Implementations write files,
// databases or object storage.
type GraphWriter interface {
	WriteGraph(ctx context.Context, doc *common.GraphDocument) error
	Name() string
}

// WriteAll commits doc to every sink concurrently and writes output once all
// sinks succeeded. The first failing sink cancels the others and output is
// left untouched. The document is only read.
func WriteAll(ctx context.Context, doc *common.GraphDocument, output GraphWriter, sinks ...GraphWriter) error {
	eg, gCtx := errgroup.WithContext(ctx)
	for _, w := range sinks {
		if w == nil {
			continue
		}
		eg.Go(func() error {
			return writeGraph(gCtx, w, doc)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if output == nil {
		return nil
	}
	return writeGraph(ctx, output, doc)
}

func writeGraph(ctx context.Context, w GraphWriter, doc *common.GraphDocument) error {
	logger.Debug("[Store] Writing graph", "writer", w.Name(), "run_id", doc.RunID)
	if err := w.WriteGraph(ctx, doc); err != nil {
		return fmt.Errorf("%s: %w", w.Name(), err)
	}
	logger.Info("[Store] Graph written", "writer", w.Name(), "run_id", doc.RunID)
	return nil
}

// ChunkRange calls fn for consecutive [start, end) windows of at most
// chunkSize elements.
func ChunkRange(total, chunkSize int, fn func(start, end int) error) error {
	if total <= 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = total
	}
	for start := 0; start < total; start += chunkSize {
		end := min(start+chunkSize, total)
		if err := fn(start, end); err != nil {
			return err
		}
	}
	return nil
}
