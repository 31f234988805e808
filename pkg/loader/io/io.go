package io

import (
	"context"
	"os"

	"github.com/OFFIS-RIT/catalog-graph/pkg/loader"
)

// IOGraphFileLoader loads files directly from the local filesystem with caching.
type IOGraphFileLoader struct {
	cache *loader.ContentCache
}

// NewIOGraphFileLoader creates a new filesystem-based file loader.
func NewIOGraphFileLoader() *IOGraphFileLoader {
	return &IOGraphFileLoader{cache: loader.NewContentCache()}
}

// GetFileContent reads the file content from the filesystem. Results are cached.
func (l *IOGraphFileLoader) GetFileContent(ctx context.Context, file loader.GraphFile) ([]byte, error) {
	return l.cache.Load(file, func() ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return os.ReadFile(file.FilePath)
	})
}
