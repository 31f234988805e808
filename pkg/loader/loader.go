package loader

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
	"github.com/OFFIS-RIT/catalog-graph/pkg/loader/csv"
	"github.com/OFFIS-RIT/catalog-graph/pkg/loader/excel"

	"golang.org/x/sync/singleflight"
)

type GraphFileType string

const (
	GraphFileTypeCSV   GraphFileType = "csv"
	GraphFileTypeExcel GraphFileType = "xlsx"
)

// GraphFile is a catalog table that can be turned into rows. The raw bytes
// are fetched through the associated GraphFileLoader.
type GraphFile struct {
	ID       string
	FilePath string
	FileType GraphFileType
	Loader   GraphFileLoader
}

// NewGraphFileParams defines the input parameters for creating a GraphFile.
type NewGraphFileParams struct {
	ID       string
	FilePath string
	Loader   GraphFileLoader
}

// NewGraphCSVFile creates a new GraphFile of type GraphFileTypeCSV.
func NewGraphCSVFile(params NewGraphFileParams) GraphFile {
	return GraphFile{
		ID:       params.ID,
		FilePath: params.FilePath,
		FileType: GraphFileTypeCSV,
		Loader:   params.Loader,
	}
}

// NewGraphExcelFile creates a new GraphFile of type GraphFileTypeExcel.
func NewGraphExcelFile(params NewGraphFileParams) GraphFile {
	return GraphFile{
		ID:       params.ID,
		FilePath: params.FilePath,
		FileType: GraphFileTypeExcel,
		Loader:   params.Loader,
	}
}

// NewGraphFile picks the file type from the extension of params.FilePath.
// Anything that is not an Excel workbook is read as CSV.
func NewGraphFile(params NewGraphFileParams) GraphFile {
	if DetectFileType(params.FilePath) == GraphFileTypeExcel {
		return NewGraphExcelFile(params)
	}
	return NewGraphCSVFile(params)
}

// DetectFileType maps a file name to its GraphFileType.
func DetectFileType(path string) GraphFileType {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "xlsx", "xlsm":
		return GraphFileTypeExcel
	default:
		return GraphFileTypeCSV
	}
}

// GetContent retrieves the raw file content using its Loader.
func (f *GraphFile) GetContent(ctx context.Context) ([]byte, error) {
	if f.Loader == nil {
		return nil, fmt.Errorf("no loader configured for %s", f.FilePath)
	}
	return f.Loader.GetFileContent(ctx, *f)
}

// GraphFileLoader loads the contents of a GraphFile from disk, object
// storage or any other source.
type GraphFileLoader interface {
	GetFileContent(ctx context.Context, file GraphFile) ([]byte, error)
}

// CacheKey identifies a file in the loader caches.
func CacheKey(file GraphFile) string {
	return file.ID + ":" + file.FilePath
}

// ContentCache memoizes file contents per CacheKey. Concurrent misses for
// the same key share one fetch.
type ContentCache struct {
	mu    sync.RWMutex
	cache map[string][]byte
	group singleflight.Group
}

func NewContentCache() *ContentCache {
	return &ContentCache{cache: make(map[string][]byte)}
}

func (c *ContentCache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.cache[key]
	return b, ok
}

// Load returns the cached content of file or calls fetch to fill the cache.
func (c *ContentCache) Load(file GraphFile, fetch func() ([]byte, error)) ([]byte, error) {
	key := CacheKey(file)
	if cached, ok := c.get(key); ok {
		return cached, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		if cached, ok := c.get(key); ok {
			return cached, nil
		}
		content, err := fetch()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cache[key] = content
		c.mu.Unlock()
		return content, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// RowSource yields catalog rows in input order. Next returns io.EOF after
// the last row; any other error is fatal for the run.
type RowSource interface {
	Next(ctx context.Context) (common.Row, error)
}

// SliceSource is a RowSource over rows already in memory.
type SliceSource struct {
	rows []common.Row
	pos  int
}

func NewSliceSource(rows []common.Row) *SliceSource {
	return &SliceSource{rows: rows}
}

func (s *SliceSource) Next(ctx context.Context) (common.Row, error) {
	if err := ctx.Err(); err != nil {
		return common.Row{}, err
	}
	if s.pos >= len(s.rows) {
		return common.Row{}, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

// ParseRows decodes raw file content of the given type into rows.
func ParseRows(content []byte, fileType GraphFileType) ([]common.Row, error) {
	switch fileType {
	case GraphFileTypeCSV:
		return csv.ParseRows(content)
	case GraphFileTypeExcel:
		return excel.ParseRows(content)
	default:
		return nil, fmt.Errorf("unsupported file type %q", fileType)
	}
}

// RowsFromFile loads file and returns a RowSource over its rows.
func RowsFromFile(ctx context.Context, file GraphFile) (*SliceSource, error) {
	content, err := file.GetContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file.FilePath, err)
	}
	rows, err := ParseRows(content, file.FileType)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.FilePath, err)
	}
	return NewSliceSource(rows), nil
}
