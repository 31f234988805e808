package jsonfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
)

// Format selects the serialization of a graph document.
type Format string

const (
	// FormatGrouped writes one JSON document with entities grouped by type.
	FormatGrouped Format = "grouped"
	// FormatLines writes one JSON record per line: nodes first, then
	// relationships.
	FormatLines Format = "jsonl"
)

// ParseFormat accepts "grouped", "json" (alias of grouped), "jsonl" and
// "lines".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "grouped", "json":
		return FormatGrouped, nil
	case "jsonl", "lines", "ndjson":
		return FormatLines, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Extension returns the file extension conventionally used for the format.
func (f Format) Extension() string {
	if f == FormatLines {
		return ".jsonl"
	}
	return ".json"
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, doc *common.GraphDocument, format Format) error {
	switch format {
	case FormatGrouped:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewGroupedDocument(doc)); err != nil {
			return fmt.Errorf("failed to encode graph document: %w", err)
		}
		return nil
	case FormatLines:
		return encodeLines(w, doc)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// EncodeBytes is Encode into memory.
func EncodeBytes(doc *common.GraphDocument, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeLines(w io.Writer, doc *common.GraphDocument) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, n := range doc.Nodes() {
		if err := enc.Encode(newNodeLine(n)); err != nil {
			return fmt.Errorf("failed to encode node %d: %w", n.Identity, err)
		}
	}
	for _, rel := range doc.Relationships {
		if err := enc.Encode(newRelationshipLine(rel)); err != nil {
			return fmt.Errorf("failed to encode relationship %d -> %d: %w", rel.SubjectID, rel.ObjectID, err)
		}
	}
	return bw.Flush()
}

// DecodeGrouped reads a grouped graph document.
func DecodeGrouped(r io.Reader) (*GroupedDocument, error) {
	var doc GroupedDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode graph document: %w", err)
	}
	return &doc, nil
}

// Writer is a GraphWriter that serializes into an io.Writer.
type Writer struct {
	w      io.Writer
	format Format
	name   string
}

// NewGroupedWriter writes grouped documents to w.
func NewGroupedWriter(w io.Writer) *Writer {
	return &Writer{w: w, format: FormatGrouped, name: "json"}
}

// NewLinesWriter writes JSON-lines documents to w.
func NewLinesWriter(w io.Writer) *Writer {
	return &Writer{w: w, format: FormatLines, name: "jsonl"}
}

func (w *Writer) Name() string { return w.name }

func (w *Writer) WriteGraph(ctx context.Context, doc *common.GraphDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return Encode(w.w, doc, w.format)
}

// FileWriter writes the document to a file path, replacing it atomically.
type FileWriter struct {
	path   string
	format Format
}

func NewFileWriter(path string, format Format) *FileWriter {
	return &FileWriter{path: path, format: format}
}

func (w *FileWriter) Name() string { return "file:" + w.path }

func (w *FileWriter) WriteGraph(ctx context.Context, doc *common.GraphDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, doc, w.format); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
