package sinks

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/OFFIS-RIT/catalog-graph/internal/config"
	"github.com/OFFIS-RIT/catalog-graph/pkg/loader"
	ioloader "github.com/OFFIS-RIT/catalog-graph/pkg/loader/io"
	"github.com/OFFIS-RIT/catalog-graph/pkg/store/jsonfile"
)

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		in         string
		wantBucket string
		wantKey    string
		wantOK     bool
	}{
		{"s3://catalogs/in/catalog.csv", "catalogs", "in/catalog.csv", true},
		{"s3://catalogs/", "", "", false},
		{"s3://catalogs", "", "", false},
		{"catalog.csv", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			bucket, key, ok := ParseS3URL(tt.in)
			if bucket != tt.wantBucket || key != tt.wantKey || ok != tt.wantOK {
				t.Fatalf("ParseS3URL(%q) = %q, %q, %v", tt.in, bucket, key, ok)
			}
		})
	}
}

func TestInputFile(t *testing.T) {
	file, err := InputFile("data/catalog.xlsx", nil)
	if err != nil {
		t.Fatalf("InputFile() error = %v", err)
	}
	if file.FileType != loader.GraphFileTypeExcel {
		t.Fatalf("FileType = %s, want xlsx", file.FileType)
	}
	if _, ok := file.Loader.(*ioloader.IOGraphFileLoader); !ok {
		t.Fatalf("Loader = %T, want filesystem loader", file.Loader)
	}

	if _, err := InputFile("s3://catalogs/in.csv", nil); err == nil {
		t.Fatalf("InputFile() without S3 client succeeded")
	}
}

func TestOutputWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	tests := []struct {
		target   string
		format   jsonfile.Format
		wantName string
		wantErr  bool
	}{
		{"", jsonfile.FormatGrouped, "json", false},
		{"-", jsonfile.FormatLines, "jsonl", false},
		{path, jsonfile.FormatGrouped, "file:" + path, false},
		{"s3://bucket/out.json", jsonfile.FormatGrouped, "", true},
		{"s3://bucket", jsonfile.FormatGrouped, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w, err := OutputWriter(tt.target, tt.format, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OutputWriter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && w.Name() != tt.wantName {
				t.Fatalf("Name() = %q, want %q", w.Name(), tt.wantName)
			}
		})
	}
}

func TestOpenWithoutSinks(t *testing.T) {
	writers, closeFn, err := Open(context.Background(), &config.Config{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer closeFn()
	if len(writers) != 0 {
		t.Fatalf("writers = %d, want 0", len(writers))
	}
}

func TestNeedsS3(t *testing.T) {
	if NeedsS3("in.csv", "-") {
		t.Fatalf("NeedsS3() = true for local paths")
	}
	if !NeedsS3("in.csv", "s3://bucket/out.json") {
		t.Fatalf("NeedsS3() = false for s3 output")
	}
}
