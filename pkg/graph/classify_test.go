package graph

import (
	"errors"
	"testing"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		in      ClassifyInput
		want    common.EntityKind
		wantErr error
	}{
		{
			name: "serial number makes a document",
			in:   ClassifyInput{Title: "Letter Home", SerialNum: "S1"},
			want: common.KindDocument,
		},
		{
			name: "toc makes a document",
			in:   ClassifyInput{Title: "Manual", ToC: "1. Intro"},
			want: common.KindDocument,
		},
		{
			name: "bibliographic fields win over part number",
			in:   ClassifyInput{Title: "Manual", BibCit: "Vol. 2", PartNum: "A-12"},
			want: common.KindDocument,
		},
		{
			name: "part number makes an item",
			in:   ClassifyInput{Title: "Pin", PartNum: "12"},
			want: common.KindItem,
		},
		{
			name: "single digit part number is an artifact",
			in:   ClassifyInput{Title: "Pin", PartNum: "7"},
			want: common.KindArtifact,
		},
		{
			name: "no distinguishing fields",
			in:   ClassifyInput{Title: "Vase"},
			want: common.KindArtifact,
		},
		{
			name:    "missing title",
			in:      ClassifyInput{SerialNum: "S1"},
			wantErr: ErrMissingTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Classify() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyInputFromRowNormalizes(t *testing.T) {
	row := common.NewRow(map[string]string{
		"title":     " Vase ",
		"SERIALNUM": "None",
		"PartNum":   " 42 ",
	})

	got := classifyInputFromRow(row)
	want := ClassifyInput{Title: "Vase", PartNum: "42"}
	if got != want {
		t.Fatalf("classifyInputFromRow() = %+v, want %+v", got, want)
	}
}
