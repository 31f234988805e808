package csv

import (
	"errors"
	"testing"
)

func TestParseRows(t *testing.T) {
	content := "\xef\xbb\xbf IdNum ,Title,Creator\n" +
		"1,\"Letter, Home\",Dr. John A. Smith\n" +
		"\n" +
		",,\n" +
		"2,Vase\n" +
		"3,Bowl,Jane Doe,extra\n"

	rows, err := ParseRows([]byte(content))
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	tests := []struct {
		row    int
		column string
		want   string
	}{
		{0, "IdNum", "1"},
		{0, "title", "Letter, Home"},
		{0, "CREATOR", "Dr. John A. Smith"},
		{1, "Title", "Vase"},
		{1, "Creator", ""},
		{2, "Creator", "Jane Doe"},
	}
	for _, tt := range tests {
		if got := rows[tt.row].Get(tt.column); got != tt.want {
			t.Fatalf("rows[%d].Get(%q) = %q, want %q", tt.row, tt.column, got, tt.want)
		}
	}
	if rows[2].Len() != 3 {
		t.Fatalf("rows[2].Len() = %d, want 3", rows[2].Len())
	}
}

func TestParseRowsEmpty(t *testing.T) {
	for _, content := range []string{"", "\xef\xbb\xbf"} {
		if _, err := ParseRows([]byte(content)); !errors.Is(err, ErrEmpty) {
			t.Fatalf("ParseRows(%q) error = %v, want ErrEmpty", content, err)
		}
	}
}

func TestParseRowsHeaderOnly(t *testing.T) {
	rows, err := ParseRows([]byte("IdNum,Title\n"))
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
}
