package csv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
)

// ErrEmpty is returned for content without a header record.
var ErrEmpty = errors.New("CSV file is empty or contains no valid data")

// ParseRows parses CSV content with a header record into rows. Quoted
// fields, ragged records and a leading UTF-8 BOM are accepted.
func ParseRows(content []byte) ([]common.Row, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var header []string
	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if header == nil {
			header = normalizeHeader(record)
			continue
		}
		records = append(records, record)
	}

	if header == nil {
		return nil, ErrEmpty
	}
	return common.RowsFromTable(header, records), nil
}

func normalizeHeader(record []string) []string {
	header := make([]string, len(record))
	for i, name := range record {
		header[i] = strings.TrimSpace(name)
	}
	return header
}
