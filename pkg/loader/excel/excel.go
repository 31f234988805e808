package excel

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/OFFIS-RIT/catalog-graph/pkg/common"
)

// ErrNoSheet is returned for workbooks without any sheet data.
var ErrNoSheet = errors.New("no data found in XLSX")

// ParseRows reads the first non-empty sheet of an XLSX workbook. Its first
// row is the header.
func ParseRows(content []byte) ([]common.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("opening XLSX: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		header := make([]string, len(rows[0]))
		for i, name := range rows[0] {
			header[i] = strings.TrimSpace(name)
		}
		return common.RowsFromTable(header, rows[1:]), nil
	}
	return nil, ErrNoSheet
}
