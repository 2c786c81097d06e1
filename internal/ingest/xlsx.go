package ingest

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"logmerge/internal/errors"
	"logmerge/internal/table"
)

// readXLSX reads the first sheet of an Excel workbook into the same
// string table a CSV file would produce. Logger exports sometimes
// arrive re-saved as workbooks; the rest of the pipeline does not
// care.
func readXLSX(data []byte, filename string, maxRows int) (*table.Table, errors.List) {
	var diags errors.List

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		diags.Add(errors.DecodeFailure(filename, fmt.Sprintf("not a readable workbook: %v", err)))
		return nil, diags
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		diags.Add(errors.DecodeFailure(filename, "workbook has no sheets"))
		return nil, diags
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		diags.Add(errors.DecodeFailure(filename, fmt.Sprintf("reading sheet %q: %v", sheets[0], err)))
		return nil, diags
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		diags.Add(errors.DecodeFailure(filename, "workbook sheet is empty"))
		return nil, diags
	}

	return buildTable(rows, filename, maxRows)
}
