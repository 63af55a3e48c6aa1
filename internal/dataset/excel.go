package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

func readExcel(path, sheet, columnName string) (*column, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmpty
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", ErrMissingColumn, sheet)
	}
	idx := columnIndex(rows[0], columnName)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q in sheet %q", ErrMissingColumn, columnName, sheet)
	}

	col := &column{}
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}
		// GetRows drops trailing empty cells.
		if idx >= len(row) {
			return nil, fmt.Errorf("%w: row %d: no value in column %q", ErrInvalidCluster, line, columnName)
		}
		col.add(row[idx], line)
	}
	return col, nil
}
