package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

var columnWidths = []float64{14, 40, 18, 14, 14}

// WriteXLSX writes a workbook with one worksheet per sheet, numbers stored as
// numeric cells.
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", s.Name, err)
		}

		if err := writeSheet(f, s); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func writeSheet(f *excelize.File, s Sheet) error {
	for col, h := range s.Header {
		if err := setCell(f, s.Name, col, 0, h); err != nil {
			return err
		}

		if col < len(columnWidths) {
			name, _ := excelize.ColumnNumberToName(col + 1)
			_ = f.SetColWidth(s.Name, name, name, columnWidths[col])
		}
	}

	for r, row := range s.Rows {
		for col, v := range row {
			if v == nil {
				continue
			}

			if err := setCell(f, s.Name, col, r+1, v); err != nil {
				return err
			}
		}
	}

	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}

	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("setting %s!%s: %w", sheet, cell, err)
	}

	return nil
}
