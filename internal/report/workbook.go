package report

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"ghginventory/internal/core"
)

// WorkbookTables returns the sheets of the Excel report, in order.
func WorkbookTables(s core.Summary) []Table {
	return []Table{SectorLong(s), GasLong(s), YearlyTable(s)}
}

// WriteWorkbook writes an .xlsx file with one sheet per summary table.
func WriteWorkbook(w io.Writer, s core.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range WorkbookTables(s) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("create sheet %s: %w", t.Name, err)
		}
		if err := fillSheet(f, t); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func fillSheet(f *excelize.File, t Table) error {
	for col, h := range t.Header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(t.Name, cell, h); err != nil {
			return fmt.Errorf("sheet %s header: %w", t.Name, err)
		}
	}
	for r, row := range t.Rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			// excelize cannot store NaN as a number.
			if x, ok := v.(float64); ok && (math.IsNaN(x) || math.IsInf(x, 0)) {
				v = core.FormatQuantity(x)
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(t.Name, cell, v); err != nil {
				return fmt.Errorf("sheet %s %s: %w", t.Name, cell, err)
			}
		}
	}
	last, _ := excelize.ColumnNumberToName(len(t.Header))
	if err := f.SetColWidth(t.Name, "A", last, 18); err != nil {
		return fmt.Errorf("sheet %s widths: %w", t.Name, err)
	}
	return nil
}
