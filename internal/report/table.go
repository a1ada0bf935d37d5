// Package report serializes inventory summaries: pivot CSV files, an Excel
// workbook, a PDF summary, PNG charts and the zip bundle that packages them.
package report

import (
	"sort"
	"strconv"

	"ghginventory/internal/core"
)

// Output file names.
const (
	SectorCSV    = "emissions_by_sector.csv"
	GasCSV       = "emissions_by_gas.csv"
	YearlyCSV    = "yearly_emissions_changes.csv"
	WorkbookName = "ghg_inventory_report.xlsx"
	PDFName      = "ghg_yearly_summary.pdf"
	BundleName   = "processed_reports.zip"
)

// Sheet names used by the workbook and the Google Sheets sink.
const (
	SheetBySector = "By Sector"
	SheetByGas    = "By Gas"
	SheetYearly   = "Yearly Changes"
)

// Table is a rectangular rendering of one summary. A nil cell is a
// combination that was never observed; it is written blank, never as zero.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Strings renders every cell as text: ints in decimal, floats via
// core.FormatQuantity, nil as the empty string.
func (t Table) Strings() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header)
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = formatCell(v)
		}
		out = append(out, rec)
	}
	return out
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int:
		return strconv.Itoa(x)
	case float64:
		return core.FormatQuantity(x)
	case string:
		return x
	default:
		return ""
	}
}

// pivot lays out sparse (year, key) values as one row per year and one
// column per key.
func pivot(name string, years []int, keys []string, values map[int]map[string]float64) Table {
	t := Table{Name: name, Header: append([]string{core.ColumnYear}, keys...)}
	for _, y := range years {
		row := make([]any, len(keys)+1)
		row[0] = y
		for i, k := range keys {
			if v, ok := values[y][k]; ok {
				row[i+1] = v
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func yearsOf[T any](rows []T, year func(T) int) []int {
	var years []int
	seen := make(map[int]struct{})
	for _, r := range rows {
		y := year(r)
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// SectorPivot renders the sector summary as Year rows and Sector columns.
func SectorPivot(s core.Summary) Table {
	values := make(map[int]map[string]float64)
	for _, r := range s.BySector {
		if values[r.Year] == nil {
			values[r.Year] = make(map[string]float64)
		}
		values[r.Year][r.Sector] = r.EmissionsKg
	}
	years := yearsOf(s.BySector, func(r core.SectorTotal) int { return r.Year })
	return pivot(SheetBySector, years, s.Sectors(), values)
}

// GasPivot renders the gas summary as Year rows and Gas columns.
func GasPivot(s core.Summary) Table {
	values := make(map[int]map[string]float64)
	for _, r := range s.ByGas {
		if values[r.Year] == nil {
			values[r.Year] = make(map[string]float64)
		}
		values[r.Year][r.Gas] = r.EmissionsKg
	}
	years := yearsOf(s.ByGas, func(r core.GasTotal) int { return r.Year })
	return pivot(SheetByGas, years, s.Gases(), values)
}

// SectorLong renders the sector summary one (Year, Sector) pair per row.
func SectorLong(s core.Summary) Table {
	t := Table{Name: SheetBySector, Header: []string{core.ColumnYear, core.ColumnSector, core.ColumnEmissions}}
	for _, r := range s.BySector {
		t.Rows = append(t.Rows, []any{r.Year, r.Sector, r.EmissionsKg})
	}
	return t
}

// GasLong renders the gas summary one (Year, Gas) pair per row.
func GasLong(s core.Summary) Table {
	t := Table{Name: SheetByGas, Header: []string{core.ColumnYear, core.ColumnGas, core.ColumnEmissions}}
	for _, r := range s.ByGas {
		t.Rows = append(t.Rows, []any{r.Year, r.Gas, r.EmissionsKg})
	}
	return t
}

// YearlyTable renders yearly totals with their percent change.
func YearlyTable(s core.Summary) Table {
	t := Table{Name: SheetYearly, Header: []string{core.ColumnYear, core.ColumnEmissions, core.ColumnChange}}
	for _, y := range s.Yearly {
		t.Rows = append(t.Rows, []any{y.Year, y.EmissionsKg, y.ChangePct})
	}
	return t
}
