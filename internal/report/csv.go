package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"ghginventory/internal/core"
)

// WriteCSV writes t as CSV.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Strings()); err != nil {
		return fmt.Errorf("write %s: %w", t.Name, err)
	}
	return nil
}

// WriteOutputs writes the three summary files into dir, creating it if
// needed. Files are written concurrently; the first failure is returned.
func WriteOutputs(ctx context.Context, dir string, s core.Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := map[string]Table{
		SectorCSV: SectorPivot(s),
		GasCSV:    GasPivot(s),
		YearlyCSV: YearlyTable(s),
	}

	g, ctx := errgroup.WithContext(ctx)
	for name, table := range files {
		name, table := name, table
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeFile(filepath.Join(dir, name), table)
		})
	}
	return g.Wait()
}

func writeFile(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadOutputs loads a summary previously written by WriteOutputs. Blank
// pivot cells are treated as unobserved combinations.
func ReadOutputs(dir string) (core.Summary, error) {
	var s core.Summary

	sectors, err := readPivot(filepath.Join(dir, SectorCSV))
	if err != nil {
		return s, err
	}
	for _, c := range sectors {
		s.BySector = append(s.BySector, core.SectorTotal{Year: c.year, Sector: c.key, EmissionsKg: c.value})
	}

	gases, err := readPivot(filepath.Join(dir, GasCSV))
	if err != nil {
		return s, err
	}
	for _, c := range gases {
		s.ByGas = append(s.ByGas, core.GasTotal{Year: c.year, Gas: c.key, EmissionsKg: c.value})
	}

	s.Yearly, err = readYearly(filepath.Join(dir, YearlyCSV))
	if err != nil {
		return s, err
	}
	return s, nil
}

type pivotCell struct {
	year  int
	key   string
	value float64
}

func readRecords(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 || len(records[0]) == 0 || records[0][0] != core.ColumnYear {
		return nil, fmt.Errorf("read %s: first column must be %q", path, core.ColumnYear)
	}
	return records, nil
}

// readPivot returns the non-blank cells of a pivot file, row by row, columns
// sorted by name to match the in-memory ordering.
func readPivot(path string) ([]pivotCell, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	header := records[0]
	order := make([]int, 0, len(header)-1)
	for i := 1; i < len(header); i++ {
		order = append(order, i)
	}
	sort.Slice(order, func(a, b int) bool { return header[order[a]] < header[order[b]] })

	var cells []pivotCell
	for line, rec := range records[1:] {
		year, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid year %q", path, line+2, rec[0])
		}
		for _, i := range order {
			if strings.TrimSpace(rec[i]) == "" {
				continue
			}
			cells = append(cells, pivotCell{year: year, key: header[i], value: core.ParseQuantity(rec[i])})
		}
	}
	return cells, nil
}

func readYearly(path string) ([]core.YearlyTotal, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records[0]) < 3 {
		return nil, fmt.Errorf("read %s: expected columns %s, %s, %s", path, core.ColumnYear, core.ColumnEmissions, core.ColumnChange)
	}
	var out []core.YearlyTotal
	for line, rec := range records[1:] {
		year, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid year %q", path, line+2, rec[0])
		}
		// Older outputs leave the first year's change blank.
		change := 0.0
		if strings.TrimSpace(rec[2]) != "" {
			change = core.ParseQuantity(rec[2])
		}
		out = append(out, core.YearlyTotal{Year: year, EmissionsKg: core.ParseQuantity(rec[1]), ChangePct: change})
	}
	return out, nil
}
