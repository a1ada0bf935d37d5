package inventory

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"ghginventory/internal/core"
)

// ErrNoRecords is returned for tables with a valid header and no data rows.
var ErrNoRecords = errors.New("no activity records")

// ParseError reports a cell that cannot be used as a grouping key.
type ParseError struct {
	Line   int // 1-based, header is line 1
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: invalid %s %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Table is a loaded activity table.
type Table struct {
	Records []core.ActivityRecord
	Preview core.Preview
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads an activity table in CSV form. The header is checked against
// the required columns before any row is converted; every column is then
// loaded as text and converted per column.
func Load(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	raw, err := csv.NewReader(br).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(raw) == 0 {
		return nil, &core.SchemaError{Missing: append([]string(nil), core.RequiredColumns...)}
	}
	if err := core.CheckSchema(raw[0]); err != nil {
		return nil, err
	}
	if len(raw) == 1 {
		return nil, ErrNoRecords
	}
	raw[0] = uniqueHeader(raw[0])

	df := dataframe.LoadRecords(raw,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("load table: %w", df.Err)
	}

	records, err := recordsFrom(df)
	if err != nil {
		return nil, err
	}
	return &Table{Records: records, Preview: previewOf(df)}, nil
}

// LoadFile opens path and loads it. A missing file yields an error that
// wraps fs.ErrNotExist and names the path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// uniqueHeader renames repeated column names to name.1, name.2 and so on,
// skipping names already present. The first occurrence keeps its name and is
// the one read.
func uniqueHeader(header []string) []string {
	original := make(map[string]struct{}, len(header))
	for _, h := range header {
		original[h] = struct{}{}
	}
	out := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, h := range header {
		name := h
		if _, dup := seen[h]; dup {
			for k := 1; ; k++ {
				name = h + "." + strconv.Itoa(k)
				_, taken := original[name]
				_, used := seen[name]
				if !taken && !used {
					break
				}
			}
		}
		seen[name] = struct{}{}
		out[i] = name
	}
	return out
}

func recordsFrom(df dataframe.DataFrame) ([]core.ActivityRecord, error) {
	years := df.Col(core.ColumnYear).Records()
	sectors := df.Col(core.ColumnSector).Records()
	gases := df.Col(core.ColumnGas).Records()
	activity := df.Col(core.ColumnActivity).Records()
	factors := df.Col(core.ColumnEmissionFactor).Records()
	units := df.Col(core.ColumnUnit).Records()

	records := make([]core.ActivityRecord, df.Nrow())
	for i := range records {
		year, err := strconv.Atoi(strings.TrimSpace(years[i]))
		if err != nil {
			return nil, &ParseError{Line: i + 2, Column: core.ColumnYear, Value: years[i], Err: err}
		}
		records[i] = core.ActivityRecord{
			Year:           year,
			Sector:         sectors[i],
			Gas:            gases[i],
			Activity:       core.ParseQuantity(activity[i]),
			EmissionFactor: core.ParseQuantity(factors[i]),
			Unit:           units[i],
		}
	}
	return records, nil
}

func previewOf(df dataframe.DataFrame) core.Preview {
	n := df.Nrow()
	if n > core.PreviewRows {
		n = core.PreviewRows
	}
	all := df.Records() // header first
	return core.Preview{Columns: df.Names(), Rows: all[1 : n+1]}
}
