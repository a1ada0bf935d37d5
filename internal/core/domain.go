package core

import (
	"sort"
	"strings"
)

// Input column names of an activity data table.
const (
	ColumnYear           = "Year"
	ColumnSector         = "Sector"
	ColumnGas            = "Gas"
	ColumnActivity       = "Activity"
	ColumnEmissionFactor = "Emission Factor"
	ColumnUnit           = "Unit"
)

// Derived column names used by the summary tables.
const (
	ColumnEmissions = "Emissions (kg)"
	ColumnChange    = "Change (%)"
)

// RequiredColumns is the exact set of columns an activity table must carry.
// Missing names are always reported in this order.
var RequiredColumns = []string{
	ColumnYear,
	ColumnSector,
	ColumnGas,
	ColumnActivity,
	ColumnEmissionFactor,
	ColumnUnit,
}

type (
	// ActivityRecord is one input row: an activity level and the factor that
	// converts it into kilograms of a gas for a sector and year.
	ActivityRecord struct {
		Year           int
		Sector         string
		Gas            string
		Activity       float64
		EmissionFactor float64
		Unit           string // display only
	}

	// Emission is an ActivityRecord with its computed emissions.
	Emission struct {
		ActivityRecord
		EmissionsKg float64
	}

	SectorTotal struct {
		Year        int     `json:"year"`
		Sector      string  `json:"sector"`
		EmissionsKg float64 `json:"emissions_kg"`
	}

	GasTotal struct {
		Year        int     `json:"year"`
		Gas         string  `json:"gas"`
		EmissionsKg float64 `json:"emissions_kg"`
	}

	// YearlyTotal holds the total for one year and the percent change against
	// the previous year present in the data.
	YearlyTotal struct {
		Year        int     `json:"year"`
		EmissionsKg float64 `json:"emissions_kg"`
		ChangePct   float64 `json:"change_pct"`
	}
)

// SchemaError reports required columns absent from an input table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// MissingColumns returns the required columns not present in header, in
// RequiredColumns order. Header names are matched exactly.
func MissingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := present[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// CheckSchema returns a *SchemaError when header lacks any required column.
func CheckSchema(header []string) error {
	if missing := MissingColumns(header); len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

func distinctSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
