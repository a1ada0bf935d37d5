package core

import (
	"sort"
	"time"
)

// Summary is the result of one pipeline run. It is never mutated after
// construction; a new run yields a new Summary.
type Summary struct {
	BySector []SectorTotal `json:"by_sector"`
	ByGas    []GasTotal    `json:"by_gas"`
	Yearly   []YearlyTotal `json:"yearly"`
}

// Years returns the distinct years of the summary in ascending order.
func (s Summary) Years() []int {
	seen := make(map[int]struct{})
	var years []int
	add := func(y int) {
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			years = append(years, y)
		}
	}
	for _, y := range s.Yearly {
		add(y.Year)
	}
	for _, r := range s.BySector {
		add(r.Year)
	}
	for _, r := range s.ByGas {
		add(r.Year)
	}
	sort.Ints(years)
	return years
}

// Sectors returns the distinct sector names, sorted.
func (s Summary) Sectors() []string {
	names := make([]string, 0, len(s.BySector))
	for _, r := range s.BySector {
		names = append(names, r.Sector)
	}
	return distinctSorted(names)
}

// Gases returns the distinct gas names, sorted.
func (s Summary) Gases() []string {
	names := make([]string, 0, len(s.ByGas))
	for _, r := range s.ByGas {
		names = append(names, r.Gas)
	}
	return distinctSorted(names)
}

// IsEmpty reports whether the summary holds no rows at all.
func (s Summary) IsEmpty() bool {
	return len(s.BySector) == 0 && len(s.ByGas) == 0 && len(s.Yearly) == 0
}

// Preview is the head of an uploaded table, kept for display.
type Preview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// PreviewRows is the number of data rows kept in a Preview.
const PreviewRows = 5

// Snapshot is a Summary together with where and when it was produced.
// The dashboard serves exactly one Snapshot at a time.
type Snapshot struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Records   int       `json:"records"`
	Summary   Summary   `json:"summary"`
	Preview   *Preview  `json:"preview,omitempty"`
}
