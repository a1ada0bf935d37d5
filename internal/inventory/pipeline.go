// Package inventory turns activity data into emissions summaries.
//
// The pipeline is a single pass: ComputeEmissions multiplies each record's
// activity by its emission factor, then three independent reductions group the
// results by (year, sector), (year, gas) and year. Build runs all of it and
// returns an immutable core.Summary owned by the caller.
package inventory

import (
	"sort"

	"ghginventory/internal/core"
)

// ComputeEmissions derives Emissions (kg) = Activity × Emission Factor for
// every record. Non-numeric inputs are already NaN and stay NaN.
func ComputeEmissions(records []core.ActivityRecord) []core.Emission {
	out := make([]core.Emission, len(records))
	for i, r := range records {
		out[i] = core.Emission{
			ActivityRecord: r,
			EmissionsKg:    r.Activity * r.EmissionFactor,
		}
	}
	return out
}

type yearKey struct {
	year int
	name string
}

// sumBy sums emissions per key, in input order, and returns the keys sorted
// by year then name.
func sumBy(emissions []core.Emission, name func(core.Emission) string) ([]yearKey, map[yearKey]float64) {
	sums := make(map[yearKey]float64)
	keys := make([]yearKey, 0)
	for _, e := range emissions {
		k := yearKey{year: e.Year, name: name(e)}
		if _, ok := sums[k]; !ok {
			keys = append(keys, k)
		}
		sums[k] += e.EmissionsKg
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].name < keys[j].name
	})
	return keys, sums
}

// AggregateBySector sums emissions per observed (Year, Sector) pair.
// Pairs absent from the input are absent from the result.
func AggregateBySector(emissions []core.Emission) []core.SectorTotal {
	keys, sums := sumBy(emissions, func(e core.Emission) string { return e.Sector })
	out := make([]core.SectorTotal, len(keys))
	for i, k := range keys {
		out[i] = core.SectorTotal{Year: k.year, Sector: k.name, EmissionsKg: sums[k]}
	}
	return out
}

// AggregateByGas sums emissions per observed (Year, Gas) pair.
func AggregateByGas(emissions []core.Emission) []core.GasTotal {
	keys, sums := sumBy(emissions, func(e core.Emission) string { return e.Gas })
	out := make([]core.GasTotal, len(keys))
	for i, k := range keys {
		out[i] = core.GasTotal{Year: k.year, Gas: k.name, EmissionsKg: sums[k]}
	}
	return out
}

// AggregateYearly sums emissions per year, ascending, and fills ChangePct
// against the previous year in that sequence. Gaps between years are not
// filled: after 2015 comes whichever year is next in the data. The first year
// has a change of 0.
func AggregateYearly(emissions []core.Emission) []core.YearlyTotal {
	keys, sums := sumBy(emissions, func(core.Emission) string { return "" })
	out := make([]core.YearlyTotal, len(keys))
	for i, k := range keys {
		out[i] = core.YearlyTotal{Year: k.year, EmissionsKg: sums[k]}
	}
	return withChanges(out)
}

// withChanges computes percent change in place over totals sorted by year.
func withChanges(totals []core.YearlyTotal) []core.YearlyTotal {
	for i := range totals {
		if i == 0 {
			totals[i].ChangePct = 0
			continue
		}
		prev := totals[i-1].EmissionsKg
		totals[i].ChangePct = (totals[i].EmissionsKg - prev) / prev * 100
	}
	return totals
}

// Build runs the whole pipeline over records.
func Build(records []core.ActivityRecord) core.Summary {
	emissions := ComputeEmissions(records)
	return core.Summary{
		BySector: AggregateBySector(emissions),
		ByGas:    AggregateByGas(emissions),
		Yearly:   AggregateYearly(emissions),
	}
}
