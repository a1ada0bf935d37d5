package core

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestSummaryJSONNonFinite(t *testing.T) {
	s := Summary{
		BySector: []SectorTotal{{Year: 2015, Sector: "Energy", EmissionsKg: math.NaN()}},
		ByGas:    []GasTotal{{Year: 2015, Gas: "CO2", EmissionsKg: 12.5}},
		Yearly: []YearlyTotal{
			{Year: 2015, EmissionsKg: 0, ChangePct: 0},
			{Year: 2016, EmissionsKg: 10, ChangePct: math.Inf(1)},
		},
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(b)
	for _, want := range []string{`"emissions_kg":"NaN"`, `"change_pct":"+Inf"`, `"emissions_kg":12.5`} {
		if !strings.Contains(out, want) {
			t.Errorf("Marshal() = %s, missing %s", out, want)
		}
	}

	var got Summary
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !math.IsNaN(got.BySector[0].EmissionsKg) {
		t.Errorf("sector total = %v, want NaN", got.BySector[0].EmissionsKg)
	}
	if got.ByGas[0] != s.ByGas[0] {
		t.Errorf("gas total = %+v, want %+v", got.ByGas[0], s.ByGas[0])
	}
	if !math.IsInf(got.Yearly[1].ChangePct, 1) {
		t.Errorf("change = %v, want +Inf", got.Yearly[1].ChangePct)
	}
}

func TestQuantityRejectsGarbage(t *testing.T) {
	var y YearlyTotal
	if err := json.Unmarshal([]byte(`{"year":2015,"emissions_kg":true}`), &y); err == nil {
		t.Error("Unmarshal() should fail on a boolean quantity")
	}
}
