package core

import (
	"encoding/json"
	"math"
	"strconv"
)

// quantity is a float64 whose JSON form carries NaN and infinities as the
// strings "NaN", "+Inf" and "-Inf", which encoding/json refuses as numbers.
type quantity float64

func (q quantity) MarshalJSON() ([]byte, error) {
	v := float64(q)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(FormatQuantity(v))
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (q *quantity) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = quantity(ParseQuantity(s))
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*q = quantity(v)
	return nil
}

type sectorTotalJSON struct {
	Year        int      `json:"year"`
	Sector      string   `json:"sector"`
	EmissionsKg quantity `json:"emissions_kg"`
}

func (t SectorTotal) MarshalJSON() ([]byte, error) {
	return json.Marshal(sectorTotalJSON{t.Year, t.Sector, quantity(t.EmissionsKg)})
}

func (t *SectorTotal) UnmarshalJSON(b []byte) error {
	var w sectorTotalJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*t = SectorTotal{Year: w.Year, Sector: w.Sector, EmissionsKg: float64(w.EmissionsKg)}
	return nil
}

type gasTotalJSON struct {
	Year        int      `json:"year"`
	Gas         string   `json:"gas"`
	EmissionsKg quantity `json:"emissions_kg"`
}

func (t GasTotal) MarshalJSON() ([]byte, error) {
	return json.Marshal(gasTotalJSON{t.Year, t.Gas, quantity(t.EmissionsKg)})
}

func (t *GasTotal) UnmarshalJSON(b []byte) error {
	var w gasTotalJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*t = GasTotal{Year: w.Year, Gas: w.Gas, EmissionsKg: float64(w.EmissionsKg)}
	return nil
}

type yearlyTotalJSON struct {
	Year        int      `json:"year"`
	EmissionsKg quantity `json:"emissions_kg"`
	ChangePct   quantity `json:"change_pct"`
}

func (t YearlyTotal) MarshalJSON() ([]byte, error) {
	return json.Marshal(yearlyTotalJSON{t.Year, quantity(t.EmissionsKg), quantity(t.ChangePct)})
}

func (t *YearlyTotal) UnmarshalJSON(b []byte) error {
	var w yearlyTotalJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*t = YearlyTotal{Year: w.Year, EmissionsKg: float64(w.EmissionsKg), ChangePct: float64(w.ChangePct)}
	return nil
}
