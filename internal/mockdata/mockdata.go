// Package mockdata generates a synthetic Tier 1 inventory for demos and tests.
package mockdata

import (
	"fmt"
	"math/rand/v2"

	"ghginventory/internal/core"
)

var (
	Sectors = []string{"Energy", "IPPU", "AFOLU", "Waste"}
	Gases   = []string{"CO2", "CH4", "N2O", "HFCs", "PFCs", "SF6"}
)

// SectorUnits is the activity unit reported for each sector.
var SectorUnits = map[string]string{
	"Energy": "Terajoules (TJ)",
	"IPPU":   "Tonnes of Product",
	"AFOLU":  "Head of Cattle / Hectares",
	"Waste":  "Tonnes of Waste",
}

// EmissionFactors are kg of gas per unit of sector activity.
var EmissionFactors = map[string]map[string]float64{
	"Energy": {"CO2": 2.8, "CH4": 0.035, "N2O": 0.01, "HFCs": 0.0003, "PFCs": 0.00003, "SF6": 0.000003},
	"IPPU":   {"CO2": 1.9, "CH4": 0.02, "N2O": 0.005, "HFCs": 0.0002, "PFCs": 0.00002, "SF6": 0.000002},
	"AFOLU":  {"CO2": 1.5, "CH4": 0.04, "N2O": 0.015, "HFCs": 0.0001, "PFCs": 0.00001, "SF6": 0.000001},
	"Waste":  {"CO2": 2.0, "CH4": 0.045, "N2O": 0.012, "HFCs": 0.00025, "PFCs": 0.000025, "SF6": 0.0000025},
}

// ActivityRange is a half-open [Min, Max) interval of whole activity units.
type ActivityRange struct {
	Min, Max int
}

var ActivityRanges = map[string]ActivityRange{
	"Energy": {40000, 70000},
	"IPPU":   {20000, 40000},
	"AFOLU":  {10000, 25000},
	"Waste":  {5000, 15000},
}

// Config controls generation.
type Config struct {
	FromYear int
	ToYear   int // inclusive
	Seed     uint64
}

// DefaultConfig covers 2015 through 2021.
func DefaultConfig() Config {
	return Config{FromYear: 2015, ToYear: 2021, Seed: 42}
}

func (c Config) Validate() error {
	if c.FromYear <= 0 || c.ToYear <= 0 {
		return fmt.Errorf("years must be positive (from=%d, to=%d)", c.FromYear, c.ToYear)
	}
	if c.ToYear < c.FromYear {
		return fmt.Errorf("to year %d is before from year %d", c.ToYear, c.FromYear)
	}
	return nil
}

// Generate returns one record per (year, sector, gas). Each (year, sector)
// draws a single activity level shared by all of its gases. The same seed
// always yields the same records.
func Generate(cfg Config) ([]core.ActivityRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	years := cfg.ToYear - cfg.FromYear + 1
	records := make([]core.ActivityRecord, 0, years*len(Sectors)*len(Gases))
	for year := cfg.FromYear; year <= cfg.ToYear; year++ {
		for _, sector := range Sectors {
			r := ActivityRanges[sector]
			activity := float64(r.Min + rng.IntN(r.Max-r.Min))
			for _, gas := range Gases {
				records = append(records, core.ActivityRecord{
					Year:           year,
					Sector:         sector,
					Gas:            gas,
					Activity:       activity,
					EmissionFactor: EmissionFactors[sector][gas],
					Unit:           SectorUnits[sector],
				})
			}
		}
	}
	return records, nil
}
