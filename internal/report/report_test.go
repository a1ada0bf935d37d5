package report

import (
	"archive/zip"
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ghginventory/internal/core"
)

// sample has Waste missing in 2016 and CH4 missing in 2015.
func sample() core.Summary {
	return core.Summary{
		BySector: []core.SectorTotal{
			{Year: 2015, Sector: "Energy", EmissionsKg: 100},
			{Year: 2015, Sector: "Waste", EmissionsKg: 20},
			{Year: 2016, Sector: "Energy", EmissionsKg: 150.5},
		},
		ByGas: []core.GasTotal{
			{Year: 2015, Gas: "CO2", EmissionsKg: 120},
			{Year: 2016, Gas: "CH4", EmissionsKg: 0.5},
			{Year: 2016, Gas: "CO2", EmissionsKg: 150},
		},
		Yearly: []core.YearlyTotal{
			{Year: 2015, EmissionsKg: 120, ChangePct: 0},
			{Year: 2016, EmissionsKg: 150.5, ChangePct: 25.416666666666668},
		},
	}
}

func TestSectorPivotLeavesGapsBlank(t *testing.T) {
	got := SectorPivot(sample()).Strings()
	want := [][]string{
		{"Year", "Energy", "Waste"},
		{"2015", "100", "20"},
		{"2016", "150.5", ""},
	}
	assert.Equal(t, want, got)
}

func TestGasPivot(t *testing.T) {
	got := GasPivot(sample()).Strings()
	want := [][]string{
		{"Year", "CH4", "CO2"},
		{"2015", "", "120"},
		{"2016", "0.5", "150"},
	}
	assert.Equal(t, want, got)
}

func TestYearlyTable(t *testing.T) {
	got := YearlyTable(sample()).Strings()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Year", "Emissions (kg)", "Change (%)"}, got[0])
	assert.Equal(t, []string{"2015", "120", "0"}, got[1])
}

func TestNaNCellIsNotBlank(t *testing.T) {
	s := core.Summary{BySector: []core.SectorTotal{{Year: 2020, Sector: "Energy", EmissionsKg: math.NaN()}}}
	got := SectorPivot(s).Strings()
	assert.Equal(t, "NaN", got[1][1])
}

func TestWriteAndReadOutputs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")
	require.NoError(t, WriteOutputs(context.Background(), dir, sample()))

	for _, name := range []string{SectorCSV, GasCSV, YearlyCSV} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}

	raw, err := os.ReadFile(filepath.Join(dir, YearlyCSV))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "Year,Emissions (kg),Change (%)\n"))

	got, err := ReadOutputs(dir)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestReadOutputsMissingDir(t *testing.T) {
	_, err := ReadOutputs(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadOutputsBlankFirstChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SectorCSV), []byte("Year,Energy\n2015,10\n2016,20\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, GasCSV), []byte("Year,CO2\n2015,10\n2016,20\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, YearlyCSV), []byte("Year,Emissions (kg),Change (%)\n2015,10,\n2016,20,100.0\n"), 0o644))

	s, err := ReadOutputs(dir)
	require.NoError(t, err)
	require.Len(t, s.Yearly, 2)
	assert.Equal(t, 0.0, s.Yearly[0].ChangePct)
	assert.Equal(t, 100.0, s.Yearly[1].ChangePct)
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sample()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetBySector, SheetByGas, SheetYearly}, f.GetSheetList())

	header, err := f.GetCellValue(SheetBySector, "C1")
	require.NoError(t, err)
	assert.Equal(t, "Emissions (kg)", header)

	sector, err := f.GetCellValue(SheetBySector, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Waste", sector)

	year, err := f.GetCellValue(SheetYearly, "A3")
	require.NoError(t, err)
	assert.Equal(t, "2016", year)
}

func TestSummaryLines(t *testing.T) {
	lines := SummaryLines(sample().Yearly)
	assert.Equal(t, []string{
		"Year: 2015, Emissions (kg): 120.00, Change (%): 0.00",
		"Year: 2016, Emissions (kg): 150.50, Change (%): 25.42",
	}, lines)
	assert.Equal(t, "UAE GHG Inventory - Yearly Summary Report", SummaryTitle("UAE GHG Inventory"))
}

func TestWritePDF(t *testing.T) {
	var yearly []core.YearlyTotal
	for y := 1950; y < 2030; y++ { // forces a second page
		yearly = append(yearly, core.YearlyTotal{Year: y, EmissionsKg: float64(y)})
	}
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, SummaryTitle("Test"), yearly))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderCharts(t *testing.T) {
	pngMagic := []byte("\x89PNG")
	for _, k := range ChartKinds {
		var buf bytes.Buffer
		require.NoError(t, RenderChart(&buf, k, sample()), string(k))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), string(k))
	}
}

func TestRenderChartEmptySummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, ChartSector, core.Summary{}))
	assert.NotZero(t, buf.Len())
}

func TestTotalBarsLabelsNonFiniteYears(t *testing.T) {
	yearly := []core.YearlyTotal{
		{Year: 2015, EmissionsKg: 120},
		{Year: 2016, EmissionsKg: math.NaN()},
		{Year: 2017, EmissionsKg: math.Inf(1)},
	}
	values, labels := totalBars(yearly)
	assert.Equal(t, []string{"2015", "2016 (n/a)", "2017 (n/a)"}, labels)
	assert.Equal(t, 120.0, values[0])

	var buf bytes.Buffer
	require.NoError(t, RenderChart(&buf, ChartTotal, core.Summary{Yearly: yearly}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestChartKindValid(t *testing.T) {
	assert.True(t, ChartKind("gas").Valid())
	assert.False(t, ChartKind("pie").Valid())
	_, err := BuildChart("pie", sample())
	assert.Error(t, err)
}

func TestWriteBundle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBundle(context.Background(), &buf, sample(), "UAE GHG Inventory"))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{WorkbookName, PDFName}, names)
}
