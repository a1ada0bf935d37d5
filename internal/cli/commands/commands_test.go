package commands

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghginventory/internal/amqp"
	"ghginventory/internal/report"
)

const inputCSV = `Year,Sector,Gas,Activity,Emission Factor,Unit
2015,Energy,CO2,100,1,TJ
2015,Waste,CH4,50,2,t
2016,Energy,CO2,150,1,TJ
2017,Energy,CO2,300,1,TJ
`

type env struct {
	dir       string
	dataPath  string
	outputDir string
}

func setupEnv(t *testing.T, data string) env {
	t.Helper()
	dir := t.TempDir()
	e := env{
		dir:       dir,
		dataPath:  filepath.Join(dir, "inventory.csv"),
		outputDir: filepath.Join(dir, "outputs"),
	}
	if data != "" {
		require.NoError(t, os.WriteFile(e.dataPath, []byte(data), 0o644))
	}
	t.Setenv("DATA_PATH", e.dataPath)
	t.Setenv("OUTPUT_DIR", e.outputDir)
	t.Setenv("AMQP_URL", "")
	t.Setenv("SINK_BACKEND", "memory")
	t.Setenv("LOG_LEVEL", "error")
	return e
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestBuild(t *testing.T) {
	e := setupEnv(t, inputCSV)

	out, err := run(t, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "Emissions (kg)")
	assert.Contains(t, out, "Emissions (t)")
	assert.Contains(t, out, "200.00")
	assert.Contains(t, out, "0.15")
	assert.Contains(t, out, "0.30")
	assert.Contains(t, out, "-25.00")
	assert.Contains(t, out, "100.00")

	for _, name := range []string{report.SectorCSV, report.GasCSV, report.YearlyCSV} {
		assert.FileExists(t, filepath.Join(e.outputDir, name))
	}
	sector, err := os.ReadFile(filepath.Join(e.outputDir, report.SectorCSV))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(sector), "Year,Energy,Waste\n"), string(sector))
}

func TestBuild_MissingInput(t *testing.T) {
	e := setupEnv(t, "")

	_, err := run(t, "build")
	require.Error(t, err)
	assert.Equal(t, "input file not found: "+e.dataPath, err.Error())
}

func TestBuild_SchemaError(t *testing.T) {
	setupEnv(t, "Year,Sector\n2015,Energy\n")

	_, err := run(t, "build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns: Gas, Activity, Emission Factor, Unit")
}

func TestBuild_DataFlagOverridesEnv(t *testing.T) {
	e := setupEnv(t, "")
	other := filepath.Join(e.dir, "other.csv")
	require.NoError(t, os.WriteFile(other, []byte(inputCSV), 0o644))

	_, err := run(t, "build", "--data", other)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(e.outputDir, report.YearlyCSV))
}

func TestGenerate_Deterministic(t *testing.T) {
	e := setupEnv(t, "")
	a := filepath.Join(e.dir, "a.csv")
	b := filepath.Join(e.dir, "b.csv")

	out, err := run(t, "generate", "--seed", "7", "--from", "2015", "--to", "2016", "--out", a)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 48 records")
	_, err = run(t, "generate", "--seed", "7", "--from", "2015", "--to", "2016", "--out", b)
	require.NoError(t, err)

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
	assert.True(t, strings.HasPrefix(string(da), "Year,Sector,Gas,Activity,Emission Factor,Unit\n"))

	_, err = run(t, "generate", "--from", "2020", "--to", "2010", "--out", a)
	assert.Error(t, err)
}

func TestGenerate_DefaultsToDataPath(t *testing.T) {
	e := setupEnv(t, "")
	_, err := run(t, "generate")
	require.NoError(t, err)

	_, err = run(t, "build")
	require.NoError(t, err)
	assert.FileExists(t, e.dataPath)
}

func TestReport(t *testing.T) {
	e := setupEnv(t, inputCSV)
	out := filepath.Join(e.dir, "bundle.zip")

	stdout, err := run(t, "report", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, out)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{report.WorkbookName, report.PDFName}, names)
}

func TestReport_DefaultPath(t *testing.T) {
	e := setupEnv(t, inputCSV)
	_, err := run(t, "report")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(e.outputDir, report.BundleName))
}

func TestQuery_Formats(t *testing.T) {
	setupEnv(t, inputCSV)
	sql := "SELECT year, emissions_kg, change_pct FROM yearly_totals ORDER BY year"

	out, err := run(t, "query", sql)
	require.NoError(t, err)
	assert.Contains(t, out, "emissions_kg")
	assert.Contains(t, out, "(3 rows)")

	out, err = run(t, "query", sql, "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "year,emissions_kg,change_pct\n2015,200,0\n2016,150,-25\n2017,300,100\n", out)

	out, err = run(t, "query", sql, "--format", "json")
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.EqualValues(t, 2016, rows[1]["year"])
	assert.EqualValues(t, -25, rows[1]["change_pct"])

	out, err = run(t, "query", sql, "--format", "md")
	require.NoError(t, err)
	assert.Contains(t, out, "| year | emissions_kg | change_pct |")
	assert.Contains(t, out, "| --- | --- | --- |")

	_, err = run(t, "query", sql, "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestQuery_InputFileAndTables(t *testing.T) {
	e := setupEnv(t, inputCSV)
	sqlFile := filepath.Join(e.dir, "q.sql")
	require.NoError(t, os.WriteFile(sqlFile, []byte("SELECT sector FROM emissions_by_sector WHERE year = 2015 ORDER BY sector"), 0o644))

	out, err := run(t, "query", "--input", sqlFile, "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "sector\nEnergy\nWaste\n", out)

	out, err = run(t, "query", "tables", "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "name\nactivity\nemissions_by_gas\nemissions_by_sector\nyearly_totals\n", out)
}

func TestQuery_Errors(t *testing.T) {
	setupEnv(t, inputCSV)

	_, err := run(t, "query")
	assert.ErrorContains(t, err, "no SQL given")

	_, err = run(t, "query", "DELETE FROM activity")
	assert.Error(t, err)

	_, err = run(t, "query", "SELECT * FROM nowhere")
	assert.ErrorContains(t, err, "query failed")
}

func TestPublish(t *testing.T) {
	setupEnv(t, inputCSV)

	_, err := run(t, "publish")
	assert.EqualError(t, err, "AMQP_URL is not set")

	out, err := run(t, "publish", "--dry-run")
	require.NoError(t, err)
	msg, err := amqp.SummaryComputedMessageFromJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, 4, msg.Records)
	assert.Len(t, msg.Summary.Yearly, 3)
}

func TestPublish_MissingInput(t *testing.T) {
	e := setupEnv(t, "")
	_, err := run(t, "publish", "--dry-run")
	assert.EqualError(t, err, "input file not found: "+e.dataPath)
}

func TestInvalidConfig(t *testing.T) {
	setupEnv(t, inputCSV)
	t.Setenv("PORT", "not-a-port")

	_, err := run(t, "build")
	assert.ErrorContains(t, err, "invalid port")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ghg-inventory v"+Version+"\n", out)
}
