package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"ghginventory/internal/core"
	"ghginventory/internal/inventory"
	applog "ghginventory/internal/log"
	"ghginventory/internal/report"
)

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Compute summaries and write the pivot CSVs",
		Long: `Read the activity table at DATA_PATH, compute emissions and write
emissions_by_sector.csv, emissions_by_gas.csv and yearly_emissions_changes.csv
to OUTPUT_DIR.`,
		Example: `  ghg-inventory build
  ghg-inventory build --data data/inventory.csv --output-dir outputs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd)
		},
	}
}

func runBuild(cmd *cobra.Command) error {
	cc := GetContext(cmd)
	ctx := cmd.Context()

	t, err := loadInput(cc.Cfg.DataPath)
	if err != nil {
		return err
	}
	summary := inventory.Build(t.Records)

	if err := report.WriteOutputs(ctx, cc.Cfg.OutputDir, summary); err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}
	cc.Logger.InfoContext(ctx, "Summary files written",
		applog.FieldComponent, applog.ComponentReport,
		applog.FieldRecords, len(t.Records),
		"dir", cc.Cfg.OutputDir)

	w := cmd.OutOrStdout()
	renderYearly(w, summary.Yearly)
	_, _ = fmt.Fprintf(w, "Wrote %s, %s and %s to %s\n",
		report.SectorCSV, report.GasCSV, report.YearlyCSV, cc.Cfg.OutputDir)
	return nil
}

const columnTonnes = "Emissions (t)"

func renderYearly(w io.Writer, yearly []core.YearlyTotal) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{core.ColumnYear, core.ColumnEmissions, columnTonnes, core.ColumnChange})
	for _, y := range yearly {
		t.AppendRow(table.Row{
			y.Year,
			core.FormatKg(y.EmissionsKg),
			core.FormatKg(core.KgToTonnes(y.EmissionsKg)),
			fmt.Sprintf("%.2f", y.ChangePct),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.Render()
}
