package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ghginventory/internal/inventory"
	"ghginventory/internal/report"
)

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the Excel and PDF report bundle",
		Long: `Compute summaries from DATA_PATH and write processed_reports.zip containing
ghg_inventory_report.xlsx and ghg_yearly_summary.pdf.`,
		Example: `  ghg-inventory report
  ghg-inventory report --out /tmp/reports.zip`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := GetContext(cmd)
			if out == "" {
				out = filepath.Join(cc.Cfg.OutputDir, report.BundleName)
			}

			t, err := loadInput(cc.Cfg.DataPath)
			if err != nil {
				return err
			}
			summary := inventory.Build(t.Records)

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("create %s: %w", filepath.Dir(out), err)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := report.WriteBundle(cmd.Context(), f, summary, cc.Cfg.ReportTitle); err != nil {
				f.Close()
				_ = os.Remove(out)
				return fmt.Errorf("write bundle: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Bundle path (default: $OUTPUT_DIR/processed_reports.zip)")
	return cmd
}
