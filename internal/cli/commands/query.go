package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ghginventory/internal/inventory"
	"ghginventory/internal/storage"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run SQL over the staged inventory",
		Long: `Stage the activity table at DATA_PATH into an in-memory SQLite database and
run a read-only SQL statement against it.

Relations:
  activity             one row per input record with emissions_kg
  emissions_by_sector  year, sector, emissions_kg
  emissions_by_gas     year, gas, emissions_kg
  yearly_totals        year, emissions_kg, change_pct`,
		Example: `  ghg-inventory query "SELECT * FROM yearly_totals"
  ghg-inventory query "SELECT sector, SUM(emissions_kg) FROM activity GROUP BY sector" --format json
  ghg-inventory query --input report.sql --format md
  ghg-inventory query tables`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	cmd.AddCommand(newQueryTablesCommand(opts))
	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	var sqlQuery string
	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	default:
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	}
	if strings.TrimSpace(sqlQuery) == "" {
		return fmt.Errorf("no SQL given")
	}

	stage, err := openStage(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = stage.Close() }()

	res, err := stage.Query(cmd.Context(), sqlQuery)
	if err != nil {
		return err
	}
	return renderResult(cmd.OutOrStdout(), res, opts.Format)
}

func newQueryTablesCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the staged tables and views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stage, err := openStage(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = stage.Close() }()

			names, err := stage.Relations(cmd.Context())
			if err != nil {
				return err
			}
			res := &storage.Result{Columns: []string{"name"}}
			for _, n := range names {
				res.Rows = append(res.Rows, []any{n})
			}
			return renderResult(cmd.OutOrStdout(), res, opts.Format)
		},
	}
}

func openStage(cmd *cobra.Command) (*storage.Stage, error) {
	cc := GetContext(cmd)
	t, err := loadInput(cc.Cfg.DataPath)
	if err != nil {
		return nil, err
	}
	return storage.Open(cmd.Context(), inventory.ComputeEmissions(t.Records))
}
