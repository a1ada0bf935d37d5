// Package commands implements the ghg-inventory command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"ghginventory/internal/cli"
	"ghginventory/internal/config"
	"ghginventory/internal/inventory"
	applog "ghginventory/internal/log"
)

// Version is set at build time.
var Version = "0.1.0"

type contextKey struct{}

// CommandContext carries what every subcommand needs.
type CommandContext struct {
	Cfg    *config.Config
	Logger *applog.Logger
}

// NewRootCommand creates the ghg-inventory root command.
func NewRootCommand() *cobra.Command {
	var dataPath, outputDir string

	root := &cobra.Command{
		Use:   "ghg-inventory",
		Short: "Greenhouse gas inventory pipeline",
		Long: `ghg-inventory turns activity data (Year, Sector, Gas, Activity, Emission Factor, Unit)
into emissions summaries by sector, by gas and by year, and exports them as CSV pivots,
an Excel workbook, a PDF summary or RabbitMQ events.

Configuration is read from the environment and an optional .env file.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cli.LoadEnvFile()
			logger := cli.SetupLoggerTo(cmd.ErrOrStderr(), "cli")

			cfg := config.Load()
			if dataPath != "" {
				cfg.DataPath = dataPath
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), contextKey{}, &CommandContext{Cfg: cfg, Logger: logger})
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&dataPath, "data", "", "Activity data CSV (default: $DATA_PATH)")
	root.PersistentFlags().StringVar(&outputDir, "output-dir", "", "Directory for summary CSVs (default: $OUTPUT_DIR)")

	root.AddCommand(
		NewBuildCommand(),
		NewGenerateCommand(),
		NewReportCommand(),
		NewQueryCommand(),
		NewPublishCommand(),
		NewVersionCommand(),
	)
	return root
}

// GetContext returns the CommandContext stored by the root command.
func GetContext(cmd *cobra.Command) *CommandContext {
	if cc, ok := cmd.Context().Value(contextKey{}).(*CommandContext); ok {
		return cc
	}
	return &CommandContext{Cfg: config.Load(), Logger: applog.New(applog.DefaultConfig())}
}

// loadInput loads the activity table at path, reporting a missing file as
// "input file not found".
func loadInput(path string) (*inventory.Table, error) {
	table, err := inventory.LoadFile(path)
	if err != nil {
		return nil, inputError(path, err)
	}
	return table, nil
}

func inputError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("input file not found: %s", path)
	}
	return err
}
