package backend

import (
	"context"
	"fmt"
	"log/slog"

	applog "ghginventory/internal/log"
	gsheet "ghginventory/internal/sheets/google"
	"ghginventory/internal/sheets/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new sink factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger.With(applog.FieldComponent, applog.ComponentBackend),
	}
}

// CreateSink implements Factory.CreateSink
func (f *DefaultFactory) CreateSink(ctx context.Context, config Config) (*SinkResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SheetsSink:
		return f.createSheetsSink(ctx, config)
	case MemorySink:
		return f.createMemorySink()
	default:
		return nil, fmt.Errorf("unsupported sink type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSheetsSink(ctx context.Context, config Config) (*SinkResult, error) {
	cli, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CredentialsFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets sink", "spreadsheet_id", config.GoogleSpreadsheetID)

	return &SinkResult{Sink: cli, Type: SheetsSink}, nil
}

func (f *DefaultFactory) createMemorySink() (*SinkResult, error) {
	store := memory.New()

	f.logger.Info("Initialized memory sink")

	return &SinkResult{Sink: store, Type: MemorySink}, nil
}
