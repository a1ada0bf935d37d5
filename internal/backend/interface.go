package backend

import (
	"context"

	"ghginventory/internal/sheets"
)

// Sink is where the worker writes computed summaries.
type Sink interface {
	sheets.SummaryWriter
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// SinkResult contains the sink instance and optional cleanup function
type SinkResult struct {
	Sink    Sink
	Type    SinkType
	Cleanup CleanupFunc
}

// Factory creates sinks based on configuration
type Factory interface {
	// CreateSink creates a sink instance based on the provided config
	CreateSink(ctx context.Context, config Config) (*SinkResult, error)
}

// Config holds configuration for sink creation
type Config struct {
	Type SinkType

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// SinkType represents the type of sink
type SinkType string

const (
	SheetsSink SinkType = "sheets"
	MemorySink SinkType = "memory"
)

// String implements fmt.Stringer
func (st SinkType) String() string {
	return string(st)
}

// IsValid returns true if the sink type is valid
func (st SinkType) IsValid() bool {
	switch st {
	case SheetsSink, MemorySink:
		return true
	default:
		return false
	}
}
