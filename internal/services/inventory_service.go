// Package services orchestrates inventory runs: loading, aggregation,
// snapshot stamping and event publication.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"ghginventory/internal/core"
	"ghginventory/internal/inventory"
	"ghginventory/internal/report"

	"github.com/oklog/ulid/v2"
)

// EventPublisher announces computed summaries to other processes.
type EventPublisher interface {
	PublishSummary(ctx context.Context, snap core.Snapshot) error
}

// Options locates the default inventory inputs.
type Options struct {
	DataPath  string
	OutputDir string
}

// InventoryService runs the pipeline and stamps its results as snapshots.
type InventoryService struct {
	opts      Options
	publisher EventPublisher
	now       func() time.Time
}

// NewInventoryService builds a service. publisher may be nil, in which case
// no events are sent.
func NewInventoryService(opts Options, publisher EventPublisher) *InventoryService {
	return &InventoryService{
		opts:      opts,
		publisher: publisher,
		now:       time.Now,
	}
}

// Process loads an activity table from r, builds its summary and publishes a
// SummaryComputed event. Load errors are returned unwrapped so callers can
// match *core.SchemaError and *inventory.ParseError.
func (s *InventoryService) Process(ctx context.Context, source string, r io.Reader) (core.Snapshot, error) {
	table, err := inventory.Load(r)
	if err != nil {
		return core.Snapshot{}, err
	}

	snap := s.stamp(source, table)
	s.publish(ctx, snap)
	return snap, nil
}

// ProcessFile is Process over a file on disk.
func (s *InventoryService) ProcessFile(ctx context.Context, path string) (core.Snapshot, error) {
	table, err := inventory.LoadFile(path)
	if err != nil {
		return core.Snapshot{}, err
	}

	snap := s.stamp(path, table)
	s.publish(ctx, snap)
	return snap, nil
}

// LoadDefault produces the startup snapshot: the precomputed CSVs in
// OutputDir when present, otherwise a fresh build of DataPath. No event is
// published for it.
func (s *InventoryService) LoadDefault(ctx context.Context) (core.Snapshot, error) {
	summary, outErr := report.ReadOutputs(s.opts.OutputDir)
	if outErr == nil && !summary.IsEmpty() {
		slog.InfoContext(ctx, "Loaded precomputed outputs", "dir", s.opts.OutputDir)
		return core.Snapshot{
			ID:        ulid.Make().String(),
			Source:    s.opts.OutputDir,
			CreatedAt: s.now().UTC(),
			Summary:   summary,
		}, nil
	}
	if outErr != nil {
		slog.DebugContext(ctx, "Precomputed outputs unavailable", "dir", s.opts.OutputDir, "error", outErr)
	}

	table, err := inventory.LoadFile(s.opts.DataPath)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("load default inventory: %w", errors.Join(outErr, err))
	}

	slog.InfoContext(ctx, "Built summary from data file", "path", s.opts.DataPath)
	return s.stamp(s.opts.DataPath, table), nil
}

func (s *InventoryService) stamp(source string, table *inventory.Table) core.Snapshot {
	preview := table.Preview
	return core.Snapshot{
		ID:        ulid.Make().String(),
		Source:    source,
		CreatedAt: s.now().UTC(),
		Records:   len(table.Records),
		Summary:   inventory.Build(table.Records),
		Preview:   &preview,
	}
}

func (s *InventoryService) publish(ctx context.Context, snap core.Snapshot) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Event publisher not available, skipping summary event", "summary_id", snap.ID)
		return
	}

	// Publishing is best effort.
	if err := s.publisher.PublishSummary(ctx, snap); err != nil {
		slog.ErrorContext(ctx, "Failed to publish summary event",
			"summary_id", snap.ID, "error", err)
	}
}

// Close releases the publisher when it holds resources.
func (s *InventoryService) Close() error {
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}
