package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ghginventory/internal/amqp"
	"ghginventory/internal/core"
	applog "ghginventory/internal/log"
	"ghginventory/internal/sheets"
)

// SummaryWorker exports computed summaries to a sheet sink.
type SummaryWorker struct {
	sink sheets.SummaryWriter

	mu        sync.Mutex
	lastID    string
	lastStamp time.Time
	written   int
	skipped   int
}

func NewSummaryWorker(sink sheets.SummaryWriter) *SummaryWorker {
	return &SummaryWorker{sink: sink}
}

// HandleSummaryMessage processes a single SummaryComputed message from AMQP.
// Redelivered or out-of-order messages older than the last export are skipped.
func (w *SummaryWorker) HandleSummaryMessage(ctx context.Context, msg *amqp.SummaryComputedMessage) error {
	slog.InfoContext(ctx, "Processing summary message",
		applog.FieldComponent, applog.ComponentWorker,
		applog.FieldSummaryID, msg.ID,
		applog.FieldSource, msg.Source,
		applog.FieldYears, len(msg.Summary.Yearly))

	return w.SyncSnapshot(ctx, msg.Snapshot())
}

// SyncSnapshot writes snap to the sink unless a newer or identical snapshot
// has already been written.
func (w *SummaryWorker) SyncSnapshot(ctx context.Context, snap core.Snapshot) error {
	w.mu.Lock()
	stale := snap.ID == w.lastID || (!w.lastStamp.IsZero() && snap.CreatedAt.Before(w.lastStamp))
	if stale {
		w.skipped++
	}
	w.mu.Unlock()

	if stale {
		slog.InfoContext(ctx, "Skipping stale summary",
			applog.FieldComponent, applog.ComponentWorker,
			applog.FieldSummaryID, snap.ID,
			"created_at", snap.CreatedAt.Format(time.RFC3339))
		return nil
	}

	ref, err := w.sink.WriteSummary(ctx, snap)
	if err != nil {
		return fmt.Errorf("write summary %s: %w", snap.ID, err)
	}

	w.mu.Lock()
	w.lastID = snap.ID
	w.lastStamp = snap.CreatedAt
	w.written++
	w.mu.Unlock()

	slog.InfoContext(ctx, "Successfully exported summary",
		applog.FieldComponent, applog.ComponentWorker,
		applog.FieldSummaryID, snap.ID,
		applog.FieldSinkRef, ref)

	return nil
}

// Stats reports how many summaries were written and skipped.
func (w *SummaryWorker) Stats() (written, skipped int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written, w.skipped
}
