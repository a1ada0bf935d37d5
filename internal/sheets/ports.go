package sheets

import (
	"context"

	"ghginventory/internal/core"
)

// Ports for outbound adapters.
type (
	// SummaryWriter exports a computed summary to an external sheet.
	SummaryWriter interface {
		WriteSummary(ctx context.Context, snap core.Snapshot) (ref string, err error)
	}

	// SummaryReader returns the last summary a sink accepted.
	SummaryReader interface {
		Latest(ctx context.Context) (core.Snapshot, bool, error)
	}
)
