package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ghginventory/internal/core"
	"ghginventory/internal/sheets"
)

var (
	_ sheets.SummaryWriter = (*Store)(nil)
	_ sheets.SummaryReader = (*Store)(nil)
)

// Store keeps every written summary in memory, newest last.
type Store struct {
	mu    sync.Mutex
	items []core.Snapshot
}

func New() *Store {
	return &Store{}
}

// WriteSummary stores the snapshot and returns a synthetic reference.
func (s *Store) WriteSummary(_ context.Context, snap core.Snapshot) (string, error) {
	if snap.ID == "" {
		return "", errors.New("snapshot without id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, snap)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Latest returns the most recently written snapshot.
func (s *Store) Latest(_ context.Context) (core.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return core.Snapshot{}, false, nil
	}
	return s.items[len(s.items)-1], true, nil
}

// Len reports how many summaries were written.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
