package logtail

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/plexsphere/weftctl/internal/api"
)

// Source fetches log rows newer than since.
type Source interface {
	LogsTail(ctx context.Context, since int64) (*api.LogsTailResponse, error)
}

// Synchronizer tracks the cursor and merges fetched rows so that no row is
// returned twice and the cursor never moves backwards.
type Synchronizer struct {
	source Source

	mu     sync.Mutex
	cursor Cursor
}

// NewSynchronizer creates a Synchronizer starting at cursor.
func NewSynchronizer(source Source, cursor Cursor) *Synchronizer {
	return &Synchronizer{source: source, cursor: cursor}
}

// Cursor returns the current cursor.
func (s *Synchronizer) Cursor() Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Sync fetches rows newer than the cursor, merges them and returns the new
// rows in received order. On error the cursor is unchanged.
func (s *Synchronizer) Sync(ctx context.Context) ([]Row, error) {
	rows, err := s.Fetch(ctx, s.Cursor())
	if err != nil {
		return nil, err
	}
	return s.Merge(rows), nil
}

// Fetch requests rows newer than since without touching the cursor. Rows
// that cannot be decoded are skipped.
func (s *Synchronizer) Fetch(ctx context.Context, since Cursor) ([]Row, error) {
	if s.source == nil {
		return nil, errors.New("logtail: source is nil")
	}
	resp, err := s.source.LogsTail(ctx, int64(since))
	if err != nil {
		return nil, fmt.Errorf("logtail: fetch since %d: %w", since, err)
	}
	if resp == nil {
		return nil, nil
	}
	rows := make([]Row, 0, len(resp.Rows))
	for _, fields := range resp.Rows {
		row, err := DecodeRow(fields)
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Merge keeps the rows whose id is above the cursor and above every id
// accepted before it in the same batch, advances the cursor to the highest
// accepted id and returns the accepted rows.
func (s *Synchronizer) Merge(rows []Row) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	var accepted []Row
	for _, row := range rows {
		if Cursor(row.ID) <= s.cursor {
			continue
		}
		accepted = append(accepted, row)
		s.cursor = Cursor(row.ID)
	}
	return accepted
}

// Drain calls Sync until a batch comes back empty or maxBatches batches have
// been merged. The dashboard caps each /logs_tail response, so catching up
// on a long backlog takes several requests. Rows merged before an error are
// returned together with it.
func (s *Synchronizer) Drain(ctx context.Context, maxBatches int) ([]Row, error) {
	var all []Row
	for i := 0; i < maxBatches; i++ {
		rows, err := s.Sync(ctx)
		if err != nil {
			return all, err
		}
		if len(rows) == 0 {
			break
		}
		all = append(all, rows...)
	}
	return all, nil
}
