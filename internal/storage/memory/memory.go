package memory

import (
	"context"
	"sync"

	"cnct/internal/domain/sales"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store keeps entries in process memory. It is the default for tests and demos.
type Store struct {
	mu      sync.Mutex
	entries []sales.Entry
}

var (
	_ sales.StoreAPI               = (*Store)(nil)
	_ sales.BatchPercentageUpdater = (*Store)(nil)
)

func New(seed ...sales.Entry) *Store {
	return &Store{entries: append([]sales.Entry(nil), seed...)}
}

func (s *Store) Append(_ context.Context, e sales.Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return e.ID, nil
}

func (s *Store) ListAll(_ context.Context) ([]sales.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sales.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *Store) UpdatePercentage(_ context.Context, id string, pct decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].PayPercentage = pct
			return nil
		}
	}
	return sales.ErrEntryNotFound
}

// UpdatePercentages applies pct to all ids or to none of them.
func (s *Store) UpdatePercentages(_ context.Context, ids []string, pct decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	index := make(map[string]int, len(s.entries))
	for i, e := range s.entries {
		index[e.ID] = i
	}
	for _, id := range ids {
		if _, ok := index[id]; !ok {
			return sales.ErrEntryNotFound
		}
	}
	for _, id := range ids {
		s.entries[index[id]].PayPercentage = pct
	}
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return sales.ErrEntryNotFound
}

func (s *Store) Ping(context.Context) error { return nil }
