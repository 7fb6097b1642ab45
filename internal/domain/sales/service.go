package sales

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	Store StoreAPI
	Now   func() time.Time
	NewID func() string
}

func NewService(store StoreAPI) *Service {
	return &Service{
		Store: store,
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

// Capture validates the input and appends it as a new entry.
func (s *Service) Capture(ctx context.Context, in Input) (Entry, error) {
	entry, err := NewEntry(in)
	if err != nil {
		return Entry{}, err
	}
	entry.ID = s.NewID()
	entry.CreatedAt = s.Now()
	id, err := s.Store.Append(ctx, entry)
	if err != nil {
		return Entry{}, err
	}
	if id != "" {
		entry.ID = id
	}
	return entry, nil
}

// List returns every stored entry ordered by date, then creation time.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.Store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	SortByDate(entries)
	return entries, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEntryNotFound
	}
	return s.Store.Delete(ctx, id)
}

// Import appends legacy records one by one. Invalid records are reported by
// index and skipped; a storage failure stops the import.
func (s *Service) Import(ctx context.Context, records []Input) (ImportResult, error) {
	result := ImportResult{Imported: []string{}, Rejected: []ImportRejection{}}
	for i, rec := range records {
		entry, err := s.Capture(ctx, rec)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				result.Rejected = append(result.Rejected, ImportRejection{Index: i, Issues: verr.Issues})
				continue
			}
			return result, err
		}
		result.Imported = append(result.Imported, entry.ID)
	}
	return result, nil
}

// SortByDate orders entries by date, then creation time, then ID.
func SortByDate(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
