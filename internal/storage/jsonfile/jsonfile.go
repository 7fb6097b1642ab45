package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"cnct/internal/domain/sales"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const backend = "jsonfile"

// Store persists entries as one JSON array in a single file. Every mutation
// rewrites the file through a temp file and rename.
type Store struct {
	mu   sync.Mutex
	path string
}

var (
	_ sales.StoreAPI               = (*Store)(nil)
	_ sales.BatchPercentageUpdater = (*Store)(nil)
)

// New prepares the store and creates the parent directory. A missing file
// reads as an empty list.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("jsonfile: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) Append(_ context.Context, e sales.Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return "", sales.WrapStorage(backend, "append", err)
	}
	recs = append(recs, toRecord(e))
	if err := s.save(recs); err != nil {
		return "", sales.WrapStorage(backend, "append", err)
	}
	return e.ID, nil
}

func (s *Store) ListAll(_ context.Context) ([]sales.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return nil, sales.WrapStorage(backend, "list", err)
	}
	out := make([]sales.Entry, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toEntry())
	}
	return out, nil
}

func (s *Store) UpdatePercentage(ctx context.Context, id string, pct decimal.Decimal) error {
	return s.UpdatePercentages(ctx, []string{id}, pct)
}

func (s *Store) UpdatePercentages(_ context.Context, ids []string, pct decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return sales.WrapStorage(backend, "update", err)
	}
	index := make(map[string]int, len(recs))
	for i, r := range recs {
		index[r.ID] = i
	}
	for _, id := range ids {
		if _, ok := index[id]; !ok {
			return sales.ErrEntryNotFound
		}
	}
	for _, id := range ids {
		p := pct
		recs[index[id]].PayPercentage = &p
	}
	return sales.WrapStorage(backend, "update", s.save(recs))
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return sales.WrapStorage(backend, "delete", err)
	}
	for i, r := range recs {
		if r.ID == id {
			recs = append(recs[:i], recs[i+1:]...)
			return sales.WrapStorage(backend, "delete", s.save(recs))
		}
	}
	return sales.ErrEntryNotFound
}

func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.load()
	return sales.WrapStorage(backend, "ping", err)
}

// load reads the file and assigns IDs to records written before IDs existed.
func (s *Store) load() ([]record, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []record{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []record{}, nil
	}
	var recs []record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	dirty := false
	for i := range recs {
		if recs[i].ID == "" {
			recs[i].ID = uuid.NewString()
			dirty = true
		}
	}
	if dirty {
		if err := s.save(recs); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

func (s *Store) save(recs []record) error {
	if recs == nil {
		recs = []record{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".entries-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
