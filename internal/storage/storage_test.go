package storage

import (
	"context"
	"path/filepath"
	"testing"

	"cnct/internal/platform/config"
	"cnct/internal/storage/jsonfile"
	"cnct/internal/storage/memory"
	"cnct/internal/storage/sqlite"
)

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		backend string
		check   func(any) bool
	}{
		{config.BackendMemory, func(s any) bool { _, ok := s.(*memory.Store); return ok }},
		{config.BackendJSONFile, func(s any) bool { _, ok := s.(*jsonfile.Store); return ok }},
		{config.BackendSQLite, func(s any) bool { _, ok := s.(*sqlite.Store); return ok }},
	}
	for _, tc := range cases {
		t.Run(tc.backend, func(t *testing.T) {
			cfg := config.Config{
				StorageBackend: tc.backend,
				DataFile:       filepath.Join(dir, tc.backend+".json"),
				SQLitePath:     filepath.Join(dir, tc.backend+".db"),
			}
			store, closeStore, err := Open(context.Background(), cfg)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer closeStore()
			if !tc.check(store) {
				t.Fatalf("unexpected store type %T", store)
			}
			if err := store.Ping(context.Background()); err != nil {
				t.Fatalf("ping: %v", err)
			}
		})
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, closeStore, err := Open(context.Background(), config.Config{StorageBackend: "redis"})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	closeStore()
}
