package storage

import (
	"context"
	"fmt"
	"log/slog"

	"cnct/internal/domain/sales"
	"cnct/internal/platform/config"
	"cnct/internal/storage/jsonfile"
	"cnct/internal/storage/memory"
	"cnct/internal/storage/postgres"
	"cnct/internal/storage/sheets"
	"cnct/internal/storage/sqlite"
)

// Open builds the backend selected by cfg.StorageBackend. The returned close
// func is never nil.
func Open(ctx context.Context, cfg config.Config) (sales.StoreAPI, func(), error) {
	noop := func() {}
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return memory.New(), noop, nil
	case config.BackendJSONFile, "":
		store, err := jsonfile.New(cfg.DataFile)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("storage opened", "backend", config.BackendJSONFile, "path", cfg.DataFile)
		return store, noop, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("storage opened", "backend", config.BackendSQLite, "path", cfg.SQLitePath)
		return store, func() {
			if err := store.Close(); err != nil {
				slog.Warn("sqlite close failed", "err", err)
			}
		}, nil
	case config.BackendPostgres:
		store, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.RunMigrations)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("storage opened", "backend", config.BackendPostgres)
		return store, store.Close, nil
	case config.BackendSheets:
		client, err := sheets.New(ctx, sheets.Options{
			SpreadsheetID:      cfg.SpreadsheetID,
			SheetName:          cfg.SheetName,
			ServiceAccountJSON: cfg.ServiceAccountJSON,
			ServiceAccountFile: cfg.ServiceAccountFile,
		})
		if err != nil {
			return nil, noop, err
		}
		slog.Info("storage opened", "backend", config.BackendSheets, "sheet", cfg.SheetName)
		return client, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
