package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cnct/internal/domain/sales"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

const backend = "sqlite"

type Store struct {
	db *sql.DB
}

var (
	_ sales.StoreAPI               = (*Store)(nil)
	_ sales.BatchPercentageUpdater = (*Store)(nil)
)

// Open creates the database file if needed and migrates it.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const entryColumns = `id, email, chatter_name, timezone, sale_date, models_worked_on, shift_time,
    was_it_cover, who_covered, total_net_sale, pay_percentage, created_at`

func (s *Store) Append(ctx context.Context, e sales.Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
    INSERT INTO sales_entries (`+entryColumns+`)
    VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
  `, e.ID, e.Email, e.ChatterName, e.Timezone, e.Date.Format(sales.DateLayout), e.ModelsWorkedOn,
		e.ShiftTime, e.WasItCover, e.WhoCovered, e.TotalNetSale, e.PayPercentage.String(),
		e.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", sales.WrapStorage(backend, "append", err)
	}
	slog.DebugContext(ctx, "sales entry stored", "backend", backend, "id", e.ID)
	return e.ID, nil
}

func (s *Store) ListAll(ctx context.Context) ([]sales.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM sales_entries`)
	if err != nil {
		return nil, sales.WrapStorage(backend, "list", err)
	}
	defer rows.Close()

	out := []sales.Entry{}
	for rows.Next() {
		var e sales.Entry
		var day, pct, created string
		if err := rows.Scan(&e.ID, &e.Email, &e.ChatterName, &e.Timezone, &day, &e.ModelsWorkedOn,
			&e.ShiftTime, &e.WasItCover, &e.WhoCovered, &e.TotalNetSale, &pct, &created); err != nil {
			return nil, sales.WrapStorage(backend, "list", err)
		}
		e.Date, err = sales.ParseDay(day)
		if err != nil {
			return nil, sales.WrapStorage(backend, "list", fmt.Errorf("entry %s: %w", e.ID, err))
		}
		e.PayPercentage, err = decimal.NewFromString(strings.TrimSpace(pct))
		if err != nil {
			e.PayPercentage = sales.DefaultPayPercentage
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		e.NetSale = sales.ParseAmount(e.TotalNetSale)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, sales.WrapStorage(backend, "list", err)
	}
	return out, nil
}

func (s *Store) UpdatePercentage(ctx context.Context, id string, pct decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sales_entries SET pay_percentage = ? WHERE id = ?`, pct.String(), id)
	if err != nil {
		return sales.WrapStorage(backend, "update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return sales.WrapStorage(backend, "update", err)
	}
	if n == 0 {
		return sales.ErrEntryNotFound
	}
	return nil
}

// UpdatePercentages runs every update in one transaction.
func (s *Store) UpdatePercentages(ctx context.Context, ids []string, pct decimal.Decimal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sales.WrapStorage(backend, "update", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE sales_entries SET pay_percentage = ? WHERE id = ?`)
	if err != nil {
		return sales.WrapStorage(backend, "update", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		res, err := stmt.ExecContext(ctx, pct.String(), id)
		if err != nil {
			return sales.WrapStorage(backend, "update", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return sales.ErrEntryNotFound
		}
	}
	return sales.WrapStorage(backend, "update", tx.Commit())
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sales_entries WHERE id = ?`, id)
	if err != nil {
		return sales.WrapStorage(backend, "delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sales.ErrEntryNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return sales.WrapStorage(backend, "ping", s.db.PingContext(ctx))
}
