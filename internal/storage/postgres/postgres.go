package postgres

import (
	"context"
	"embed"
	"time"

	"cnct/internal/domain/sales"
	"cnct/internal/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const backend = "postgres"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store keeps entries in the hosted "sales" table.
type Store struct {
	DB *pgxpool.Pool
}

var (
	_ sales.StoreAPI               = (*Store)(nil)
	_ sales.BatchPercentageUpdater = (*Store)(nil)
)

func Open(ctx context.Context, databaseURL string, runMigrations bool) (*Store, error) {
	pool, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if runMigrations {
		if err := db.Migrate(ctx, pool, migrationsFS, "migrations"); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &Store{DB: pool}, nil
}

func (s *Store) Close() {
	s.DB.Close()
}

func (s *Store) Append(ctx context.Context, e sales.Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO sales (id, email, chatter_name, timezone, date, models_worked_on, shift_time,
      was_it_cover, who_covered, total_net_sale, pay_percentage, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11::numeric,$12)
    RETURNING id::text
  `, e.ID, e.Email, e.ChatterName, e.Timezone, e.Date, e.ModelsWorkedOn, e.ShiftTime,
		e.WasItCover, e.WhoCovered, e.TotalNetSale, e.PayPercentage.String(), e.CreatedAt).Scan(&id)
	if err != nil {
		return "", sales.WrapStorage(backend, "append", err)
	}
	return id, nil
}

func (s *Store) ListAll(ctx context.Context) ([]sales.Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id::text, email, chatter_name, timezone, date, models_worked_on, shift_time,
      was_it_cover, who_covered, total_net_sale, pay_percentage::text, created_at
    FROM sales
  `)
	if err != nil {
		return nil, sales.WrapStorage(backend, "list", err)
	}
	defer rows.Close()

	out := []sales.Entry{}
	for rows.Next() {
		var e sales.Entry
		var pct string
		if err := rows.Scan(&e.ID, &e.Email, &e.ChatterName, &e.Timezone, &e.Date, &e.ModelsWorkedOn,
			&e.ShiftTime, &e.WasItCover, &e.WhoCovered, &e.TotalNetSale, &pct, &e.CreatedAt); err != nil {
			return nil, sales.WrapStorage(backend, "list", err)
		}
		e.Date = time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.UTC)
		if e.PayPercentage, err = decimal.NewFromString(pct); err != nil {
			e.PayPercentage = sales.DefaultPayPercentage
		}
		e.NetSale = sales.ParseAmount(e.TotalNetSale)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, sales.WrapStorage(backend, "list", err)
	}
	return out, nil
}

func (s *Store) UpdatePercentage(ctx context.Context, id string, pct decimal.Decimal) error {
	if _, err := uuid.Parse(id); err != nil {
		return sales.ErrEntryNotFound
	}
	tag, err := s.DB.Exec(ctx, `UPDATE sales SET pay_percentage = $1::numeric WHERE id = $2`, pct.String(), id)
	if err != nil {
		return sales.WrapStorage(backend, "update", err)
	}
	if tag.RowsAffected() == 0 {
		return sales.ErrEntryNotFound
	}
	return nil
}

// UpdatePercentages updates all ids in one transaction and rolls back if any
// id is missing.
func (s *Store) UpdatePercentages(ctx context.Context, ids []string, pct decimal.Decimal) error {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return sales.ErrEntryNotFound
		}
	}
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return sales.WrapStorage(backend, "update", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE sales SET pay_percentage = $1::numeric WHERE id = ANY($2::uuid[])`, pct.String(), ids)
	if err != nil {
		return sales.WrapStorage(backend, "update", err)
	}
	if int(tag.RowsAffected()) != len(ids) {
		return sales.ErrEntryNotFound
	}
	return sales.WrapStorage(backend, "update", tx.Commit(ctx))
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return sales.ErrEntryNotFound
	}
	tag, err := s.DB.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return sales.WrapStorage(backend, "delete", err)
	}
	if tag.RowsAffected() == 0 {
		return sales.ErrEntryNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return sales.WrapStorage(backend, "ping", s.DB.Ping(ctx))
}
