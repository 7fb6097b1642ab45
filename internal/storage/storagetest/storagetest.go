// Package storagetest holds the behaviour every sales.StoreAPI backend must
// share. Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cnct/internal/domain/sales"
)

func Entry(t *testing.T, chatter, date, amount string) sales.Entry {
	t.Helper()
	day, err := sales.ParseDay(date)
	if err != nil {
		t.Fatalf("parse %s: %v", date, err)
	}
	return sales.Entry{
		ID:             uuid.NewString(),
		Email:          "chatter@example.com",
		ChatterName:    chatter,
		Timezone:       "EST",
		Date:           day,
		ModelsWorkedOn: "Model A, Model B",
		ShiftTime:      "9-5",
		WasItCover:     sales.CoverNo,
		TotalNetSale:   amount,
		NetSale:        sales.ParseAmount(amount),
		PayPercentage:  sales.DefaultPayPercentage,
		CreatedAt:      time.Date(2024, 11, 5, 10, 30, 0, 0, time.UTC),
	}
}

func find(entries []sales.Entry, id string) (sales.Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return sales.Entry{}, false
}

// Run exercises append, list, percentage updates and delete against a fresh
// store returned by newStore.
func Run(t *testing.T, newStore func(t *testing.T) sales.StoreAPI) {
	t.Run("AppendAndList", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		entries, err := store.ListAll(ctx)
		if err != nil {
			t.Fatalf("list empty: %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected empty store, got %d entries", len(entries))
		}

		want := Entry(t, "Cado", "2024-11-05", "$1,234.50")
		id, err := store.Append(ctx, want)
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if id == "" {
			t.Fatal("expected an id")
		}
		entries, err = store.ListAll(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		got, ok := find(entries, id)
		if !ok {
			t.Fatalf("appended entry %s not listed", id)
		}
		if got.ChatterName != want.ChatterName || got.Email != want.Email || got.TotalNetSale != want.TotalNetSale {
			t.Fatalf("round trip mismatch: %+v", got)
		}
		if !got.Date.Equal(want.Date) {
			t.Fatalf("expected date %s, got %s", want.Date, got.Date)
		}
		if !got.NetSale.Equal(decimal.RequireFromString("1234.5")) {
			t.Fatalf("expected net sale 1234.5, got %s", got.NetSale)
		}
		if !got.PayPercentage.Equal(decimal.NewFromInt(7)) {
			t.Fatalf("expected percentage 7, got %s", got.PayPercentage)
		}
	})

	t.Run("UpdatePercentage", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		a, _ := store.Append(ctx, Entry(t, "Cado", "2024-11-05", "100"))
		b, _ := store.Append(ctx, Entry(t, "Cado", "2024-11-06", "50"))

		if err := store.UpdatePercentage(ctx, a, decimal.RequireFromString("12.5")); err != nil {
			t.Fatalf("update: %v", err)
		}
		entries, _ := store.ListAll(ctx)
		if e, _ := find(entries, a); !e.PayPercentage.Equal(decimal.RequireFromString("12.5")) {
			t.Fatalf("expected 12.5, got %s", e.PayPercentage)
		}
		if e, _ := find(entries, b); !e.PayPercentage.Equal(decimal.NewFromInt(7)) {
			t.Fatalf("untouched entry changed to %s", e.PayPercentage)
		}

		if err := store.UpdatePercentage(ctx, uuid.NewString(), decimal.NewFromInt(1)); !errors.Is(err, sales.ErrEntryNotFound) {
			t.Fatalf("expected ErrEntryNotFound, got %v", err)
		}
	})

	t.Run("PercentageKeepsExactValue", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		id, _ := store.Append(ctx, Entry(t, "Cado", "2024-11-05", "100"))

		for _, raw := range []string{"12345.6789", "0.0001", "7.12345"} {
			want := decimal.RequireFromString(raw)
			if err := store.UpdatePercentage(ctx, id, want); err != nil {
				t.Fatalf("update %s: %v", raw, err)
			}
			entries, _ := store.ListAll(ctx)
			if e, _ := find(entries, id); !e.PayPercentage.Equal(want) {
				t.Fatalf("expected %s stored exactly, got %s", raw, e.PayPercentage)
			}
		}
	})

	t.Run("BatchUpdateIsAllOrNothing", func(t *testing.T) {
		store := newStore(t)
		batch, ok := store.(sales.BatchPercentageUpdater)
		if !ok {
			t.Skip("backend has no batch update")
		}
		ctx := context.Background()
		a, _ := store.Append(ctx, Entry(t, "Cado", "2024-11-05", "100"))
		b, _ := store.Append(ctx, Entry(t, "Cado", "2024-11-06", "50"))

		if err := batch.UpdatePercentages(ctx, []string{a, uuid.NewString()}, decimal.NewFromInt(9)); err == nil {
			t.Fatal("expected failure when an id is missing")
		}
		entries, _ := store.ListAll(ctx)
		if e, _ := find(entries, a); !e.PayPercentage.Equal(decimal.NewFromInt(7)) {
			t.Fatalf("failed batch must not apply, got %s", e.PayPercentage)
		}

		if err := batch.UpdatePercentages(ctx, []string{a, b}, decimal.NewFromInt(9)); err != nil {
			t.Fatalf("batch update: %v", err)
		}
		entries, _ = store.ListAll(ctx)
		for _, e := range entries {
			if !e.PayPercentage.Equal(decimal.NewFromInt(9)) {
				t.Fatalf("entry %s: expected 9, got %s", e.ID, e.PayPercentage)
			}
		}
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		a, _ := store.Append(ctx, Entry(t, "Cado", "2024-11-05", "100"))
		b, _ := store.Append(ctx, Entry(t, "Janko", "2024-11-06", "50"))

		if err := store.Delete(ctx, a); err != nil {
			t.Fatalf("delete: %v", err)
		}
		entries, _ := store.ListAll(ctx)
		if len(entries) != 1 || entries[0].ID != b {
			t.Fatalf("expected only %s to remain, got %+v", b, entries)
		}
		if err := store.Delete(ctx, a); !errors.Is(err, sales.ErrEntryNotFound) {
			t.Fatalf("expected ErrEntryNotFound on second delete, got %v", err)
		}
		if err := store.Ping(ctx); err != nil {
			t.Fatalf("ping: %v", err)
		}
	})
}
