package sales

import (
	"context"

	"github.com/shopspring/decimal"
)

// StoreAPI is the storage contract every backend satisfies. ListAll returns
// entries in no particular order.
type StoreAPI interface {
	Append(ctx context.Context, entry Entry) (string, error)
	ListAll(ctx context.Context) ([]Entry, error)
	UpdatePercentage(ctx context.Context, id string, percentage decimal.Decimal) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// BatchPercentageUpdater is implemented by backends that can apply one
// percentage to many records atomically.
type BatchPercentageUpdater interface {
	UpdatePercentages(ctx context.Context, ids []string, percentage decimal.Decimal) error
}
