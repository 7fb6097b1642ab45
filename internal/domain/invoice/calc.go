package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ComputeTotals sums the net sales and amounts of all items and rounds each
// total to cents, half away from zero. Item order does not matter.
func ComputeTotals(items []Item) Totals {
	net, amount := decimal.Zero, decimal.Zero
	for _, item := range items {
		net = net.Add(item.NetSales)
		amount = amount.Add(item.Amount)
	}
	return Totals{NetSalesTotal: net.Round(2), TotalToPay: amount.Round(2)}
}

// MoveItem returns a copy of items with the element at from moved to index to.
func MoveItem(items []Item, from, to int) ([]Item, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, fmt.Errorf("%w: move %d to %d with %d items", ErrItemIndex, from, to, len(items))
	}
	out := make([]Item, 0, len(items))
	moved := items[from]
	for i, item := range items {
		if i != from {
			out = append(out, item)
		}
	}
	out = append(out[:to], append([]Item{moved}, out[to:]...)...)
	return out, nil
}

// Money formats a value with exactly two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
