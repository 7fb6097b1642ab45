package shared

import (
	"time"

	"cnct/internal/domain/sales"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD and returns the UTC calendar day.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return sales.ParseDay(value)
}
