package shared

import (
	"cmp"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cnct/internal/domain/sales"
	"cnct/internal/transport/http/api"
)

type ValidationIssue = sales.FieldIssue

// Validator collects field issues for query, path and body values that are
// not covered by struct tags.
type Validator struct {
	issues []ValidationIssue
}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Add(field, reason string) {
	v.issues = append(v.issues, ValidationIssue{Field: field, Reason: reason})
}

func (v *Validator) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
}

func (v *Validator) Date(field, raw string) (time.Time, bool) {
	parsed, err := ParseDate(strings.TrimSpace(raw))
	if err != nil || parsed.IsZero() {
		v.Add(field, "must be a valid date in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return parsed, true
}

// IntRange parses an optional integer; empty input yields fallback.
func (v *Validator) IntRange(field, raw string, lo, hi, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		v.Add(field, "must be an integer between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
		return fallback
	}
	return n
}

func (v *Validator) NonNegative(field string, value decimal.Decimal) {
	if value.IsNegative() {
		v.Add(field, "must be zero or greater")
	}
}

// Decimal parses a JSON number or numeric string. Empty input is reported.
func (v *Validator) Decimal(field, raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.Add(field, "is required")
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		v.Add(field, "must be a number")
		return decimal.Zero, false
	}
	return d, true
}

// Issues returns the collected issues ordered by field, then reason.
func (v *Validator) Issues() []ValidationIssue {
	out := slices.Clone(v.issues)
	slices.SortStableFunc(out, func(a, b ValidationIssue) int {
		return cmp.Or(cmp.Compare(a.Field, b.Field), cmp.Compare(a.Reason, b.Reason))
	})
	return out
}

// Reject writes a validation failure when any issue was collected.
func (v *Validator) Reject(w http.ResponseWriter, requestID string) bool {
	if len(v.issues) == 0 {
		return false
	}
	FailValidation(w, requestID, v.Issues())
	return true
}

func FailValidation(w http.ResponseWriter, requestID string, issues []ValidationIssue) {
	api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "payload validation failed",
		map[string]any{"fields": issues}, requestID)
}
