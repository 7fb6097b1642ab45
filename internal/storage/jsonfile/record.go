package jsonfile

import (
	"strings"
	"time"

	"cnct/internal/domain/sales"

	"github.com/shopspring/decimal"
)

// record is the on-disk shape: a flat array of camelCase objects with the
// date as YYYY-MM-DD. Older files may lack id, payPercentage or createdAt.
type record struct {
	ID             string           `json:"id"`
	Email          string           `json:"email"`
	ChatterName    string           `json:"chatterName"`
	Timezone       string           `json:"timezone"`
	Date           string           `json:"date"`
	ModelsWorkedOn string           `json:"modelsWorkedOn"`
	ShiftTime      string           `json:"shiftTime"`
	WasItCover     string           `json:"wasItCover"`
	WhoCovered     string           `json:"whoCovered"`
	TotalNetSale   string           `json:"totalNetSale"`
	PayPercentage  *decimal.Decimal `json:"payPercentage,omitempty"`
	CreatedAt      *time.Time       `json:"createdAt,omitempty"`
}

func toRecord(e sales.Entry) record {
	pct := e.PayPercentage
	created := e.CreatedAt
	return record{
		ID:             e.ID,
		Email:          e.Email,
		ChatterName:    e.ChatterName,
		Timezone:       e.Timezone,
		Date:           e.Date.Format(sales.DateLayout),
		ModelsWorkedOn: e.ModelsWorkedOn,
		ShiftTime:      e.ShiftTime,
		WasItCover:     e.WasItCover,
		WhoCovered:     e.WhoCovered,
		TotalNetSale:   e.TotalNetSale,
		PayPercentage:  &pct,
		CreatedAt:      &created,
	}
}

func (r record) toEntry() sales.Entry {
	e := sales.Entry{
		ID:             r.ID,
		Email:          r.Email,
		ChatterName:    r.ChatterName,
		Timezone:       r.Timezone,
		ModelsWorkedOn: r.ModelsWorkedOn,
		ShiftTime:      r.ShiftTime,
		WasItCover:     r.WasItCover,
		WhoCovered:     r.WhoCovered,
		TotalNetSale:   r.TotalNetSale,
		NetSale:        sales.ParseAmount(r.TotalNetSale),
		PayPercentage:  sales.DefaultPayPercentage,
	}
	if day, err := sales.ParseDay(r.Date); err == nil {
		e.Date = day
	} else if t, err := time.Parse(time.RFC3339, strings.TrimSpace(r.Date)); err == nil {
		e.Date = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	if r.PayPercentage != nil {
		e.PayPercentage = *r.PayPercentage
	}
	if r.CreatedAt != nil {
		e.CreatedAt = *r.CreatedAt
	}
	return e
}
