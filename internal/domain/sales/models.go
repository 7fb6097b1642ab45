package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one recorded shift. TotalNetSale keeps the amount as it was typed;
// NetSale is the parsed value used for pay computation.
type Entry struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	ChatterName    string          `json:"chatterName"`
	Timezone       string          `json:"timezone"`
	Date           time.Time       `json:"date"`
	ModelsWorkedOn string          `json:"modelsWorkedOn"`
	ShiftTime      string          `json:"shiftTime"`
	WasItCover     string          `json:"wasItCover"`
	WhoCovered     string          `json:"whoCovered"`
	TotalNetSale   string          `json:"totalNetSale"`
	NetSale        decimal.Decimal `json:"netSale"`
	PayPercentage  decimal.Decimal `json:"payPercentage"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Input is the submitted entry form. The legacy flat-file records share this shape.
type Input struct {
	Email          string   `json:"email" validate:"required"`
	ChatterName    string   `json:"chatterName"`
	Timezone       string   `json:"timezone" validate:"omitempty,oneof=EST CST MST PST"`
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	ModelsWorkedOn string   `json:"modelsWorkedOn"`
	ShiftTime      string   `json:"shiftTime"`
	WasItCover     string   `json:"wasItCover" validate:"omitempty,oneof=Yes No"`
	WhoCovered     string   `json:"whoCovered"`
	TotalNetSale   string   `json:"totalNetSale" validate:"required"`
	PayPercentage  *float64 `json:"payPercentage,omitempty" validate:"omitempty,gte=0"`
}

type Options struct {
	ChatterNames []string `json:"chatterNames"`
	Models       []string `json:"models"`
	Timezones    []string `json:"timezones"`
	CoverValues  []string `json:"coverValues"`
}

type ImportRejection struct {
	Index  int          `json:"index"`
	Issues []FieldIssue `json:"issues"`
}

type ImportResult struct {
	Imported []string          `json:"imported"`
	Rejected []ImportRejection `json:"rejected"`
}
