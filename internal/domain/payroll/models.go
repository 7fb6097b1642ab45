package payroll

import (
	"time"

	"cnct/internal/domain/sales"

	"github.com/shopspring/decimal"
)

// Period is one pay window; Start and End are both inclusive.
type Period struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	InvoiceDate    time.Time `json:"invoiceDate"`
	ChatterPayDate time.Time `json:"chatterPayDate"`
}

type PeriodWithStatus struct {
	Period
	Status string `json:"status"`
}

type EntryLine struct {
	sales.Entry
	Pay decimal.Decimal `json:"pay"`
}

type ChatterGroup struct {
	ChatterName     string              `json:"chatterName"`
	Entries         []EntryLine         `json:"entries"`
	TotalNetSales   decimal.Decimal     `json:"totalNetSales"`
	TotalPay        decimal.Decimal     `json:"totalPay"`
	PayPercentage   decimal.NullDecimal `json:"payPercentage"`
	PercentageMixed bool                `json:"percentageMixed"`
}

type PeriodGroup struct {
	PayPeriod     PeriodWithStatus `json:"payPeriod"`
	ChatterGroups []ChatterGroup   `json:"chatterGroups"`
	TotalPay      decimal.Decimal  `json:"totalPay"`
}

// Result is the aggregator output. Unassigned holds entries dated outside
// every supplied period.
type Result struct {
	Groups     []PeriodGroup `json:"groups"`
	Unassigned []EntryLine   `json:"unassigned"`
}
