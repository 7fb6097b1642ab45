package overview

import "github.com/shopspring/decimal"

type Client struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    string          `json:"dueDate"`
	Percentage decimal.Decimal `json:"percentage"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
	Status     string          `json:"status"`
	StartDate  string          `json:"startDate"`
}

type ChatterPayment struct {
	Name        string          `json:"name"`
	Payment     decimal.Decimal `json:"payment"`
	PaymentDate string          `json:"paymentDate"`
}

type PayrollLine struct {
	Department string          `json:"department"`
	Amount     decimal.Decimal `json:"amount"`
	PayDate    string          `json:"payDate"`
}

// Input is the manually entered financial data. None of it is persisted.
type Input struct {
	Income          decimal.Decimal   `json:"income"`
	Expenses        decimal.Decimal   `json:"expenses"`
	CashInflows     decimal.Decimal   `json:"cashInflows"`
	CashToHand      decimal.Decimal   `json:"cashToHand"`
	MonthlyIncome   []decimal.Decimal `json:"monthlyIncome"`
	QuarterlyIncome []decimal.Decimal `json:"quarterlyIncome"`
	Clients         []Client          `json:"clients"`
	Chatters        []ChatterPayment  `json:"chatters"`
	Payroll         []PayrollLine     `json:"payroll"`
}

type ScheduleItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

type Report struct {
	Income               decimal.Decimal   `json:"income"`
	Expenses             decimal.Decimal   `json:"expenses"`
	NetProfit            decimal.Decimal   `json:"netProfit"`
	GrossProfitMargin    decimal.Decimal   `json:"grossProfitMargin"`
	CashInflows          decimal.Decimal   `json:"cashInflows"`
	CashToHand           decimal.Decimal   `json:"cashToHand"`
	CashFlowPositive     bool              `json:"cashFlowPositive"`
	CashFlowInsight      string            `json:"cashFlowInsight"`
	MonthlyIncome        []decimal.Decimal `json:"monthlyIncome"`
	MonthlyIncomeTotal   decimal.Decimal   `json:"monthlyIncomeTotal"`
	QuarterlyIncome      []decimal.Decimal `json:"quarterlyIncome"`
	QuarterlyIncomeTotal decimal.Decimal   `json:"quarterlyIncomeTotal"`
	TopClients           []Client          `json:"topClients"`
	TopChatters          []ChatterPayment  `json:"topChatters"`
	PaymentSchedule      []ScheduleItem    `json:"paymentSchedule"`
}
