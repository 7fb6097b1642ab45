package overview

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	TopN = 5

	InsightPositive = "Current cash flow is positive. Consider reinvesting in growth areas or improving efficiency to increase profitability further."
	InsightNegative = "Cash flow is negative. Review expenses and consider ways to increase income or reduce costs."
)

var hundred = decimal.NewFromInt(100)

// Compute derives the overview report. Margin is a percentage rounded to two
// places and is zero when income is zero.
func Compute(in Input) Report {
	net := in.Income.Sub(in.Expenses)
	margin := decimal.Zero
	if !in.Income.IsZero() {
		margin = net.Div(in.Income).Mul(hundred).Round(2)
	}
	positive := in.CashInflows.GreaterThan(in.Expenses)
	insight := InsightNegative
	if positive {
		insight = InsightPositive
	}

	return Report{
		Income:               in.Income,
		Expenses:             in.Expenses,
		NetProfit:            net,
		GrossProfitMargin:    margin,
		CashInflows:          in.CashInflows,
		CashToHand:           in.CashToHand,
		CashFlowPositive:     positive,
		CashFlowInsight:      insight,
		MonthlyIncome:        nonNil(in.MonthlyIncome),
		MonthlyIncomeTotal:   sum(in.MonthlyIncome),
		QuarterlyIncome:      nonNil(in.QuarterlyIncome),
		QuarterlyIncomeTotal: sum(in.QuarterlyIncome),
		TopClients:           topClients(in.Clients),
		TopChatters:          topChatters(in.Chatters),
		PaymentSchedule:      schedule(in.Payroll, in.Clients),
	}
}

func topClients(clients []Client) []Client {
	out := append([]Client{}, clients...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPaid.GreaterThan(out[j].TotalPaid)
	})
	if len(out) > TopN {
		out = out[:TopN]
	}
	return out
}

func topChatters(chatters []ChatterPayment) []ChatterPayment {
	out := append([]ChatterPayment{}, chatters...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Payment.GreaterThan(out[j].Payment)
	})
	if len(out) > TopN {
		out = out[:TopN]
	}
	return out
}

// schedule lists payroll runs followed by client payments, as entered.
func schedule(payroll []PayrollLine, clients []Client) []ScheduleItem {
	out := make([]ScheduleItem, 0, len(payroll)+len(clients))
	for _, p := range payroll {
		out = append(out, ScheduleItem{Label: p.Department + " Payroll", Amount: p.Amount, Date: p.PayDate})
	}
	for _, c := range clients {
		out = append(out, ScheduleItem{Label: c.Name + " Payment", Amount: c.Amount, Date: c.DueDate})
	}
	return out
}

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

func nonNil(values []decimal.Decimal) []decimal.Decimal {
	if values == nil {
		return []decimal.Decimal{}
	}
	return values
}
