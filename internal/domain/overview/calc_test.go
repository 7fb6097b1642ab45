package overview

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestComputeProfitAndMargin(t *testing.T) {
	r := Compute(Input{Income: d("10000"), Expenses: d("7500"), CashInflows: d("8000")})
	if !r.NetProfit.Equal(d("2500")) {
		t.Fatalf("expected net profit 2500, got %s", r.NetProfit)
	}
	if !r.GrossProfitMargin.Equal(d("25")) {
		t.Fatalf("expected margin 25, got %s", r.GrossProfitMargin)
	}
	if !r.CashFlowPositive || r.CashFlowInsight != InsightPositive {
		t.Fatalf("expected positive cash flow")
	}
}

func TestComputeZeroIncome(t *testing.T) {
	r := Compute(Input{Expenses: d("100")})
	if !r.GrossProfitMargin.IsZero() {
		t.Fatalf("expected zero margin, got %s", r.GrossProfitMargin)
	}
	if !r.NetProfit.Equal(d("-100")) {
		t.Fatalf("expected net profit -100, got %s", r.NetProfit)
	}
	if r.CashFlowPositive || r.CashFlowInsight != InsightNegative {
		t.Fatalf("expected negative cash flow")
	}
	if r.TopClients == nil || r.TopChatters == nil || r.MonthlyIncome == nil {
		t.Fatalf("lists must be empty, not nil")
	}
}

func TestComputeCashFlowEqualIsNegative(t *testing.T) {
	r := Compute(Input{Income: d("1"), Expenses: d("500"), CashInflows: d("500")})
	if r.CashFlowPositive {
		t.Fatalf("inflows equal to expenses must not count as positive")
	}
}

func TestComputeTopFive(t *testing.T) {
	var clients []Client
	var chatters []ChatterPayment
	for i, v := range []string{"10", "70", "30", "90", "50", "20", "80"} {
		name := string(rune('A' + i))
		clients = append(clients, Client{Name: name, TotalPaid: d(v)})
		chatters = append(chatters, ChatterPayment{Name: name, Payment: d(v)})
	}
	r := Compute(Input{Clients: clients, Chatters: chatters})
	if len(r.TopClients) != TopN || len(r.TopChatters) != TopN {
		t.Fatalf("expected top %d, got %d clients %d chatters", TopN, len(r.TopClients), len(r.TopChatters))
	}
	want := []string{"D", "G", "B", "E", "C"}
	for i, name := range want {
		if r.TopClients[i].Name != name || r.TopChatters[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s / %s", i, name, r.TopClients[i].Name, r.TopChatters[i].Name)
		}
	}
	if clients[0].Name != "A" {
		t.Fatalf("input was reordered")
	}
	if len(r.PaymentSchedule) != len(clients) {
		t.Fatalf("expected a schedule line per client, got %d", len(r.PaymentSchedule))
	}
}

func TestComputeIncomeTotals(t *testing.T) {
	r := Compute(Input{
		MonthlyIncome:   []decimal.Decimal{d("1"), d("2"), d("3")},
		QuarterlyIncome: []decimal.Decimal{d("10"), d("20")},
		Payroll:         []PayrollLine{{Department: "Chat", Amount: d("400"), PayDate: "2024-11-16"}},
	})
	if !r.MonthlyIncomeTotal.Equal(d("6")) || !r.QuarterlyIncomeTotal.Equal(d("30")) {
		t.Fatalf("unexpected totals %s %s", r.MonthlyIncomeTotal, r.QuarterlyIncomeTotal)
	}
	if len(r.PaymentSchedule) != 1 || r.PaymentSchedule[0].Label != "Chat Payroll" {
		t.Fatalf("unexpected schedule %+v", r.PaymentSchedule)
	}
}
