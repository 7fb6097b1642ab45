package handlers_test

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"cnct/internal/domain/payroll"
	"cnct/internal/domain/sales"
)

type summary struct {
	Groups     []payroll.PeriodGroup `json:"groups"`
	Unassigned []payroll.EntryLine   `json:"unassigned"`
	TotalPay   decimal.Decimal       `json:"totalPay"`
}

func captureEntry(t *testing.T, client *http.Client, baseURL, chatter, date, amount string) sales.Entry {
	t.Helper()
	env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/entries", "", map[string]any{
		"email":          strings.ToLower(chatter) + "@example.com",
		"chatterName":    chatter,
		"timezone":       "EST",
		"date":           date,
		"modelsWorkedOn": "Model A",
		"shiftTime":      "9-5",
		"wasItCover":     "No",
		"totalNetSale":   amount,
	}, http.StatusCreated)
	var entry sales.Entry
	decodeData(t, env, &entry)
	if entry.ID == "" {
		t.Fatal("expected captured entry to have an id")
	}
	return entry
}

func findChatter(t *testing.T, group payroll.PeriodGroup, name string) payroll.ChatterGroup {
	t.Helper()
	for _, g := range group.ChatterGroups {
		if g.ChatterName == name {
			return g
		}
	}
	t.Fatalf("chatter %q not found in period %s", name, group.PayPeriod.Start.Format(sales.DateLayout))
	return payroll.ChatterGroup{}
}

func TestSalesToPayrollJourney(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()

	options := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/entries/options", "", nil, http.StatusOK)
	var opts sales.Options
	decodeData(t, options, &opts)
	if len(opts.Timezones) != 4 || len(opts.ChatterNames) == 0 {
		t.Fatalf("unexpected options %+v", opts)
	}

	first := captureEntry(t, client, ts.URL, "Cado", "2024-11-05", "100")
	captureEntry(t, client, ts.URL, "Cado", "2024-11-06", "50")
	captureEntry(t, client, ts.URL, "Janko", "2024-11-06", "$1,000.50")
	if !first.PayPercentage.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected default percentage 7, got %s", first.PayPercentage)
	}

	doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/entries", "", nil, http.StatusUnauthorized)
	token := login(t, client, ts.URL)

	var entries []sales.Entry
	decodeData(t, doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/entries", token, nil, http.StatusOK), &entries)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].ID != first.ID {
		t.Fatalf("expected entries sorted by date")
	}

	var sum summary
	decodeData(t, doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/pay-periods/summary?now=2024-11-05", token, nil, http.StatusOK), &sum)
	if len(sum.Groups) != 1 || len(sum.Unassigned) != 0 {
		t.Fatalf("expected one period and no unassigned entries, got %d/%d", len(sum.Groups), len(sum.Unassigned))
	}
	if sum.Groups[0].PayPeriod.Status != payroll.StatusActive {
		t.Fatalf("expected active period, got %q", sum.Groups[0].PayPeriod.Status)
	}
	cado := findChatter(t, sum.Groups[0], "Cado")
	if !cado.TotalPay.Equal(decimal.RequireFromString("10.5")) {
		t.Fatalf("expected Cado pay 10.50, got %s", cado.TotalPay)
	}
	janko := findChatter(t, sum.Groups[0], "Janko")
	if !janko.TotalNetSales.Equal(decimal.RequireFromString("1000.5")) {
		t.Fatalf("expected Janko net sales 1000.50, got %s", janko.TotalNetSales)
	}

	var group payroll.PeriodGroup
	decodeData(t, doJSON(t, client, http.MethodPut, ts.URL+"/api/v1/pay-periods/2024-11-01/chatters/Cado/percentage", token,
		map[string]any{"payPercentage": 10}, http.StatusOK), &group)
	cado = findChatter(t, group, "Cado")
	if !cado.TotalPay.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected Cado pay 15.00 after edit, got %s", cado.TotalPay)
	}
	if !findChatter(t, group, "Janko").PayPercentage.Decimal.Equal(decimal.NewFromInt(7)) {
		t.Fatal("other chatters must keep their percentage")
	}

	resp, raw := do(t, client, http.MethodGet, ts.URL+"/api/v1/pay-periods/2024-11-01/register.xlsx", token, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected register export, got %d: %s", resp.StatusCode, string(raw))
	}
	if !bytes.HasPrefix(raw, []byte("PK")) {
		t.Fatal("expected an xlsx (zip) payload")
	}

	doJSON(t, client, http.MethodDelete, ts.URL+"/api/v1/entries/"+first.ID, token, nil, http.StatusOK)
	missing := doJSON(t, client, http.MethodDelete, ts.URL+"/api/v1/entries/"+first.ID, token, nil, http.StatusNotFound)
	if code := envelopeErrorCode(missing); code != "entry_not_found" {
		t.Fatalf("expected entry_not_found, got %s", code)
	}
}

func TestEntryCaptureValidation(t *testing.T) {
	ts := newTestServer(t)
	env := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/entries", "", map[string]any{
		"chatterName": "Cado",
		"timezone":    "GMT",
		"date":        "05/11/2024",
	}, http.StatusBadRequest)
	assertValidationErrorField(t, env, "email")
	assertValidationErrorField(t, env, "date")
	assertValidationErrorField(t, env, "timezone")
	assertValidationErrorField(t, env, "totalNetSale")

	negative := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/entries", "", map[string]any{
		"email":         "a@example.com",
		"date":          "2024-11-05",
		"totalNetSale":  "10",
		"payPercentage": -1,
	}, http.StatusBadRequest)
	assertValidationErrorField(t, negative, "payPercentage")

	doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/entries", "", "not an object", http.StatusBadRequest)
}

func TestIdempotentEntryCapture(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()
	body := map[string]any{"email": "a@example.com", "chatterName": "Cado", "date": "2024-11-05", "totalNetSale": "10"}
	header := map[string]string{"Idempotency-Key": "form-42"}

	for i := 0; i < 2; i++ {
		resp, raw := do(t, client, http.MethodPost, ts.URL+"/api/v1/entries", "", body, header)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201, got %d: %s", i+1, resp.StatusCode, string(raw))
		}
	}

	token := login(t, client, ts.URL)
	var entries []sales.Entry
	decodeData(t, doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/entries", token, nil, http.StatusOK), &entries)
	if len(entries) != 1 {
		t.Fatalf("expected a single stored entry, got %d", len(entries))
	}
}

func TestPercentageEditErrors(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()
	captureEntry(t, client, ts.URL, "Cado", "2024-11-05", "100")
	token := login(t, client, ts.URL)
	base := ts.URL + "/api/v1/pay-periods/"

	env := doJSON(t, client, http.MethodPut, base+"2024-11-02/chatters/Cado/percentage", token, map[string]any{"payPercentage": 10}, http.StatusNotFound)
	if code := envelopeErrorCode(env); code != "period_not_found" {
		t.Fatalf("expected period_not_found, got %s", code)
	}
	env = doJSON(t, client, http.MethodPut, base+"2024-11-01/chatters/Nobody/percentage", token, map[string]any{"payPercentage": 10}, http.StatusNotFound)
	if code := envelopeErrorCode(env); code != "no_entries" {
		t.Fatalf("expected no_entries, got %s", code)
	}
	env = doJSON(t, client, http.MethodPut, base+"2024-11-01/chatters/Cado/percentage", token, map[string]any{"payPercentage": -5}, http.StatusBadRequest)
	assertValidationErrorField(t, env, "payPercentage")
	env = doJSON(t, client, http.MethodPut, base+"2024-11-01/chatters/Cado/percentage", token, map[string]any{}, http.StatusBadRequest)
	assertValidationErrorField(t, env, "payPercentage")
	doJSON(t, client, http.MethodPut, base+"2024-11-01/chatters/Cado/percentage", "", map[string]any{"payPercentage": 10}, http.StatusUnauthorized)
}

func TestPercentageEditEscapedChatterNames(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()
	names := []string{"100%Guy", "50% A/B Team", "Ana Maria"}
	for _, name := range names {
		captureEntry(t, client, ts.URL, name, "2024-11-05", "100")
	}
	token := login(t, client, ts.URL)

	for _, name := range names {
		var group payroll.PeriodGroup
		target := ts.URL + "/api/v1/pay-periods/2024-11-01/chatters/" + url.PathEscape(name) + "/percentage"
		decodeData(t, doJSON(t, client, http.MethodPut, target, token, map[string]any{"payPercentage": 12}, http.StatusOK), &group)
		got := findChatter(t, group, name)
		if !got.TotalPay.Equal(decimal.NewFromInt(12)) {
			t.Fatalf("expected %q pay 12.00, got %s", name, got.TotalPay)
		}
	}
}

func TestListPayPeriods(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts.Client(), ts.URL)

	var periods []payroll.PeriodWithStatus
	decodeData(t, doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/v1/pay-periods?now=2024-11-20&count=3", token, nil, http.StatusOK), &periods)
	if len(periods) != 3 {
		t.Fatalf("expected 3 periods, got %d", len(periods))
	}
	if periods[0].Status != payroll.StatusPaid || periods[1].Status != payroll.StatusActive || periods[2].Status != payroll.StatusInactive {
		t.Fatalf("unexpected statuses %q %q %q", periods[0].Status, periods[1].Status, periods[2].Status)
	}
	if periods[0].End.Format(sales.DateLayout) != "2024-11-14" || periods[0].ChatterPayDate.Format(sales.DateLayout) != "2024-11-16" {
		t.Fatalf("unexpected first period %+v", periods[0].Period)
	}

	_, raw := do(t, ts.Client(), http.MethodGet, ts.URL+"/api/v1/pay-periods?now=2024-11-20&count=1", token, nil, nil)
	if !bytes.Contains(raw, []byte(`"end":"2024-11-14"`)) {
		t.Fatalf("expected calendar dates on the wire, got %s", raw)
	}

	env := doJSON(t, ts.Client(), http.MethodGet, ts.URL+"/api/v1/pay-periods?now=tomorrow", token, nil, http.StatusBadRequest)
	assertValidationErrorField(t, env, "now")
}

func TestInvoiceEndpoints(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()
	token := login(t, client, ts.URL)

	items := []map[string]any{
		{"description": "Chatting", "netSales": "100", "fees": "7", "amount": "93"},
		{"description": "Tips", "netSales": "50", "fees": "3.5", "amount": "46.5"},
	}
	var totals map[string]string
	decodeData(t, doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/invoices/totals", token, map[string]any{"items": items}, http.StatusOK), &totals)
	if totals["netSalesTotal"] != "150.00" || totals["totalToPay"] != "139.50" {
		t.Fatalf("unexpected totals %v", totals)
	}

	var tpl map[string]any
	decodeData(t, doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/invoices/template", token,
		map[string]any{"text": "Bill To: Acme\nStart Date: 1/11/2024\nTotal Sales: 2,000\nNet Pay: 1,500"}, http.StatusOK), &tpl)
	if tpl["billTo"] != "Acme" || tpl["dateStart"] != "2024-11-01" {
		t.Fatalf("unexpected template %v", tpl)
	}

	env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/invoices/items/move", token,
		map[string]any{"items": items, "from": 0, "to": 5}, http.StatusBadRequest)
	if code := envelopeErrorCode(env); code != "invalid_index" {
		t.Fatalf("expected invalid_index, got %s", code)
	}

	resp, raw := do(t, client, http.MethodPost, ts.URL+"/api/v1/invoices/pdf", token, map[string]any{
		"invoiceNumber": "INV 7",
		"billTo":        "Acme",
		"items":         items,
	}, nil)
	if resp.StatusCode != http.StatusOK || !bytes.HasPrefix(raw, []byte("%PDF-")) {
		t.Fatalf("expected pdf, got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "invoice-INV-7.pdf") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
}

func TestOverviewAndMetrics(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()
	token := login(t, client, ts.URL)

	var report map[string]any
	decodeData(t, doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/overview", token, map[string]any{
		"income":      "10000",
		"expenses":    "7500",
		"cashInflows": "8000",
	}, http.StatusOK), &report)
	if report["netProfit"] != "2500" || report["cashFlowPositive"] != true {
		t.Fatalf("unexpected overview %v", report)
	}

	var snap struct {
		HTTP map[string]any `json:"http"`
		Jobs map[string]any `json:"jobs"`
	}
	decodeData(t, doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/metrics", token, nil, http.StatusOK), &snap)
	if total, _ := snap.HTTP["requestsTotal"].(float64); total < 2 {
		t.Fatalf("expected recorded requests, got %v", snap.HTTP["requestsTotal"])
	}
	if snap.Jobs == nil {
		t.Fatalf("expected a jobs section in metrics")
	}
}

func TestHealthAndReadiness(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		resp, raw := do(t, ts.Client(), http.MethodGet, ts.URL+path, "", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, resp.StatusCode, string(raw))
		}
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	env := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/auth/login", "", map[string]any{
		"email":    operatorEmail,
		"password": "wrong",
	}, http.StatusUnauthorized)
	if code := envelopeErrorCode(env); code != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials, got %s", code)
	}
}
