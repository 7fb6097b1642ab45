package payrollhandler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"cnct/internal/domain/auth"
	"cnct/internal/domain/payroll"
	"cnct/internal/domain/sales"
	"cnct/internal/transport/http/api"
	"cnct/internal/transport/http/middleware"
	"cnct/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

type percentagePayload struct {
	PayPercentage json.Number `json:"payPercentage"`
}

type summaryResponse struct {
	Groups     []payroll.PeriodGroup `json:"groups"`
	Unassigned []payroll.EntryLine   `json:"unassigned"`
	TotalPay   decimal.Decimal       `json:"totalPay"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/pay-periods", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/", h.handleListPeriods)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/summary", h.handleSummary)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/{start}", h.handlePeriod)
		r.With(middleware.RequirePermission(auth.PermPayrollWrite)).Put("/{start}/chatters/{chatterName}/percentage", h.handleSetPercentage)
		r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/{start}/register.xlsx", h.handleExportRegister)
	})
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	now := h.nowParam(r, v)
	count := v.IntRange("count", r.URL.Query().Get("count"), 0, payroll.MaxPeriods, 0)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	periods, err := h.Service.ListPeriods(now, count)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, periods, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	now := h.nowParam(r, v)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	res, err := h.Service.Summary(r.Context(), now)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, summaryResponse{
		Groups:     res.Groups,
		Unassigned: res.Unassigned,
		TotalPay:   res.TotalPay(),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePeriod(w http.ResponseWriter, r *http.Request) {
	start, ok := h.startParam(w, r)
	if !ok {
		return
	}
	group, err := h.Service.PeriodGroup(r.Context(), start)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, group, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSetPercentage(w http.ResponseWriter, r *http.Request) {
	start, ok := h.startParam(w, r)
	if !ok {
		return
	}
	chatter, err := chatterParam(r)
	if err != nil || strings.TrimSpace(chatter) == "" {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "chatterName", Reason: "is required"}})
		return
	}

	var payload percentagePayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	pct, _ := v.Decimal("payPercentage", payload.PayPercentage.String())
	v.NonNegative("payPercentage", pct)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	group, err := h.Service.SetGroupPercentage(r.Context(), start, chatter, pct)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, group, middleware.GetRequestID(r.Context()))
}

// chatterParam returns the decoded chatterName segment. chi matches on the
// escaped path only when the request carried non-default escapes such as %2F.
func chatterParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "chatterName")
	if r.URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}

func (h *Handler) handleExportRegister(w http.ResponseWriter, r *http.Request) {
	start, ok := h.startParam(w, r)
	if !ok {
		return
	}
	data, err := h.Service.ExportRegister(r.Context(), start)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	filename := "pay-register-" + start.Format(sales.DateLayout) + ".xlsx"
	api.Attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename, data)
}

func (h *Handler) startParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	v := shared.NewValidator()
	start, ok := v.Date("start", chi.URLParam(r, "start"))
	if !ok {
		v.Reject(w, middleware.GetRequestID(r.Context()))
		return time.Time{}, false
	}
	return start, true
}

// nowParam reads the optional "now" query date used to compute statuses.
func (h *Handler) nowParam(r *http.Request, v *shared.Validator) time.Time {
	raw := r.URL.Query().Get("now")
	if raw == "" {
		return h.Service.CurrentTime()
	}
	now, _ := v.Date("now", raw)
	return now
}
