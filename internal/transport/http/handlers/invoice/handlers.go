package invoicehandler

import (
	"bytes"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"cnct/internal/domain/auth"
	"cnct/internal/domain/invoice"
	"cnct/internal/requestctx"
	"cnct/internal/transport/http/api"
	"cnct/internal/transport/http/middleware"
	"cnct/internal/transport/http/shared"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type Handler struct {
	PDF invoice.PDFOptions
}

func NewHandler(opts invoice.PDFOptions) *Handler {
	return &Handler{PDF: opts}
}

type itemsPayload struct {
	Items []invoice.Item `json:"items"`
}

type movePayload struct {
	Items []invoice.Item `json:"items"`
	From  int            `json:"from"`
	To    int            `json:"to"`
}

type templatePayload struct {
	Text string `json:"text"`
}

type totalsResponse struct {
	NetSalesTotal string `json:"netSalesTotal"`
	TotalToPay    string `json:"totalToPay"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/invoices", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermInvoicesWrite))
		r.Post("/totals", h.handleTotals)
		r.Post("/items/move", h.handleMoveItem)
		r.Post("/template", h.handleTemplate)
		r.Post("/pdf", h.handlePDF)
	})
}

func (h *Handler) handleTotals(w http.ResponseWriter, r *http.Request) {
	var payload itemsPayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	api.Success(w, formatTotals(invoice.ComputeTotals(payload.Items)), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	var payload movePayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	items, err := invoice.MoveItem(payload.Items, payload.From, payload.To)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]any{
		"items":  items,
		"totals": formatTotals(invoice.ComputeTotals(items)),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTemplate(w http.ResponseWriter, r *http.Request) {
	var payload templatePayload
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	api.Success(w, invoice.ParseTemplate(payload.Text), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	var inv invoice.Invoice
	if !shared.DecodeJSON(w, r, &inv) {
		return
	}
	if inv.Items == nil {
		inv.Items = []invoice.Item{}
	}
	var buf bytes.Buffer
	if err := invoice.RenderPDF(&buf, inv, h.PDF); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	requestctx.Logger(r.Context()).Info("invoice rendered", "invoiceNumber", inv.InvoiceNumber, "items", len(inv.Items), "bytes", buf.Len())
	api.Attachment(w, "application/pdf", filename(inv.InvoiceNumber), buf.Bytes())
}

func formatTotals(t invoice.Totals) totalsResponse {
	return totalsResponse{
		NetSalesTotal: invoice.Money(t.NetSalesTotal),
		TotalToPay:    invoice.Money(t.TotalToPay),
	}
}

func filename(number string) string {
	safe := unsafeFilename.ReplaceAllString(number, "-")
	if safe == "" || safe == "-" {
		return "invoice.pdf"
	}
	return "invoice-" + safe + ".pdf"
}
