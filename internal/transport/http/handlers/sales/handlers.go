package saleshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cnct/internal/domain/auth"
	"cnct/internal/domain/sales"
	"cnct/internal/requestctx"
	"cnct/internal/transport/http/api"
	"cnct/internal/transport/http/middleware"
	"cnct/internal/transport/http/shared"
)

type Handler struct {
	Service     *sales.Service
	Idempotency *middleware.IdempotencyStore
}

func NewHandler(service *sales.Service, idempotency *middleware.IdempotencyStore) *Handler {
	return &Handler{Service: service, Idempotency: idempotency}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/entries", func(r chi.Router) {
		r.Get("/options", h.handleOptions)
		r.With(middleware.Idempotency(h.Idempotency)).Post("/", h.handleCapture)
		r.With(middleware.RequirePermission(auth.PermEntriesRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEntriesWrite)).Post("/import", h.handleImport)
		r.With(middleware.RequirePermission(auth.PermEntriesWrite)).Delete("/{entryID}", h.handleDelete)
	})
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	api.Success(w, sales.DefaultOptions(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCapture(w http.ResponseWriter, r *http.Request) {
	var payload sales.Input
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	entry, err := h.Service.Capture(r.Context(), payload)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	requestctx.Logger(r.Context()).Info("sales entry captured", "id", entry.ID, "chatter", entry.ChatterName, "date", entry.Date.Format(sales.DateLayout))
	api.Created(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.List(r.Context())
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	page := shared.ParsePagination(r, 0, 1000)
	api.Success(w, shared.Page(entries, page), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	var records []sales.Input
	if !shared.DecodeJSON(w, r, &records) {
		return
	}
	result, err := h.Service.Import(r.Context(), records)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	requestctx.Logger(r.Context()).Info("legacy entries imported", "imported", len(result.Imported), "rejected", len(result.Rejected))
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "entryID")
	if err := h.Service.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"id": id, "status": "deleted"}, middleware.GetRequestID(r.Context()))
}
