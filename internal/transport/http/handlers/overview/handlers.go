package overviewhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cnct/internal/domain/auth"
	"cnct/internal/domain/overview"
	"cnct/internal/transport/http/api"
	"cnct/internal/transport/http/middleware"
	"cnct/internal/transport/http/shared"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermOverviewRead)).Post("/overview", h.handleCompute)
}

func (h *Handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	var in overview.Input
	if !shared.DecodeJSON(w, r, &in) {
		return
	}
	api.Success(w, overview.Compute(in), middleware.GetRequestID(r.Context()))
}
