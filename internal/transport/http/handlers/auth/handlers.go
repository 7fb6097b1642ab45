package authhandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"cnct/internal/domain/auth"
	"cnct/internal/requestctx"
	"cnct/internal/transport/http/api"
	"cnct/internal/transport/http/middleware"
	"cnct/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{Service: service}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.HandleLogin)
		r.Get("/me", h.HandleMe)
	})
}

func validateLogin(payload loginRequest) []shared.ValidationIssue {
	v := shared.NewValidator()
	v.Required("email", payload.Email)
	v.Required("password", payload.Password)
	if payload.Email != "" && !strings.Contains(payload.Email, "@") {
		v.Add("email", "must be an email address")
	}
	return v.Issues()
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	if issues := validateLogin(payload); len(issues) > 0 {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), issues)
		return
	}

	session, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		requestctx.Logger(r.Context()).Warn("login failed", "email", payload.Email)
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, session, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, auth.SessionUser{Email: user.Email, Role: user.RoleName}, middleware.GetRequestID(r.Context()))
}
