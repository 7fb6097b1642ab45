package shared

import (
	"errors"
	"net/http"

	"cnct/internal/domain/auth"
	"cnct/internal/domain/invoice"
	"cnct/internal/domain/payroll"
	"cnct/internal/domain/sales"
	"cnct/internal/requestctx"
	"cnct/internal/transport/http/api"
)

// WriteError maps a domain error onto the response envelope.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())

	var verr *sales.ValidationError
	var partial *payroll.PartialUpdateError
	var storageErr *sales.StorageError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &verr):
		FailValidation(w, requestID, verr.Issues)
	case errors.As(err, &tooLarge):
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
	case errors.Is(err, sales.ErrEntryNotFound):
		api.Fail(w, http.StatusNotFound, "entry_not_found", err.Error(), requestID)
	case errors.Is(err, payroll.ErrPeriodNotFound):
		api.Fail(w, http.StatusNotFound, "period_not_found", err.Error(), requestID)
	case errors.Is(err, payroll.ErrNoEntries):
		api.Fail(w, http.StatusNotFound, "no_entries", err.Error(), requestID)
	case errors.Is(err, invoice.ErrItemIndex):
		api.Fail(w, http.StatusBadRequest, "invalid_index", err.Error(), requestID)
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
	case errors.As(err, &partial):
		failed := make(map[string]string, len(partial.Failed))
		for _, id := range partial.FailedIDs() {
			failed[id] = partial.Failed[id].Error()
		}
		api.FailWithDetails(w, http.StatusInternalServerError, "partial_update", err.Error(),
			map[string]any{"updated": partial.Updated, "failed": failed}, requestID)
	case errors.As(err, &storageErr):
		requestctx.Logger(r.Context()).Error("storage failure", "backend", storageErr.Backend, "op", storageErr.Op, "err", storageErr.Err)
		api.Fail(w, http.StatusBadGateway, "storage_error", "storage backend unavailable", requestID)
	default:
		requestctx.Logger(r.Context()).Error("request failed", "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal error", requestID)
	}
}
