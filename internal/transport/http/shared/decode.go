package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"cnct/internal/requestctx"
	"cnct/internal/transport/http/api"
)

// DecodeJSON reads the body into dst and writes the failure response itself
// when it returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, r, err)
			return false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return false
	}
	return true
}
