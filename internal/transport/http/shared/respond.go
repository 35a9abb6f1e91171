// Package shared holds response helpers used by every HTTP handler.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "bolao/pkg/domainerrors"
)

// MessageResponse is the error envelope of the API. Callers distinguish
// business-rule rejections only by the message text, so handlers pass domain
// error messages through untouched.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON encodes v with the proper content type and status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error to the HTTP envelope. Anything without
// a domain code is treated as an infrastructure failure and surfaced as a
// generic 500 so internals never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	if errors.As(err, &de) {
		WriteJSON(w, dErrors.ToHTTPStatus(de.Code), MessageResponse{Message: de.Message})
		return
	}
	WriteJSON(w, http.StatusInternalServerError, MessageResponse{Message: "internal server error"})
}
