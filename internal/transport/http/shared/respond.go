// Package shared holds response helpers used by every HTTP handler so error
// envelopes and JSON encoding stay uniform across the API.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "verifai/pkg/domain-errors"
)

// WriteJSON encodes payload with the given status. Encoding failures are
// ignored; by then the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError translates a coded error to its HTTP envelope. Only the code and
// the client-safe message leave the process; wrapped causes stay in logs.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error":   string(code),
		"message": dErrors.MessageOf(err),
	})
}
