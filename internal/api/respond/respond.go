// Package respond writes the API's JSON bodies. Success payloads always
// carry a message field; error payloads are {"message": ...} with the
// matching HTTP status, per the public contract.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

const contentType = "application/json"

// ErrorBody is the wire form of every error response.
type ErrorBody struct {
	Message string `json:"message"`
}

// JSON writes a success payload.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error writes an error response and logs it through the request-scoped
// logger: client errors at warn, server errors at error. The message is the
// user-facing text; err carries the internal cause and is never sent to the
// client.
func Error(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Err(err).
			Int("status", status).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(message)
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	payload, marshalErr := json.Marshal(ErrorBody{Message: message})
	if marshalErr != nil {
		_, _ = w.Write([]byte(`{"message":"Internal server error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// Internal writes the generic 500 response without leaking internals.
func Internal(w http.ResponseWriter, r *http.Request, err error) {
	Error(w, r, http.StatusInternalServerError, "Internal server error", err)
}
