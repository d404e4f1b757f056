// Package shared holds response helpers used by every HTTP handler.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "dokumentporten/pkg/domain-errors"
)

// APIError is the JSON error envelope returned to clients. Upstream detail
// never leaks into it; the message is the domain error's own text.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into its HTTP response.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := ""
	var dErr *dErrors.Error
	if dErrors.AsDomain(err, &dErr) {
		message = dErr.Message
	}
	if code == dErrors.CodeInternal {
		// Internal causes are logged server-side only.
		message = "internal server error"
	}
	WriteJSON(w, httpStatus(code), APIError{Error: string(code), Message: message})
}

func httpStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
