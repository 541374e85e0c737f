// Package response holds the JSON encoding helpers shared by the HTTP
// handlers, including the mapping from core error kinds to status codes.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/markdave123-py/Conversa/internal/core"
)

type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// StatusFor maps a core error to its HTTP status. Upstream provider
// failures surface as 502 so callers can tell them from our own faults.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrEmbedding), errors.Is(err, core.ErrLanguageModel):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func FromError(w http.ResponseWriter, err error) {
	Error(w, StatusFor(err), err.Error())
}
