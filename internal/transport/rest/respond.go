package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/readmemo/vocab-backend/internal/domain"
)

// envelope is the uniform response shape: success flag, human message,
// optional payload.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// respondError maps domain errors to HTTP statuses. Validation messages pass
// through verbatim; unexpected errors are logged and hidden behind a generic
// 500 message.
func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "word already in vocabulary")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found or no permission")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
