package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hermecp/mapacuestionario/internal/present"
	"github.com/hermecp/mapacuestionario/internal/session"
	"github.com/hermecp/mapacuestionario/internal/survey"
)

// loadErrorPrefix starts every user-facing load failure message.
const loadErrorPrefix = "Error al cargar el archivo: "

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusFor maps a domain error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnknownColumn):
		return http.StatusBadRequest
	case errors.Is(err, present.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	case survey.IsSourceUnavailable(err):
		return http.StatusBadGateway
	case survey.IsDataFormat(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// loadErrorMessage renders a load failure for the error banner.
func loadErrorMessage(err error) string {
	return loadErrorPrefix + err.Error()
}
