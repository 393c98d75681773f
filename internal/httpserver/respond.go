package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/xtding233/codefall/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeSessionError maps session errors to HTTP statuses.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found")
	case errors.Is(err, session.ErrGameOver):
		writeError(w, http.StatusConflict, "game_over")
	case errors.Is(err, session.ErrProblemNotActive):
		writeError(w, http.StatusConflict, "problem_not_active")
	case errors.Is(err, session.ErrFieldFull):
		writeError(w, http.StatusConflict, "field_full")
	case errors.Is(err, session.ErrNoRoom):
		writeError(w, http.StatusConflict, "no_room")
	default:
		log.Error().Err(err).Msg("session call")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}

// decode reads a JSON body; an empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
