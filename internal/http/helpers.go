package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bilancio/internal/core"
)

var errInvalidHorizon = errors.New("invalid horizon")

// parseToday extracts the reference date from the "today" query parameter,
// defaulting to the server's current date. The engine only ever sees the
// explicit value.
func parseToday(r *http.Request) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get("today"))
	if v == "" {
		return core.DateOf(time.Now()), nil
	}
	return core.ParseDate(v)
}

// parseHorizon extracts the "horizon" query parameter in months; zero
// means "use the configured default".
func parseHorizon(r *http.Request) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("horizon"))
	if v == "" {
		return 0, nil
	}
	h, err := strconv.Atoi(v)
	if err != nil || h < 1 || h > 120 {
		return 0, errInvalidHorizon
	}
	return h, nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
