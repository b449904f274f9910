package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"piano/internal/core"
	"piano/internal/services"
)

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps service errors onto HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrRangeTooLarge):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyCurrency),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidFrequency),
		errors.Is(err, core.ErrInvalidType):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "url", r.URL.Path, "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

// pathID extracts the {id} path segment as an int64.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", r.PathValue("id"))
	}
	return id, nil
}

// decodeJSON decodes a request body into v, rejecting unknown fields and
// oversized payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// queryRange reads optional start/end query parameters. Empty values are
// returned as-is; the projection service fills in defaults.
func queryRange(r *http.Request) (start, end core.YearMonth, err error) {
	q := r.URL.Query()
	start = core.YearMonth(q.Get("start"))
	end = core.YearMonth(q.Get("end"))
	if start != "" && !start.Valid() {
		return "", "", fmt.Errorf("%w: start=%q", core.ErrInvalidDate, start)
	}
	if end != "" && !end.Valid() {
		return "", "", fmt.Errorf("%w: end=%q", core.ErrInvalidDate, end)
	}
	return start, end, nil
}
