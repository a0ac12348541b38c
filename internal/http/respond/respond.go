// Package respond holds the JSON and error helpers shared by the API handlers.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/toby-sam/budget/internal/backup"
	"github.com/toby-sam/budget/internal/budget"
	"github.com/toby-sam/budget/internal/export"
	"github.com/toby-sam/budget/internal/importer"
	"github.com/toby-sam/budget/internal/store"
	"github.com/toby-sam/budget/internal/tracker"
)

// maxBody caps JSON request bodies.
const maxBody = 1 << 20

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Decode reads a JSON request body into v. Unknown fields are rejected so
// typos in field names surface as 400s rather than silent zero values.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %s", tracker.ErrInvalidInput, err)
	}

	return nil
}

// Status maps a domain error to an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, tracker.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrDuplicateCategory), errors.Is(err, store.ErrNothingToUndo):
		return http.StatusConflict
	case errors.Is(err, tracker.ErrInvalidInput),
		errors.Is(err, backup.ErrInvalidBackup),
		errors.Is(err, importer.ErrNoTransactions),
		errors.Is(err, export.ErrEmpty),
		errors.Is(err, budget.ErrUnknownField):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

// Error writes err as a JSON body. Server errors are logged and their detail
// is not echoed back.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	msg := err.Error()

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}

	JSON(w, status, errorResponse{Error: msg})
}

// BadRequest wraps a plain message as invalid input.
func BadRequest(w http.ResponseWriter, r *http.Request, format string, args ...any) {
	Error(w, r, fmt.Errorf("%w: %s", tracker.ErrInvalidInput, fmt.Sprintf(format, args...)))
}
