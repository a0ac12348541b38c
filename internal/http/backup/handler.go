package backup

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/toby-sam/budget/internal/backup"
	"github.com/toby-sam/budget/internal/http/respond"
	"github.com/toby-sam/budget/internal/tracker"
)

const maxBackup = 10 << 20

type Handler struct {
	svc          *tracker.Service
	clearOnClose bool
	now          func() time.Time
}

// NewHandler builds the backup handler. clearOnClose is the close-month
// default when the request does not say.
func NewHandler(svc *tracker.Service, clearOnClose bool) *Handler {
	return &Handler{svc: svc, clearOnClose: clearOnClose, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/backup", h.full)
	r.Get("/backup/{section}", h.section)
	r.Post("/restore", h.restore)
	r.Post("/close-month", h.closeMonth)
}

func attachment(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// full downloads the whole document. ?name= overrides the default filename.
func (h *Handler) full(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := backup.Write(&buf, h.svc.Document()); err != nil {
		respond.Error(w, r, err)
		return
	}

	attachment(w, backup.Filename(r.URL.Query().Get("name"), h.now()))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write backup", "error", err)
	}
}

func (h *Handler) section(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	var buf bytes.Buffer
	if err := backup.WriteSection(&buf, h.svc.Document(), section); err != nil {
		respond.Error(w, r, err)
		return
	}

	attachment(w, backup.SectionFilename(section))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write backup", "error", err)
	}
}

// restore applies the request body as a backup. ?mode=section&section=name
// merges a single list; the default replaces the whole document.
func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mode, err := backup.ParseMode(q.Get("mode"))
	if err != nil {
		respond.BadRequest(w, r, "%s", err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackup))
	if err != nil {
		respond.BadRequest(w, r, "reading body: %s", err)
		return
	}

	if err := h.svc.Restore(r.Context(), data, backup.Request{Mode: mode, Section: q.Get("section")}); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.svc.Document())
}

// closeMonth responds with the month's backup and then clears the monthly
// ledgers when ?clear is true or, if absent, when clearOnClose is set.
func (h *Handler) closeMonth(w http.ResponseWriter, r *http.Request) {
	clearLedgers := h.clearOnClose
	if s := r.URL.Query().Get("clear"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			respond.BadRequest(w, r, "invalid clear flag %q", s)
			return
		}

		clearLedgers = v
	}

	var buf bytes.Buffer
	if err := h.svc.CloseMonth(r.Context(), &buf, clearLedgers); err != nil {
		respond.Error(w, r, err)
		return
	}

	attachment(w, backup.Filename("", h.now()))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write backup", "error", err)
	}
}
