package importcsv

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/toby-sam/budget/internal/http/respond"
	"github.com/toby-sam/budget/internal/importer"
	"github.com/toby-sam/budget/internal/tracker"
)

type Handler struct {
	importSvc  *importer.Service
	trackerSvc *tracker.Service
}

func NewHandler(importSvc *importer.Service, trackerSvc *tracker.Service) *Handler {
	return &Handler{
		importSvc:  importSvc,
		trackerSvc: trackerSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importResponse struct {
	Format   importer.Format `json:"format"`
	Imported int             `json:"imported"`
	Preview  bool            `json:"preview"`
	Rows     any             `json:"rows"`
}

// importCSV parses a multipart upload with "format" and "file" fields. With
// preview=true the parsed rows are returned without touching the document.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		respond.BadRequest(w, r, "failed to parse form: %s", err)
		return
	}

	format, err := importer.ParseFormat(r.FormValue("format"))
	if err != nil {
		respond.BadRequest(w, r, "%s", err)
		return
	}

	preview, _ := strconv.ParseBool(r.FormValue("preview"))

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, r, "file field is required")
		return
	}
	defer file.Close()

	batch, err := h.importSvc.Import(format, file, h.trackerSvc.Document().PhpAudRate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := importResponse{Format: format, Preview: preview, Rows: rows(batch)}

	if preview {
		resp.Imported = batch.Len()
		respond.JSON(w, http.StatusOK, resp)

		return
	}

	n, err := h.trackerSvc.ImportBatch(r.Context(), batch)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp.Imported = n
	respond.JSON(w, http.StatusCreated, resp)
}

func rows(b importer.Batch) any {
	switch b.Format {
	case importer.FormatAU:
		return b.Ledger
	case importer.FormatPhilippines:
		return b.Philippines
	}

	return b.Sam
}
