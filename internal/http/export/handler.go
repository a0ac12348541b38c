package export

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/toby-sam/budget/internal/export"
	"github.com/toby-sam/budget/internal/http/respond"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.metadata)
	r.Get("/download", h.download)
}

type itemResponse struct {
	Sheet    string `json:"sheet"`
	Rows     int    `json:"rows"`
	Filename string `json:"filename"`
}

type exportMetadataResponse struct {
	Items   []itemResponse `json:"items"`
	Summary string         `json:"summary"`
}

func format(r *http.Request) (export.Format, error) {
	f := r.URL.Query().Get("format")
	if f == "" {
		return export.FormatCSV, nil
	}

	return export.ParseFormat(f)
}

// run exports into a temporary directory and hands it to fn.
func (h *Handler) run(w http.ResponseWriter, r *http.Request, fn func(dir string, items []export.Item)) {
	f, err := format(r)
	if err != nil {
		respond.BadRequest(w, r, "%s", err)
		return
	}

	tmpDir, err := os.MkdirTemp("", "budget-export-*")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	defer os.RemoveAll(tmpDir)

	items, err := h.svc.Export(r.Context(), f, tmpDir)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	fn(tmpDir, items)
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(_ string, items []export.Item) {
		resp := exportMetadataResponse{
			Items:   make([]itemResponse, 0, len(items)),
			Summary: h.svc.GenerateSummary(items),
		}

		for _, item := range items {
			resp.Items = append(resp.Items, itemResponse{
				Sheet:    item.Sheet,
				Rows:     item.Rows,
				Filename: filepath.Base(item.FilePath),
			})
		}

		respond.JSON(w, http.StatusOK, resp)
	})
}

// download streams a zip of the exported files. An XLSX export is a single
// workbook and is sent as is.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(dir string, items []export.Item) {
		if len(items) > 0 && filepath.Ext(items[0].FilePath) == ".xlsx" {
			serveFile(w, items[0].FilePath)
			return
		}

		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=\"budget_export_%s.zip\"", time.Now().Format("20060102")))

		zipWriter := zip.NewWriter(w)
		defer zipWriter.Close()

		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return err
			}

			relPath, _ := filepath.Rel(dir, path)

			zf, err := zipWriter.Create(relPath)
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			_, err = io.Copy(zf, f)

			return err
		})
		if err != nil {
			slog.Error("failed to create zip", "error", err)
		}
	})
}

func serveFile(w http.ResponseWriter, path string) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("failed to open export", "path", path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))

	if _, err := io.Copy(w, f); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
