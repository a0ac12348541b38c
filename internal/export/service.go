package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/toby-sam/budget/internal/budget"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}

	return "", fmt.Errorf("unknown export format: %s", s)
}

// Source provides the document to export.
type Source interface {
	Document() budget.Document
}

// Item is a single exported file.
type Item struct {
	Sheet    string
	Rows     int
	FilePath string
}

// Service writes ledgers to disk.
type Service struct {
	source Source
	now    func() time.Time
}

func NewService(source Source) *Service {
	return &Service{source: source, now: time.Now}
}

// WorkbookFilename is the name of the combined XLSX export.
func WorkbookFilename(now time.Time) string {
	return fmt.Sprintf("budget_export_%s.xlsx", now.Format("20060102"))
}

// Export writes one CSV per non-empty ledger, or a single workbook for
// FormatXLSX, into outputDir. It returns ErrEmpty when every ledger is empty.
func (s *Service) Export(_ context.Context, format Format, outputDir string) ([]Item, error) {
	sheets := nonEmpty(Sheets(s.source.Document()))
	if len(sheets) == 0 {
		return nil, ErrEmpty
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := make([]Item, 0, len(sheets))

	switch format {
	case FormatCSV:
		for _, sh := range sheets {
			path := filepath.Join(outputDir, sh.Filename)
			if err := writeFile(path, func(w io.Writer) error { return WriteCSV(w, sh) }); err != nil {
				return nil, err
			}

			items = append(items, Item{Sheet: sh.Name, Rows: len(sh.Rows), FilePath: path})
		}
	case FormatXLSX:
		path := filepath.Join(outputDir, WorkbookFilename(s.now()))
		if err := writeFile(path, func(w io.Writer) error { return WriteXLSX(w, sheets...) }); err != nil {
			return nil, err
		}

		for _, sh := range sheets {
			items = append(items, Item{Sheet: sh.Name, Rows: len(sh.Rows), FilePath: path})
		}
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}

	return items, nil
}

func nonEmpty(sheets []Sheet) []Sheet {
	out := sheets[:0]
	for _, sh := range sheets {
		if len(sh.Rows) > 0 {
			out = append(out, sh)
		}
	}

	return out
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	return nil
}

// GenerateSummary lists the exported files, one line each.
func (s *Service) GenerateSummary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		noun := "rows"
		if item.Rows == 1 {
			noun = "row"
		}

		fmt.Fprintf(&sb, "* %s | %d %s | %s\n", item.Sheet, item.Rows, noun, filepath.Base(item.FilePath))
	}

	return sb.String()
}
