package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	enc "github.com/toby-sam/budget/internal/encoding"
)

// Read decodes r to UTF-8 and returns every non-blank CSV record. Records may
// have differing field counts and quotes are treated leniently.
func Read(r io.Reader) ([][]string, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		if blank(row) {
			continue
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

// Cell returns the trimmed value at idx, or "" when the row is too short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
