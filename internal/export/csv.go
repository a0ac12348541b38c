package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrEmpty is returned when there are no rows to export.
var ErrEmpty = errors.New("nothing to export")

// WriteCSV writes the sheet with every text field quoted and numbers bare.
func WriteCSV(w io.Writer, s Sheet) error {
	if len(s.Rows) == 0 {
		return ErrEmpty
	}

	bw := bufio.NewWriter(w)

	bw.WriteString(strings.Join(s.Header, ","))
	bw.WriteByte('\n')

	for _, row := range s.Rows {
		for i, v := range row {
			if i > 0 {
				bw.WriteByte(',')
			}

			bw.WriteString(csvField(v))
		}

		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", s.Filename, err)
	}

	return nil
}

func csvField(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	return fmt.Sprint(v)
}
