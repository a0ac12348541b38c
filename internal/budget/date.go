package budget

import (
	"strings"
	"time"
)

const (
	ISODate     = "2006-01-02"
	DisplayDate = "02 Jan 2006"
)

// Day-first layouts come before month-first ones: bank exports in both
// countries write 03/11/2025 for the 3rd of November.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006 15:04",
	"02-01-2006",
	"2-1-2006",
	"02/01/06",
	"2/1/06",
	"02-01-06",
	"02 Jan 2006",
	"2 Jan 2006",
	"02 January 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02 Jan 2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 02, 2006",
	"Mon, 02 Jan 2006",
	"Mon Jan 2 2006",
}

// CleanText collapses the odd whitespace bank exports use (NBSP, thin
// spaces) into single plain spaces and drops zero-width characters.
func CleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\u200b' || r == '\ufeff' {
			return -1
		}

		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// ParseDate reads the date formats found in bank exports and the app's own
// storage formats.
func ParseDate(s string) (time.Time, bool) {
	s = CleanText(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// DisplayDateOf renders s as "DD Mon YYYY". Unparseable input is returned as is.
func DisplayDateOf(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}

	return t.Format(DisplayDate)
}

// ISODateOf renders s as "YYYY-MM-DD". Unparseable input is returned as is.
func ISODateOf(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}

	return t.Format(ISODate)
}
