package export

import (
	"github.com/toby-sam/budget/internal/budget"
)

// Sheet is one exported ledger. Row values are either strings, written as
// quoted text, float64 numbers, or nil for an empty cell.
type Sheet struct {
	Name     string
	Filename string
	Header   []string
	Rows     [][]any
}

func AULedger(entries []budget.LedgerEntry) Sheet {
	s := Sheet{
		Name:     "AU Ledger",
		Filename: "ledger_export.csv",
		Header:   []string{"Date", "Description", "Category", "Amount"},
		Rows:     make([][]any, 0, len(entries)),
	}

	for _, e := range entries {
		s.Rows = append(s.Rows, []any{e.Date, e.Description, e.Category, float64(e.Amount)})
	}

	return s
}

// PhilippinesLedger leaves AmountPHP empty for AUD-only adjustments.
func PhilippinesLedger(entries []budget.PhilippinesEntry) Sheet {
	s := Sheet{
		Name:     "Philippines",
		Filename: "philippines_export.csv",
		Header:   []string{"Date", "Description", "Category", "AmountPHP", "AmountAUD"},
		Rows:     make([][]any, 0, len(entries)),
	}

	for _, e := range entries {
		var php any
		if e.HasPHP() {
			php = float64(e.AmountPhp)
		}

		s.Rows = append(s.Rows, []any{e.Date, e.Reason, e.Category, php, e.AUD()})
	}

	return s
}

func SamLedger(entries []budget.SamLedgerEntry) Sheet {
	s := Sheet{
		Name:     "Sam",
		Filename: "sam_business_export.csv",
		Header:   []string{"Date", "Description", "Category", "AmountAUD"},
		Rows:     make([][]any, 0, len(entries)),
	}

	for _, e := range entries {
		s.Rows = append(s.Rows, []any{e.Date, e.Reason, e.Category, float64(e.AmountAud)})
	}

	return s
}

// Sheets returns every ledger of the document in display order.
func Sheets(doc budget.Document) []Sheet {
	return []Sheet{
		AULedger(doc.Ledger),
		PhilippinesLedger(doc.Philippines),
		SamLedger(doc.SamLedger),
	}
}
