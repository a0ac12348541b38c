package tracker

import (
	"strings"

	"github.com/toby-sam/budget/internal/budget"
)

// Pending is a ledger row without a category.
type Pending struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	Text      string  `json:"text"`
	Amount    float64 `json:"amount"`
	Suggested string  `json:"suggested,omitempty"`
}

type labelled struct {
	text     string
	category string
}

// Uncategorised lists the rows of a ledger with a blank category, in ledger
// order, each with a category suggested from the rows already filed.
func (s *Service) Uncategorised(scope Scope) ([]Pending, error) {
	doc := s.repo.Get()

	var rows []Pending

	switch scope {
	case ScopeAU:
		for _, e := range doc.Ledger {
			rows = append(rows, Pending{ID: e.ID, Date: e.Date, Text: e.Description, Amount: float64(e.Amount), Suggested: e.Category})
		}
	case ScopePhilippines:
		for _, e := range doc.Philippines {
			rows = append(rows, Pending{ID: e.ID, Date: e.Date, Text: e.Reason, Amount: e.AUD(), Suggested: e.Category})
		}
	case ScopeSam:
		for _, e := range doc.SamLedger {
			rows = append(rows, Pending{ID: e.ID, Date: e.Date, Text: e.Reason, Amount: float64(e.AmountAud), Suggested: e.Category})
		}
	default:
		return nil, invalid("unknown scope %q", scope)
	}

	var known []labelled

	for _, r := range rows {
		if strings.TrimSpace(r.Suggested) != "" {
			known = append(known, labelled{text: r.Text, category: r.Suggested})
		}
	}

	out := []Pending{}

	for _, r := range rows {
		if strings.TrimSpace(r.Suggested) != "" {
			continue
		}

		r.Suggested = suggest(known, r.Text)
		out = append(out, r)
	}

	return out, nil
}

// suggest returns the category of the filed row whose text is the longest one
// contained in text, ignoring case. Later rows win ties.
func suggest(known []labelled, text string) string {
	text = strings.ToLower(budget.CleanText(text))
	if text == "" {
		return ""
	}

	var (
		best    string
		bestLen int
	)

	for _, k := range known {
		pattern := strings.ToLower(budget.CleanText(k.text))
		if pattern == "" || !strings.Contains(text, pattern) {
			continue
		}

		if len(pattern) >= bestLen {
			best, bestLen = k.category, len(pattern)
		}
	}

	return best
}
