package phbank

import (
	"io"
	"math"
	"strings"

	"github.com/toby-sam/budget/internal/aggregate"
	"github.com/toby-sam/budget/internal/budget"
	"github.com/toby-sam/budget/internal/importer/records"
)

const defaultReason = "PH transaction"

// Parser reads Philippines bank statement CSVs. The first non-blank line is
// the header; every other non-blank line becomes exactly one entry, with
// unparseable amounts as zero and unparseable dates kept as written.
type Parser struct {
	profile Profile
}

func NewParser(p Profile) *Parser {
	return &Parser{profile: p}
}

func (p *Parser) Profile() Profile { return p.profile }

func (p *Parser) Parse(r io.Reader, rate float64) ([]budget.PhilippinesEntry, error) {
	rows, err := records.Read(r)
	if err != nil {
		return nil, err
	}

	if len(rows) <= 1 {
		return nil, nil
	}

	entries := make([]budget.PhilippinesEntry, 0, len(rows)-1)

	for _, row := range rows[1:] {
		php := p.amount(row)

		reason := budget.CleanText(records.Cell(row, p.profile.DescCol))
		if reason == "" {
			reason = defaultReason
		}

		entries = append(entries, budget.PhilippinesEntry{
			ID:        budget.NewID(),
			Date:      budget.DisplayDateOf(records.Cell(row, p.profile.DateCol)),
			Reason:    reason,
			AmountPhp: budget.Amount(php),
			AmountAud: budget.Amount(aggregate.Convert(php, rate)),
		})
	}

	return entries, nil
}

// amount applies the debit/credit column: "debit" makes the figure negative,
// anything else positive.
func (p *Parser) amount(row []string) float64 {
	v := budget.ParseAmount(records.Cell(row, p.profile.AmountCol))

	if p.profile.DebitCreditCol < 0 {
		return v
	}

	v = math.Abs(v)
	if v != 0 && strings.EqualFold(records.Cell(row, p.profile.DebitCreditCol), "debit") {
		return -v
	}

	return v
}
