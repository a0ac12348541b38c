package ledger

import (
	"io"

	"github.com/toby-sam/budget/internal/budget"
	"github.com/toby-sam/budget/internal/importer/records"
)

// ParseAU reads the Australian ledger format: date, description, category,
// amount. The header is skipped, as are rows with fewer than four columns.
// Dates are normalized to YYYY-MM-DD when recognised.
func ParseAU(r io.Reader) ([]budget.LedgerEntry, error) {
	rows, err := records.Read(r)
	if err != nil {
		return nil, err
	}

	var entries []budget.LedgerEntry

	for i, row := range rows {
		if i == 0 || len(row) < 4 {
			continue
		}

		entries = append(entries, budget.LedgerEntry{
			ID:          budget.NewID(),
			Date:        budget.ISODateOf(records.Cell(row, 0)),
			Description: budget.CleanText(records.Cell(row, 1)),
			Category:    budget.CleanText(records.Cell(row, 2)),
			Amount:      budget.Amount(budget.ParseAmount(records.Cell(row, 3))),
		})
	}

	return entries, nil
}

const defaultSamReason = "Sam Transaction"

// ParseSam reads Sam's bank export: date, description, then the amount in the
// third column or, when that is empty, the fourth.
func ParseSam(r io.Reader) ([]budget.SamLedgerEntry, error) {
	rows, err := records.Read(r)
	if err != nil {
		return nil, err
	}

	var entries []budget.SamLedgerEntry

	for i, row := range rows {
		if i == 0 {
			continue
		}

		amount := records.Cell(row, 2)
		if amount == "" {
			amount = records.Cell(row, 3)
		}

		reason := budget.CleanText(records.Cell(row, 1))
		if reason == "" {
			reason = defaultSamReason
		}

		entries = append(entries, budget.SamLedgerEntry{
			ID:        budget.NewID(),
			Date:      budget.DisplayDateOf(records.Cell(row, 0)),
			Reason:    reason,
			AmountAud: budget.Amount(budget.ParseAmount(amount)),
		})
	}

	return entries, nil
}
