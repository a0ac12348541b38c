package importer

import (
	"errors"
	"fmt"

	"github.com/toby-sam/budget/internal/budget"
)

// Format identifies which ledger a CSV file is imported into.
type Format string

const (
	FormatPhilippines Format = "philippines"
	FormatAU          Format = "au"
	FormatSam         Format = "sam"
)

// ErrNoTransactions means the file parsed but held no data rows.
var ErrNoTransactions = errors.New("no transactions detected")

// Batch holds the entries parsed from one file. Only the slice matching
// Format is populated.
type Batch struct {
	Format      Format
	Ledger      []budget.LedgerEntry
	Philippines []budget.PhilippinesEntry
	Sam         []budget.SamLedgerEntry
}

// Len returns the number of parsed rows.
func (b Batch) Len() int {
	return len(b.Ledger) + len(b.Philippines) + len(b.Sam)
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPhilippines, FormatAU, FormatSam:
		return f, nil
	}

	return "", fmt.Errorf("unknown import format: %s", s)
}
