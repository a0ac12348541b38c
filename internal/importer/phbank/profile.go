package phbank

import (
	"fmt"
	"strconv"
	"strings"
)

// Profile describes the column layout of a Philippines bank statement export.
// Columns are zero-indexed; DebitCreditCol is -1 when the export carries the
// sign in the amount itself.
type Profile struct {
	Name           string
	AmountCol      int
	DebitCreditCol int
	DateCol        int
	DescCol        int
}

const (
	ProfileCurrent = "current"
	ProfileLegacy  = "legacy"
)

// profiles are the layouts the bank has used, newest first.
var profiles = []Profile{
	{Name: ProfileCurrent, AmountCol: 4, DebitCreditCol: 5, DateCol: 6, DescCol: 12},
	{Name: ProfileLegacy, AmountCol: 2, DebitCreditCol: 3, DateCol: 4, DescCol: 11},
}

// Profiles lists the built-in layouts.
func Profiles() []Profile {
	return append([]Profile(nil), profiles...)
}

// ProfileByName returns a built-in layout.
func ProfileByName(name string) (Profile, error) {
	for _, p := range profiles {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}

	return Profile{}, fmt.Errorf("unknown import profile %q", name)
}

// ParseColumns reads "amount,debitCredit,date,description" column indexes,
// e.g. "4,5,6,12". A debit/credit index of -1 disables sign handling.
func ParseColumns(s string) (Profile, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Profile{}, fmt.Errorf("expected 4 column indexes, got %d", len(parts))
	}

	cols := make([]int, len(parts))

	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Profile{}, fmt.Errorf("column %d: %w", i+1, err)
		}

		if n < 0 && i != 1 {
			return Profile{}, fmt.Errorf("column %d: index must not be negative", i+1)
		}

		cols[i] = n
	}

	if cols[1] < -1 {
		return Profile{}, fmt.Errorf("column 2: index must be -1 or greater")
	}

	return Profile{
		Name:           "custom",
		AmountCol:      cols[0],
		DebitCreditCol: cols[1],
		DateCol:        cols[2],
		DescCol:        cols[3],
	}, nil
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (%d,%d,%d,%d)", p.Name, p.AmountCol, p.DebitCreditCol, p.DateCol, p.DescCol)
}
