package budget

import "github.com/google/uuid"

func NewID() string {
	return uuid.NewString()
}

// AssignIDs gives every row without an id a fresh one and reports whether any
// row changed.
func (d *Document) AssignIDs() bool {
	changed := false

	assign := func(id *string) {
		if *id == "" {
			*id = NewID()
			changed = true
		}
	}

	for i := range d.Ledger {
		assign(&d.Ledger[i].ID)
	}

	for i := range d.Incomes {
		assign(&d.Incomes[i].ID)
	}

	for i := range d.Philippines {
		assign(&d.Philippines[i].ID)
	}

	for i := range d.SamLedger {
		assign(&d.SamLedger[i].ID)
	}

	for i := range d.Investments {
		assign(&d.Investments[i].ID)
	}

	for i := range d.Debts {
		assign(&d.Debts[i].ID)
	}

	for i := range d.DebtPayments {
		assign(&d.DebtPayments[i].ID)
	}

	for i := range d.BonusIncome {
		assign(&d.BonusIncome[i].ID)
	}

	return changed
}
