package budget

import (
	"encoding/json"
)

// StorageKey is the key the document is persisted under.
const StorageKey = "tobyBudgetV1_categories_budget_ledger_v1"

const (
	DefaultHousePct   = 10
	DefaultSamalPct   = 10
	DefaultPhpAudRate = 0.0259
	CurrentVersion    = 1
)

// Document is the whole persisted budget state.
type Document struct {
	Income       float64
	HousePct     float64
	SamalPct     float64
	PhpAudRate   float64
	AUSavings    float64
	SamalSavings float64
	Version      float64

	Categories          []Category
	Ledger              []LedgerEntry
	Incomes             []IncomeEntry
	Philippines         []PhilippinesEntry
	PhCategories        []string
	PhBudgetCategories  []Category
	SamLedger           []SamLedgerEntry
	SamBudgetCategories []Category
	Investments         []Investment
	Debts               []Debt
	DebtPayments        []DebtPayment
	BonusIncome         []BonusIncome

	// Extra holds top-level fields this version does not know about. They are
	// written back unchanged.
	Extra map[string]json.RawMessage
}

// LedgerEntry is a row of the Australian ledger. Expenses are negative.
type LedgerEntry struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      Amount `json:"amount"`
}

// PhilippinesEntry is a peso-denominated row. AmountAud is derived from
// AmountPhp and the document rate; manual adjustments carry only AUD.
type PhilippinesEntry struct {
	ID        string `json:"id,omitempty"`
	Date      string `json:"date"`
	Reason    string `json:"reason"`
	Category  string `json:"category"`
	AmountPhp Amount `json:"amountPhp,omitempty"`
	AmountAud Amount `json:"amountAud"`
	Amount    Amount `json:"amount,omitempty"`
}

// HasPHP reports whether the entry carries a peso amount the AUD figure is derived from.
func (e PhilippinesEntry) HasPHP() bool { return e.AmountPhp != 0 }

// AUD returns the entry's Australian-dollar value, falling back to the legacy
// amount field for old adjustments.
func (e PhilippinesEntry) AUD() float64 {
	if e.AmountAud == 0 && e.Amount != 0 {
		return float64(e.Amount)
	}

	return float64(e.AmountAud)
}

type SamLedgerEntry struct {
	ID        string `json:"id,omitempty"`
	Date      string `json:"date"`
	Reason    string `json:"reason"`
	Category  string `json:"category"`
	AmountAud Amount `json:"amountAud"`
}

type IncomeEntry struct {
	ID     string `json:"id,omitempty"`
	Date   string `json:"date"`
	Source string `json:"source"`
	Amount Amount `json:"amount"`
}

type Investment struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Value       Amount `json:"value"`
}

type Debt struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Total Amount `json:"total"`
}

type DebtPayment struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	DebtID      string `json:"debtId"`
	Description string `json:"description"`
	Amount      Amount `json:"amount"`
}

type BonusIncome struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      Amount `json:"amount"`
}

// Defaults returns a schema-complete document with every list empty.
func Defaults() Document {
	return Document{
		HousePct:   DefaultHousePct,
		SamalPct:   DefaultSamalPct,
		PhpAudRate: DefaultPhpAudRate,
		Version:    CurrentVersion,

		Categories:          []Category{},
		Ledger:              []LedgerEntry{},
		Incomes:             []IncomeEntry{},
		Philippines:         []PhilippinesEntry{},
		PhCategories:        []string{},
		PhBudgetCategories:  []Category{},
		SamLedger:           []SamLedgerEntry{},
		SamBudgetCategories: []Category{},
		Investments:         []Investment{},
		Debts:               []Debt{},
		DebtPayments:        []DebtPayment{},
		BonusIncome:         []BonusIncome{},
	}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	c := d

	c.Categories = cloneCategories(d.Categories)
	c.Ledger = cloneSlice(d.Ledger)
	c.Incomes = cloneSlice(d.Incomes)
	c.Philippines = cloneSlice(d.Philippines)
	c.PhCategories = cloneSlice(d.PhCategories)
	c.PhBudgetCategories = cloneCategories(d.PhBudgetCategories)
	c.SamLedger = cloneSlice(d.SamLedger)
	c.SamBudgetCategories = cloneCategories(d.SamBudgetCategories)
	c.Investments = cloneSlice(d.Investments)
	c.Debts = cloneSlice(d.Debts)
	c.DebtPayments = cloneSlice(d.DebtPayments)
	c.BonusIncome = cloneSlice(d.BonusIncome)

	if d.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for k, v := range d.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}

	return c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}

	return append(make([]T, 0, len(s)), s...)
}

func cloneCategories(s []Category) []Category {
	out := cloneSlice(s)
	for i := range out {
		if out[i].BudgetMonthly != nil {
			v := *out[i].BudgetMonthly
			out[i].BudgetMonthly = &v
		}
	}

	return out
}
