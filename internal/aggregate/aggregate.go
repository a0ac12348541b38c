package aggregate

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/toby-sam/budget/internal/budget"
)

// Uncategorised is the key rows without a category aggregate under.
const Uncategorised = "Uncategorised"

// Row is the category/amount projection every aggregation works on.
type Row struct {
	Category string
	Amount   float64
}

func LedgerRows(entries []budget.LedgerEntry) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Category: e.Category, Amount: float64(e.Amount)}
	}

	return rows
}

// PhilippinesRows projects the AUD value of each Philippines entry.
func PhilippinesRows(entries []budget.PhilippinesEntry) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Category: e.Category, Amount: e.AUD()}
	}

	return rows
}

// PhilippinesPHPRows projects the peso value of each Philippines entry.
func PhilippinesPHPRows(entries []budget.PhilippinesEntry) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Category: e.Category, Amount: float64(e.AmountPhp)}
	}

	return rows
}

func SamRows(entries []budget.SamLedgerEntry) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Category: e.Category, Amount: float64(e.AmountAud)}
	}

	return rows
}

// Matcher selects categories by name.
type Matcher func(category string) bool

// Named matches any of names, case-insensitively.
func Named(names ...string) Matcher {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(strings.TrimSpace(n))] = struct{}{}
	}

	return func(category string) bool {
		_, ok := set[strings.ToLower(strings.TrimSpace(category))]
		return ok
	}
}

// OfKind matches categories whose kind in classes is one of kinds.
func OfKind(classes budget.Classes, kinds ...budget.Kind) Matcher {
	return func(category string) bool {
		return classes.Is(category, kinds...)
	}
}

// None matches nothing.
func None(string) bool { return false }

func (m Matcher) match(category string) bool {
	return m != nil && m(category)
}

// num coerces NaN and infinities to zero.
func num(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(num(v))
}

type sum struct {
	d decimal.Decimal
}

func (s *sum) add(v float64) { s.d = s.d.Add(dec(v)) }

func (s *sum) addAbs(v float64) { s.d = s.d.Add(dec(v).Abs()) }

func (s sum) value() float64 { return s.d.InexactFloat64() }

// ActualsByCategory sums raw signed amounts per category. Rows without a
// category count as Uncategorised; rows matched by exclude are dropped.
func ActualsByCategory(rows []Row, exclude Matcher) map[string]float64 {
	sums := make(map[string]*sum)

	for _, r := range rows {
		if exclude.match(r.Category) {
			continue
		}

		key := strings.TrimSpace(r.Category)
		if key == "" {
			key = Uncategorised
		}

		s, ok := sums[key]
		if !ok {
			s = &sum{}
			sums[key] = s
		}

		s.add(r.Amount)
	}

	out := make(map[string]float64, len(sums))
	for k, s := range sums {
		out[k] = s.value()
	}

	return out
}

// Status of a category against its budget.
type Status string

const (
	StatusUnder    Status = "under"
	StatusOver     Status = "over"
	StatusNoBudget Status = "no-budget"
)

// Variance compares an actual figure with a budget. Good reports whether the
// difference is in the desirable direction: spending under budget, or earning
// over it.
type Variance struct {
	Diff   float64
	Status Status
	Good   bool
}

// CategoryVariance compares |actual| against budget. For expenses
// diff = budget - |actual|; for income the sign flips so that earning more
// than budgeted yields a positive diff.
func CategoryVariance(budgetMonthly *float64, actual float64, isIncome bool) Variance {
	if budgetMonthly == nil {
		return Variance{Status: StatusNoBudget}
	}

	b := dec(*budgetMonthly)
	a := dec(actual).Abs()

	if isIncome {
		diff := a.Sub(b)
		if diff.Sign() >= 0 {
			return Variance{Diff: diff.InexactFloat64(), Status: StatusOver, Good: true}
		}

		return Variance{Diff: diff.InexactFloat64(), Status: StatusUnder}
	}

	diff := b.Sub(a)
	if diff.Sign() >= 0 {
		return Variance{Diff: diff.InexactFloat64(), Status: StatusUnder, Good: true}
	}

	return Variance{Diff: diff.InexactFloat64(), Status: StatusOver}
}

// Convert turns an amount in the source currency into the target currency.
func Convert(amount, rate float64) float64 {
	return dec(amount).Mul(dec(rate)).InexactFloat64()
}

// MonthlyIncome is |AU income| + |PH income in AUD| - |AU deductions|.
func MonthlyIncome(au, ph []Row, income, deduct Matcher) float64 {
	var total, deductions sum

	for _, r := range au {
		if income.match(r.Category) {
			total.addAbs(r.Amount)
		}

		if deduct.match(r.Category) {
			deductions.addAbs(r.Amount)
		}
	}

	for _, r := range ph {
		if income.match(r.Category) {
			total.addAbs(r.Amount)
		}
	}

	return total.d.Sub(deductions.d).InexactFloat64()
}

// TotalSpend sums absolute amounts of every non-excluded row across ledgers.
func TotalSpend(exclude Matcher, ledgers ...[]Row) float64 {
	var total sum

	for _, rows := range ledgers {
		for _, r := range rows {
			if exclude.match(r.Category) {
				continue
			}

			total.addAbs(r.Amount)
		}
	}

	return total.value()
}

// BudgetTotal sums monthly budgets of non-excluded categories.
func BudgetTotal(categories []budget.Category, exclude Matcher) float64 {
	var total sum

	for _, c := range categories {
		if exclude.match(c.Name) {
			continue
		}

		total.add(c.Budget())
	}

	return total.value()
}

// PredictedCategoryTotal forecasts month-end spend: categories at or under
// budget contribute their budget, over-budget ones their actual.
func PredictedCategoryTotal(categories []budget.Category, actuals map[string]float64, exclude Matcher) float64 {
	var total sum

	for _, c := range categories {
		if exclude.match(c.Name) {
			continue
		}

		b := dec(c.Budget())
		a := dec(actualFor(actuals, c.Name)).Abs()

		if b.Sub(a).Sign() >= 0 {
			total.d = total.d.Add(b)
		} else {
			total.d = total.d.Add(a)
		}
	}

	return total.value()
}

// actualFor looks up a category's actual, preferring an exact name match.
func actualFor(actuals map[string]float64, name string) float64 {
	if v, ok := actuals[name]; ok {
		return v
	}

	for k, v := range actuals {
		if strings.EqualFold(strings.TrimSpace(k), strings.TrimSpace(name)) {
			return v
		}
	}

	return 0
}

// DebtRemaining is the debt total less every payment made against it.
func DebtRemaining(debt budget.Debt, payments []budget.DebtPayment) float64 {
	remaining := dec(float64(debt.Total))

	for _, p := range payments {
		if p.DebtID != debt.ID {
			continue
		}

		remaining = remaining.Sub(dec(float64(p.Amount)))
	}

	return remaining.InexactFloat64()
}

// Metrics summarizes the Philippines ledger against money sent from Australia.
type Metrics struct {
	Transfers float64
	Income    float64
	Expenses  float64
	NetResult float64
	Remaining float64
}

// PhilippinesMetrics: transfers are |AU rows| matched by transfer; income and
// expenses are the positive and negative PH AUD amounts; remaining is
// transfers + net result.
func PhilippinesMetrics(ph, au []Row, transfer Matcher) Metrics {
	var transfers, income, expenses sum

	for _, r := range au {
		if transfer.match(r.Category) {
			transfers.addAbs(r.Amount)
		}
	}

	for _, r := range ph {
		switch v := num(r.Amount); {
		case v > 0:
			income.add(v)
		case v < 0:
			expenses.addAbs(v)
		}
	}

	net := income.d.Sub(expenses.d)

	return Metrics{
		Transfers: transfers.value(),
		Income:    income.value(),
		Expenses:  expenses.value(),
		NetResult: net.InexactFloat64(),
		Remaining: transfers.d.Add(net).InexactFloat64(),
	}
}

// SamTotals summarizes Sam's ledger: rows matched by income count as income,
// everything else as expenses.
type SamTotals struct {
	Income   float64
	Expenses float64
	Net      float64
	Entries  int
}

func SamMetrics(rows []Row, income Matcher) SamTotals {
	var in, out sum

	for _, r := range rows {
		if income.match(r.Category) {
			in.add(r.Amount)
		} else {
			out.add(r.Amount)
		}
	}

	return SamTotals{
		Income:   in.value(),
		Expenses: out.value(),
		Net:      in.d.Sub(out.d).InexactFloat64(),
		Entries:  len(rows),
	}
}
