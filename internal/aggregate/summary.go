package aggregate

import (
	"sort"
	"strings"

	"github.com/toby-sam/budget/internal/budget"
)

// Summary is the dashboard figure set. All amounts are AUD.
type Summary struct {
	Income         float64 `json:"income"`
	AUCost         float64 `json:"auCost"`
	PHCost         float64 `json:"phCost"`
	SamCost        float64 `json:"samCost"`
	TotalSpend     float64 `json:"totalSpend"`
	AUBudget       float64 `json:"auBudget"`
	PHBudget       float64 `json:"phBudget"`
	PHBudgetPHP    float64 `json:"phBudgetPhp"`
	SamBudget      float64 `json:"samBudget"`
	CombinedBudget float64 `json:"combinedBudget"`

	PredictedTotal        float64 `json:"predictedTotal"`
	GrandPredictedTotal   float64 `json:"grandPredictedTotal"`
	PredictedResult       float64 `json:"predictedResult"`
	RemainingAfterSavings float64 `json:"remainingAfterSavings"`

	AULedgerNet      float64 `json:"auLedgerNet"`
	RunningTotal     float64 `json:"runningTotal"`
	BonusTotal       float64 `json:"bonusTotal"`
	InvestmentsTotal float64 `json:"investmentsTotal"`
	DebtsRemaining   float64 `json:"debtsRemaining"`

	Philippines Metrics   `json:"philippines"`
	Sam         SamTotals `json:"sam"`
	Rate        float64   `json:"phpAudRate"`
}

// Summarize derives the dashboard from a document.
func Summarize(doc budget.Document) Summary {
	var (
		classes    = doc.Classes()
		income     = OfKind(classes, budget.KindIncome)
		deduction  = OfKind(classes, budget.KindDeduction)
		incomeLike = OfKind(classes, budget.KindIncome, budget.KindDeduction)
		transfer   = OfKind(classes, budget.KindTransfer)

		au  = LedgerRows(doc.Ledger)
		ph  = PhilippinesRows(doc.Philippines)
		sam = SamRows(doc.SamLedger)
	)

	s := Summary{Rate: doc.PhpAudRate}

	s.Income = MonthlyIncome(au, ph, income, deduction)
	s.AUCost = TotalSpend(income, au)
	s.PHCost = TotalSpend(income, ph)
	s.SamCost = TotalSpend(income, sam)
	s.TotalSpend = TotalSpend(income, au, ph, sam)

	s.AUBudget = BudgetTotal(doc.Categories, incomeLike)
	s.PHBudgetPHP = BudgetTotal(doc.PhBudgetCategories, incomeLike)
	s.PHBudget = Convert(s.PHBudgetPHP, doc.PhpAudRate)
	s.SamBudget = BudgetTotal(doc.SamBudgetCategories, incomeLike)
	s.CombinedBudget = add(s.AUBudget, s.PHBudget, s.SamBudget)

	actuals := ActualsByCategory(au, nil)
	s.PredictedTotal = PredictedCategoryTotal(doc.Categories, actuals, incomeLike)
	s.GrandPredictedTotal = add(s.PredictedTotal, s.PHBudget, s.SamBudget)
	s.PredictedResult = add(s.Income, -s.GrandPredictedTotal)
	s.RemainingAfterSavings = add(s.PredictedResult, -doc.AUSavings)

	var net sum
	for _, r := range au {
		net.add(r.Amount)
	}

	s.AULedgerNet = net.value()

	var phNonIncomePHP sum
	for _, r := range PhilippinesPHPRows(doc.Philippines) {
		if !income(r.Category) {
			phNonIncomePHP.add(r.Amount)
		}
	}

	s.RunningTotal = add(s.AUCost, Convert(phNonIncomePHP.value(), doc.PhpAudRate))

	var bonus, investments, debts sum
	for _, b := range doc.BonusIncome {
		bonus.add(float64(b.Amount))
	}

	for _, inv := range doc.Investments {
		investments.add(float64(inv.Value))
	}

	for _, d := range doc.Debts {
		debts.add(DebtRemaining(d, doc.DebtPayments))
	}

	s.BonusTotal = bonus.value()
	s.InvestmentsTotal = investments.value()
	s.DebtsRemaining = debts.value()

	s.Philippines = PhilippinesMetrics(ph, au, transfer)
	s.Sam = SamMetrics(sam, income)

	return s
}

func add(values ...float64) float64 {
	var total sum
	for _, v := range values {
		total.add(v)
	}

	return total.value()
}

// CategoryLine is one row of a budget table.
type CategoryLine struct {
	Name     string      `json:"name"`
	Kind     budget.Kind `json:"kind"`
	Budget   *float64    `json:"budgetMonthly"`
	Actual   float64     `json:"actual"`
	Diff     float64     `json:"diff"`
	Status   Status      `json:"status"`
	Good     bool        `json:"good"`
	IsIncome bool        `json:"isIncome"`
}

// CategoryReport lines up each category with its actual and variance, sorted
// by name. Income and deduction categories use the income sign convention.
func CategoryReport(categories []budget.Category, actuals map[string]float64, classes budget.Classes) []CategoryLine {
	lines := make([]CategoryLine, 0, len(categories))

	for _, c := range categories {
		kind := classes.KindOf(c.Name)
		if c.Kind.Valid() {
			kind = c.Kind
		}

		isIncome := kind == budget.KindIncome || kind == budget.KindDeduction
		actual := dec(actualFor(actuals, c.Name)).Abs().InexactFloat64()

		var b *float64
		if c.BudgetMonthly != nil {
			v := float64(*c.BudgetMonthly)
			b = &v
		}

		v := CategoryVariance(b, actual, isIncome)

		lines = append(lines, CategoryLine{
			Name:     c.Name,
			Kind:     kind,
			Budget:   b,
			Actual:   actual,
			Diff:     v.Diff,
			Status:   v.Status,
			Good:     v.Good,
			IsIncome: isIncome,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return strings.ToLower(lines[i].Name) < strings.ToLower(lines[j].Name)
	})

	return lines
}

type DebtLine struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Total     float64 `json:"total"`
	Paid      float64 `json:"paid"`
	Remaining float64 `json:"remaining"`
}

func DebtReport(debts []budget.Debt, payments []budget.DebtPayment) []DebtLine {
	lines := make([]DebtLine, 0, len(debts))

	for _, d := range debts {
		remaining := DebtRemaining(d, payments)

		lines = append(lines, DebtLine{
			ID:        d.ID,
			Name:      d.Name,
			Total:     float64(d.Total),
			Paid:      add(float64(d.Total), -remaining),
			Remaining: remaining,
		})
	}

	return lines
}

type IncomeLine struct {
	Date   string  `json:"date"`
	Source string  `json:"source"`
	Amount float64 `json:"amount"`
}

// Income lists income rows from both ledgers with their totals in AUD.
type Income struct {
	AU      []IncomeLine `json:"au"`
	PH      []IncomeLine `json:"ph"`
	TotalAU float64      `json:"totalAu"`
	TotalPH float64      `json:"totalPh"`
	Total   float64      `json:"total"`
}

func IncomeReport(doc budget.Document) Income {
	var (
		classes  = doc.Classes()
		out      = Income{AU: []IncomeLine{}, PH: []IncomeLine{}}
		au, ph   sum
		isIncome = OfKind(classes, budget.KindIncome)
	)

	for _, e := range doc.Ledger {
		if !isIncome(e.Category) {
			continue
		}

		source := e.Description
		if source == "" {
			source = "Income"
		}

		amount := dec(float64(e.Amount)).Abs().InexactFloat64()
		au.add(amount)
		out.AU = append(out.AU, IncomeLine{Date: e.Date, Source: source, Amount: amount})
	}

	for _, e := range doc.Philippines {
		if !isIncome(e.Category) {
			continue
		}

		source := e.Reason
		if source == "" {
			source = "PH Income"
		}

		amount := dec(e.AUD()).Abs().InexactFloat64()
		ph.add(amount)
		out.PH = append(out.PH, IncomeLine{Date: e.Date, Source: source, Amount: amount})
	}

	out.TotalAU = au.value()
	out.TotalPH = ph.value()
	out.Total = au.d.Add(ph.d).InexactFloat64()

	return out
}
