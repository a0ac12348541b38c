package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toby-sam/budget/internal/aggregate"
	"github.com/toby-sam/budget/internal/budget"
)

func summaryDocument() budget.Document {
	doc := budget.Defaults()
	doc.PhpAudRate = 0.026
	doc.AUSavings = 500

	doc.Categories = []budget.Category{
		{Name: "Income", BudgetMonthly: budget.Ptr(8000)},
		{Name: "Rent", BudgetMonthly: budget.Ptr(2000)},
		{Name: "Groceries", BudgetMonthly: budget.Ptr(600)},
		{Name: "Bad Income", BudgetMonthly: budget.Ptr(0)},
	}
	doc.Ledger = []budget.LedgerEntry{
		{ID: "1", Category: "Income", Amount: 5000},
		{ID: "2", Category: "Rent", Amount: -2000},
		{ID: "3", Category: "Groceries", Amount: -700},
		{ID: "4", Category: "Bad Income", Amount: -100},
		{ID: "5", Category: "Philippines", Amount: -300},
	}

	doc.PhBudgetCategories = []budget.Category{{Name: "Food", BudgetMonthly: budget.Ptr(10000)}}
	doc.Philippines = []budget.PhilippinesEntry{
		{ID: "p1", Category: "Food", AmountPhp: -1000, AmountAud: -26},
		{ID: "p2", Category: "Income", AmountAud: 50},
	}

	doc.SamBudgetCategories = []budget.Category{{Name: "Groceries", BudgetMonthly: budget.Ptr(50)}}
	doc.SamLedger = []budget.SamLedgerEntry{
		{ID: "s1", Category: "Income", AmountAud: 100},
		{ID: "s2", Category: "Groceries", AmountAud: -40},
	}

	doc.BonusIncome = []budget.BonusIncome{{ID: "b1", Amount: 250}}
	doc.Investments = []budget.Investment{{ID: "i1", Value: 1200}, {ID: "i2", Value: 300}}
	doc.Debts = []budget.Debt{{ID: "d1", Total: 1000}, {ID: "d2", Total: 400}}
	doc.DebtPayments = []budget.DebtPayment{{DebtID: "d1", Amount: 350}}

	return doc
}

func TestSummarize(t *testing.T) {
	s := aggregate.Summarize(summaryDocument())

	assert.Equal(t, 4950.0, s.Income)
	assert.Equal(t, 3100.0, s.AUCost)
	assert.Equal(t, 26.0, s.PHCost)
	assert.Equal(t, 40.0, s.SamCost)
	assert.Equal(t, 3166.0, s.TotalSpend)

	assert.Equal(t, 2600.0, s.AUBudget)
	assert.Equal(t, 10000.0, s.PHBudgetPHP)
	assert.Equal(t, 260.0, s.PHBudget)
	assert.Equal(t, 50.0, s.SamBudget)
	assert.Equal(t, 2910.0, s.CombinedBudget)

	assert.Equal(t, 2700.0, s.PredictedTotal)
	assert.Equal(t, 3010.0, s.GrandPredictedTotal)
	assert.Equal(t, 1940.0, s.PredictedResult)
	assert.Equal(t, 1440.0, s.RemainingAfterSavings)

	assert.Equal(t, 1900.0, s.AULedgerNet)
	assert.Equal(t, 3074.0, s.RunningTotal)
	assert.Equal(t, 250.0, s.BonusTotal)
	assert.Equal(t, 1500.0, s.InvestmentsTotal)
	assert.Equal(t, 1050.0, s.DebtsRemaining)

	assert.Equal(t, aggregate.Metrics{Transfers: 300, Income: 50, Expenses: 26, NetResult: 24, Remaining: 324}, s.Philippines)
	assert.Equal(t, aggregate.SamTotals{Income: 100, Expenses: -40, Net: 140, Entries: 2}, s.Sam)
}

func TestSummarize_ExplicitKinds(t *testing.T) {
	doc := budget.Defaults()
	doc.Categories = []budget.Category{
		{Name: "Salary", Kind: budget.KindIncome, BudgetMonthly: budget.Ptr(6000)},
		{Name: "Refunds Owed", Kind: budget.KindDeduction},
		{Name: "To Manila", Kind: budget.KindTransfer, BudgetMonthly: budget.Ptr(400)},
	}
	doc.Ledger = []budget.LedgerEntry{
		{ID: "1", Category: "Salary", Amount: 6100},
		{ID: "2", Category: "Refunds Owed", Amount: -100},
		{ID: "3", Category: "To Manila", Amount: -450},
	}

	s := aggregate.Summarize(doc)

	assert.Equal(t, 6000.0, s.Income)
	assert.Equal(t, 400.0, s.AUBudget)
	assert.Equal(t, 450.0, s.PredictedTotal)
	assert.Equal(t, 450.0, s.Philippines.Transfers)
}

func TestIncomeReport(t *testing.T) {
	r := aggregate.IncomeReport(summaryDocument())

	assert.Equal(t, []aggregate.IncomeLine{{Source: "Income", Amount: 5000}}, r.AU)
	assert.Equal(t, []aggregate.IncomeLine{{Source: "PH Income", Amount: 50}}, r.PH)
	assert.Equal(t, 5000.0, r.TotalAU)
	assert.Equal(t, 50.0, r.TotalPH)
	assert.Equal(t, 5050.0, r.Total)
}

func TestIncomeReport_NegativePhilippinesIncome(t *testing.T) {
	doc := summaryDocument()
	doc.Philippines = append(doc.Philippines, budget.PhilippinesEntry{ID: "p3", Reason: "Rent in", Category: "Income", AmountAud: -30})

	r := aggregate.IncomeReport(doc)

	require.Len(t, r.PH, 2)
	assert.Equal(t, aggregate.IncomeLine{Source: "Rent in", Amount: 30}, r.PH[1])
	assert.Equal(t, 80.0, r.TotalPH)
	assert.Equal(t, 5080.0, r.Total)
}

func TestSummarize_Empty(t *testing.T) {
	s := aggregate.Summarize(budget.Defaults())

	assert.Zero(t, s.Income)
	assert.Zero(t, s.TotalSpend)
	assert.Equal(t, budget.DefaultPhpAudRate, s.Rate)
}
