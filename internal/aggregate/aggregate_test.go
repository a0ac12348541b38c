package aggregate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toby-sam/budget/internal/aggregate"
	"github.com/toby-sam/budget/internal/budget"
)

func ptr(v float64) *float64 { return &v }

func TestActualsByCategory(t *testing.T) {
	rows := aggregate.LedgerRows([]budget.LedgerEntry{
		{Category: "Income", Amount: 500},
		{Category: "Rent", Amount: -200},
		{Category: "Rent", Amount: -50},
	})

	got := aggregate.ActualsByCategory(rows, aggregate.Named("income"))
	assert.Equal(t, map[string]float64{"Rent": -250}, got)

	v := aggregate.CategoryVariance(ptr(300), got["Rent"], false)
	assert.Equal(t, aggregate.Variance{Diff: 50, Status: aggregate.StatusUnder, Good: true}, v)
}

func TestActualsByCategory_Uncategorised(t *testing.T) {
	rows := []aggregate.Row{
		{Category: "", Amount: -10},
		{Category: "  ", Amount: -5},
		{Category: "Deleted Category", Amount: -7},
		{Category: "Fuel", Amount: math.NaN()},
	}

	got := aggregate.ActualsByCategory(rows, nil)
	assert.Equal(t, map[string]float64{
		aggregate.Uncategorised: -15,
		"Deleted Category":      -7,
		"Fuel":                  0,
	}, got)
}

func TestCategoryVariance(t *testing.T) {
	type args struct {
		budget   *float64
		actual   float64
		isIncome bool
	}

	type testCase struct {
		name string
		args args
		want aggregate.Variance
	}

	tests := []testCase{
		{
			name: "ExpenseUnder",
			args: args{budget: ptr(300), actual: -250},
			want: aggregate.Variance{Diff: 50, Status: aggregate.StatusUnder, Good: true},
		},
		{
			name: "ExpenseExactlyOnBudget",
			args: args{budget: ptr(300), actual: -300},
			want: aggregate.Variance{Diff: 0, Status: aggregate.StatusUnder, Good: true},
		},
		{
			name: "ExpenseOver",
			args: args{budget: ptr(300), actual: -420},
			want: aggregate.Variance{Diff: -120, Status: aggregate.StatusOver},
		},
		{
			name: "IncomeAhead",
			args: args{budget: ptr(8000), actual: 8500, isIncome: true},
			want: aggregate.Variance{Diff: 500, Status: aggregate.StatusOver, Good: true},
		},
		{
			name: "IncomeBehind",
			args: args{budget: ptr(8000), actual: 7000, isIncome: true},
			want: aggregate.Variance{Diff: -1000, Status: aggregate.StatusUnder},
		},
		{
			name: "NoBudget",
			args: args{actual: -99},
			want: aggregate.Variance{Status: aggregate.StatusNoBudget},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := aggregate.CategoryVariance(tt.args.budget, tt.args.actual, tt.args.isIncome)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvert(t *testing.T) {
	assert.Equal(t, 20.0, aggregate.Convert(1000, 0.02))
	assert.Equal(t, 30.0, aggregate.Convert(1000, 0.03))
	assert.Equal(t, 25.9, aggregate.Convert(1000, 0.0259))
	assert.Equal(t, -2.59, aggregate.Convert(-100, 0.0259))
	assert.Equal(t, 0.0, aggregate.Convert(math.NaN(), 0.02))
}

func TestMonthlyIncome(t *testing.T) {
	classes := budget.Defaults().Classes()
	au := []aggregate.Row{
		{Category: "Income", Amount: 5000},
		{Category: "au_income", Amount: 200},
		{Category: "Bad Income", Amount: -100},
		{Category: "Rent", Amount: -2000},
	}
	ph := []aggregate.Row{
		{Category: "income", Amount: 50},
		{Category: "Food", Amount: -20},
	}

	got := aggregate.MonthlyIncome(au, ph,
		aggregate.OfKind(classes, budget.KindIncome),
		aggregate.OfKind(classes, budget.KindDeduction))
	assert.Equal(t, 5150.0, got)

	withoutDeduction := aggregate.MonthlyIncome(au, ph, aggregate.Named("income"), nil)
	assert.Equal(t, 5050.0, withoutDeduction)
}

func TestTotalSpend(t *testing.T) {
	au := []aggregate.Row{{Category: "Income", Amount: 5000}, {Category: "Rent", Amount: -2000}}
	ph := []aggregate.Row{{Category: "Food", Amount: -26}, {Category: "Income", Amount: 50}}
	sam := []aggregate.Row{{Category: "Groceries", Amount: 40}}

	assert.Equal(t, 2066.0, aggregate.TotalSpend(aggregate.Named("income"), au, ph, sam))
}

func TestBudgetTotal(t *testing.T) {
	categories := []budget.Category{
		{Name: "Income", BudgetMonthly: budget.Ptr(8000)},
		{Name: "bad income", BudgetMonthly: budget.Ptr(50)},
		{Name: "Rent", BudgetMonthly: budget.Ptr(2000)},
		{Name: "Misc"},
	}

	assert.Equal(t, 2000.0, aggregate.BudgetTotal(categories, aggregate.Named("income", "bad income")))
	assert.Equal(t, 10050.0, aggregate.BudgetTotal(categories, nil))
}

func TestPredictedCategoryTotal(t *testing.T) {
	categories := []budget.Category{
		{Name: "Income", BudgetMonthly: budget.Ptr(8000)},
		{Name: "Rent", BudgetMonthly: budget.Ptr(2000)},
		{Name: "Groceries", BudgetMonthly: budget.Ptr(600)},
		{Name: "Fuel", BudgetMonthly: budget.Ptr(150)},
	}
	actuals := map[string]float64{
		"Income":    9000,
		"Rent":      -2000,
		"groceries": -700,
	}

	got := aggregate.PredictedCategoryTotal(categories, actuals, aggregate.Named("income"))
	assert.Equal(t, 2850.0, got)
}

func TestDebtRemaining(t *testing.T) {
	debt := budget.Debt{ID: "d1", Total: 1000}
	payments := []budget.DebtPayment{
		{DebtID: "d1", Amount: 200},
		{DebtID: "d1", Amount: 150},
		{DebtID: "d2", Amount: 999},
	}

	assert.Equal(t, 650.0, aggregate.DebtRemaining(debt, payments))
}

func TestPhilippinesMetrics(t *testing.T) {
	au := aggregate.LedgerRows([]budget.LedgerEntry{{Category: "Philippines", Amount: -300}})
	ph := aggregate.PhilippinesRows([]budget.PhilippinesEntry{{AmountAud: 50}, {AmountAud: -20}})

	got := aggregate.PhilippinesMetrics(ph, au, aggregate.Named("philippines"))
	assert.Equal(t, aggregate.Metrics{
		Transfers: 300,
		Income:    50,
		Expenses:  20,
		NetResult: 30,
		Remaining: 330,
	}, got)
}

func TestPhilippinesRows_LegacyAmount(t *testing.T) {
	rows := aggregate.PhilippinesRows([]budget.PhilippinesEntry{
		{Category: "Adj", Amount: 12},
		{Category: "Food", AmountPhp: -100, AmountAud: -2.59},
	})

	assert.Equal(t, []aggregate.Row{{Category: "Adj", Amount: 12}, {Category: "Food", Amount: -2.59}}, rows)
}

func TestSamMetrics(t *testing.T) {
	rows := []aggregate.Row{
		{Category: "Income", Amount: 100},
		{Category: "Groceries", Amount: 40},
		{Category: "", Amount: 10},
	}

	got := aggregate.SamMetrics(rows, aggregate.Named("income"))
	assert.Equal(t, aggregate.SamTotals{Income: 100, Expenses: 50, Net: 50, Entries: 3}, got)
}

func TestCategoryReport(t *testing.T) {
	doc := budget.Defaults()
	doc.Categories = []budget.Category{
		{Name: "rent", BudgetMonthly: budget.Ptr(2000)},
		{Name: "Income", BudgetMonthly: budget.Ptr(8000)},
		{Name: "Misc"},
	}

	actuals := map[string]float64{"rent": -2100, "Income": 8200}
	lines := aggregate.CategoryReport(doc.Categories, actuals, doc.Classes())

	require.Len(t, lines, 3)
	assert.Equal(t, "Income", lines[0].Name)
	assert.True(t, lines[0].IsIncome)
	assert.Equal(t, 200.0, lines[0].Diff)
	assert.True(t, lines[0].Good)

	assert.Equal(t, "Misc", lines[1].Name)
	assert.Equal(t, aggregate.StatusNoBudget, lines[1].Status)

	assert.Equal(t, "rent", lines[2].Name)
	assert.Equal(t, -100.0, lines[2].Diff)
	assert.Equal(t, aggregate.StatusOver, lines[2].Status)
}

func TestDebtReport(t *testing.T) {
	lines := aggregate.DebtReport(
		[]budget.Debt{{ID: "d1", Name: "Car", Total: 1000}},
		[]budget.DebtPayment{{DebtID: "d1", Amount: 350}},
	)

	assert.Equal(t, []aggregate.DebtLine{{ID: "d1", Name: "Car", Total: 1000, Paid: 350, Remaining: 650}}, lines)
}
