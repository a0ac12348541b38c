package budget_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toby-sam/budget/internal/budget"
)

func TestDefaults(t *testing.T) {
	d := budget.Defaults()

	assert.Equal(t, 0.0, d.Income)
	assert.Equal(t, 10.0, d.HousePct)
	assert.Equal(t, 10.0, d.SamalPct)
	assert.Equal(t, 0.0259, d.PhpAudRate)
	assert.Equal(t, 1.0, d.Version)

	data, err := json.Marshal(d)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))

	for _, name := range budget.ListFields() {
		assert.JSONEq(t, `[]`, string(fields[name]), name)
	}
}

func TestNormalize(t *testing.T) {
	type testCase struct {
		name  string
		input string
		check func(t *testing.T, d budget.Document)
	}

	tests := []testCase{
		{
			name:  "MissingCategories",
			input: `{"income": 5000, "ledger": []}`,
			check: func(t *testing.T, d budget.Document) {
				assert.NotNil(t, d.Categories)
				assert.Empty(t, d.Categories)
				assert.Equal(t, 5000.0, d.Income)
				assert.Equal(t, 10.0, d.HousePct)
			},
		},
		{
			name:  "NonArrayCategories",
			input: `{"categories": "oops", "debts": {"a": 1}}`,
			check: func(t *testing.T, d budget.Document) {
				assert.NotNil(t, d.Categories)
				assert.Empty(t, d.Categories)
				assert.NotNil(t, d.Debts)
				assert.Empty(t, d.Debts)
			},
		},
		{
			name:  "InvalidRate",
			input: `{"phpAudRate": 0, "version": "2"}`,
			check: func(t *testing.T, d budget.Document) {
				assert.Equal(t, budget.DefaultPhpAudRate, d.PhpAudRate)
				assert.Equal(t, 1.0, d.Version)
			},
		},
		{
			name:  "NegativeRate",
			input: `{"phpAudRate": -0.5}`,
			check: func(t *testing.T, d budget.Document) {
				assert.Equal(t, budget.DefaultPhpAudRate, d.PhpAudRate)
			},
		},
		{
			name:  "ValidRate",
			input: `{"phpAudRate": 0.03, "version": 3}`,
			check: func(t *testing.T, d budget.Document) {
				assert.Equal(t, 0.03, d.PhpAudRate)
				assert.Equal(t, 3.0, d.Version)
			},
		},
		{
			name:  "LegacyStringCategories",
			input: `{"phBudgetCategories": ["Food", {"name": "Rent", "budgetMonthly": 500}, {"budgetMonthly": 10}]}`,
			check: func(t *testing.T, d budget.Document) {
				require.Len(t, d.PhBudgetCategories, 2)
				assert.Equal(t, "Food", d.PhBudgetCategories[0].Name)
				require.NotNil(t, d.PhBudgetCategories[0].BudgetMonthly)
				assert.Equal(t, 0.0, d.PhBudgetCategories[0].Budget())
				assert.Equal(t, 500.0, d.PhBudgetCategories[1].Budget())
			},
		},
		{
			name:  "NullBudgetKept",
			input: `{"categories": [{"name": "Misc", "budgetMonthly": null}]}`,
			check: func(t *testing.T, d budget.Document) {
				require.Len(t, d.Categories, 1)
				assert.Nil(t, d.Categories[0].BudgetMonthly)
			},
		},
		{
			name:  "LenientAmounts",
			input: `{"ledger": [{"date": "2025-01-01", "amount": "$1,234.50"}, {"amount": null}, {"amount": "abc"}, 7]}`,
			check: func(t *testing.T, d budget.Document) {
				require.Len(t, d.Ledger, 3)
				assert.Equal(t, budget.Amount(1234.5), d.Ledger[0].Amount)
				assert.Equal(t, budget.Amount(0), d.Ledger[1].Amount)
				assert.Equal(t, budget.Amount(0), d.Ledger[2].Amount)
			},
		},
		{
			name:  "UnknownFieldsPreserved",
			input: `{"theme": "dark", "widgets": [1, 2]}`,
			check: func(t *testing.T, d budget.Document) {
				assert.JSONEq(t, `"dark"`, string(d.Extra["theme"]))
				assert.JSONEq(t, `[1,2]`, string(d.Extra["widgets"]))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := budget.Normalize([]byte(tt.input))
			require.NoError(t, err)
			tt.check(t, d)
		})
	}
}

func TestNormalize_NotAnObject(t *testing.T) {
	for _, input := range []string{`null`, `[]`, `42`, `{broken`} {
		d, err := budget.Normalize([]byte(input))
		assert.Error(t, err, input)
		assert.Equal(t, budget.Defaults(), d, input)
	}
}

func TestDocument_MarshalRoundTrip(t *testing.T) {
	d := budget.Defaults()
	d.Income = 7200
	d.Ledger = []budget.LedgerEntry{{ID: "a", Date: "2025-11-01", Description: "Coles", Category: "Groceries", Amount: -82.4}}
	d.Philippines = []budget.PhilippinesEntry{{ID: "b", Date: "01 Nov 2025", Reason: "Meralco", AmountPhp: -1000, AmountAud: -25.9}}
	d.Categories = []budget.Category{{Name: "Groceries", BudgetMonthly: budget.Ptr(600)}, {Name: "Misc"}}
	d.Extra = map[string]json.RawMessage{"theme": json.RawMessage(`"dark"`)}

	first, err := json.Marshal(d)
	require.NoError(t, err)

	var got budget.Document
	require.NoError(t, json.Unmarshal(first, &got))
	assert.Equal(t, d, got)

	second, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestDocument_Clone(t *testing.T) {
	d := budget.Defaults()
	d.Categories = []budget.Category{{Name: "Rent", BudgetMonthly: budget.Ptr(2000)}}
	d.Ledger = []budget.LedgerEntry{{ID: "1", Amount: -10}}

	c := d.Clone()
	*c.Categories[0].BudgetMonthly = 1
	c.Ledger[0].Amount = 99

	assert.Equal(t, 2000.0, d.Categories[0].Budget())
	assert.Equal(t, budget.Amount(-10), d.Ledger[0].Amount)
}

func TestDocument_Clear(t *testing.T) {
	d := budget.Defaults()
	d.Ledger = []budget.LedgerEntry{{ID: "1"}}
	d.Philippines = []budget.PhilippinesEntry{{ID: "2"}}

	require.NoError(t, d.Clear("ledger", "philippines"))
	assert.Empty(t, d.Ledger)
	assert.NotNil(t, d.Ledger)
	assert.Empty(t, d.Philippines)

	assert.ErrorIs(t, d.Clear("income"), budget.ErrUnknownField)
}

func TestDocument_SetSection(t *testing.T) {
	d := budget.Defaults()

	require.NoError(t, d.SetSection("phBudgetCategories", json.RawMessage(`[{"name":"Food","budgetMonthly":100}]`)))
	require.Len(t, d.PhBudgetCategories, 1)

	assert.Error(t, d.SetSection("phBudgetCategories", json.RawMessage(`{"name":"Food"}`)))
	assert.ErrorIs(t, d.SetSection("nope", json.RawMessage(`[]`)), budget.ErrUnknownField)
	assert.Len(t, d.PhBudgetCategories, 1)
}

func TestDocument_AssignIDs(t *testing.T) {
	d := budget.Defaults()
	d.Ledger = []budget.LedgerEntry{{Description: "a"}, {ID: "keep"}}
	d.Debts = []budget.Debt{{Name: "Car"}}

	assert.True(t, d.AssignIDs())
	assert.NotEmpty(t, d.Ledger[0].ID)
	assert.Equal(t, "keep", d.Ledger[1].ID)
	assert.NotEmpty(t, d.Debts[0].ID)

	assert.False(t, d.AssignIDs())
}

func TestInferKind(t *testing.T) {
	tests := map[string]budget.Kind{
		"Income":      budget.KindIncome,
		"au_income":   budget.KindIncome,
		"Bad Income":  budget.KindDeduction,
		"Philippines": budget.KindTransfer,
		"Groceries":   budget.KindExpense,
		"":            budget.KindExpense,
	}

	for name, want := range tests {
		assert.Equal(t, want, budget.InferKind(name), name)
	}
}

func TestDocument_Classes(t *testing.T) {
	d := budget.Defaults()
	d.Categories = []budget.Category{
		{Name: "Salary", Kind: budget.KindIncome},
		{Name: "Income"},
		{Name: "Rent"},
	}
	d.SamBudgetCategories = []budget.Category{{Name: "salary", Kind: budget.KindExpense}}

	classes := d.Classes()

	assert.Equal(t, budget.KindIncome, classes.KindOf("SALARY"))
	assert.Equal(t, budget.KindIncome, classes.KindOf("income"))
	assert.Equal(t, budget.KindExpense, classes.KindOf("Rent"))
	assert.Equal(t, budget.KindTransfer, classes.KindOf("Philippines"))
	assert.True(t, classes.Is("Bad income", budget.KindDeduction))
}
