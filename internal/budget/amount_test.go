package budget_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toby-sam/budget/internal/budget"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1234.50", 1234.5},
		{"$1,234.50", 1234.5},
		{"PHP -35.00", -35},
		{"-1,000", -1000},
		{"12.3.4", 12.3},
		{".5", 0.5},
		{"abc", 0},
		{"", 0},
		{"-", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, budget.ParseAmount(tt.in), tt.in)
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want budget.Amount
	}{
		{`12.5`, 12.5},
		{`-3`, -3},
		{`"1,000.25"`, 1000.25},
		{`null`, 0},
		{`true`, 0},
		{`{"x":1}`, 0},
		{`"n/a"`, 0},
	}

	for _, tt := range tests {
		var a budget.Amount
		require.NoError(t, json.Unmarshal([]byte(tt.in), &a), tt.in)
		assert.Equal(t, tt.want, a, tt.in)
	}
}

func TestAmount_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(budget.Amount(-82.4))
	require.NoError(t, err)
	assert.Equal(t, `-82.4`, string(data))
}
