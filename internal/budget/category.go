package budget

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var errUnnamedCategory = errors.New("category has no name")

// Kind classifies a category for aggregation.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
	// KindTransfer marks money moved between the two households (AU -> PH).
	KindTransfer Kind = "transfer"
	// KindDeduction reverses income, e.g. a refund of an overpaid wage.
	KindDeduction Kind = "deduction"
)

func (k Kind) Valid() bool {
	switch k {
	case KindExpense, KindIncome, KindTransfer, KindDeduction:
		return true
	}

	return false
}

// InferKind derives the kind of a category that predates explicit kinds from
// its name.
func InferKind(name string) Kind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "income", "au_income":
		return KindIncome
	case "bad income":
		return KindDeduction
	case "philippines":
		return KindTransfer
	default:
		return KindExpense
	}
}

// Category is a named budget line. A nil BudgetMonthly means no budget is set.
type Category struct {
	Name          string  `json:"name"`
	BudgetMonthly *Amount `json:"budgetMonthly"`
	Kind          Kind    `json:"kind,omitempty"`
}

// EffectiveKind returns the explicit kind, or the one inferred from the name.
func (c Category) EffectiveKind() Kind {
	if c.Kind.Valid() {
		return c.Kind
	}

	return InferKind(c.Name)
}

// Budget returns the monthly budget or 0 when none is set.
func (c Category) Budget() float64 {
	if c.BudgetMonthly == nil {
		return 0
	}

	return float64(*c.BudgetMonthly)
}

// UnmarshalJSON accepts the legacy bare-string form ("Groceries") as well as
// the object form. Objects without a name are rejected so Normalize drops
// them; other scalars become a category named after their JSON text.
func (c *Category) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}

		*c = Category{Name: name, BudgetMonthly: Ptr(0)}

		return nil
	}

	if len(data) > 0 && data[0] == '{' {
		var raw struct {
			Name          json.RawMessage `json:"name"`
			BudgetMonthly *Amount         `json:"budgetMonthly"`
			Kind          Kind            `json:"kind"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}

		name := textOf(raw.Name)
		if name == "" {
			return errUnnamedCategory
		}

		*c = Category{Name: name, BudgetMonthly: raw.BudgetMonthly, Kind: raw.Kind}
		if !c.Kind.Valid() {
			c.Kind = ""
		}

		return nil
	}

	*c = Category{Name: string(data), BudgetMonthly: Ptr(0)}

	return nil
}

func textOf(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return string(raw)
}

// Classes maps lower-cased category names to their kind across all scoped
// category lists of a document.
type Classes map[string]Kind

// KindOf returns the kind for name, falling back to the legacy inference for
// names that are not in any list.
func (c Classes) KindOf(name string) Kind {
	if k, ok := c[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k
	}

	return InferKind(name)
}

// Is reports whether name belongs to one of kinds.
func (c Classes) Is(name string, kinds ...Kind) bool {
	k := c.KindOf(name)
	for _, want := range kinds {
		if k == want {
			return true
		}
	}

	return false
}

// Classes builds the kind table. Earlier lists win on name clashes: AU, then
// Philippines, then Sam.
func (d Document) Classes() Classes {
	out := make(Classes)

	for _, list := range [][]Category{d.Categories, d.PhBudgetCategories, d.SamBudgetCategories} {
		for _, c := range list {
			key := strings.ToLower(strings.TrimSpace(c.Name))
			if _, seen := out[key]; seen {
				continue
			}

			out[key] = c.EffectiveKind()
		}
	}

	return out
}

// FindCategory returns the index of the category named name (case-insensitive) or -1.
func FindCategory(list []Category, name string) int {
	name = strings.TrimSpace(name)
	for i, c := range list {
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return i
		}
	}

	return -1
}
