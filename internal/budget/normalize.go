package budget

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
)

var (
	ErrNotObject    = errors.New("document is not a JSON object")
	ErrUnknownField = errors.New("unknown list field")
)

// listField binds one JSON array field of the document to its Go slice.
type listField struct {
	name   string
	get    func(d *Document) any
	decode func(d *Document, raw json.RawMessage) bool
	clear  func(d *Document)
}

func newListField[T any](name string, ptr func(d *Document) *[]T) listField {
	return listField{
		name: name,
		get: func(d *Document) any {
			if *ptr(d) == nil {
				return []T{}
			}

			return *ptr(d)
		},
		decode: func(d *Document, raw json.RawMessage) bool {
			items, ok := decodeList[T](raw)
			if ok {
				*ptr(d) = items
			}

			return ok
		},
		clear: func(d *Document) { *ptr(d) = []T{} },
	}
}

var listFields = []listField{
	newListField("categories", func(d *Document) *[]Category { return &d.Categories }),
	newListField("ledger", func(d *Document) *[]LedgerEntry { return &d.Ledger }),
	newListField("incomes", func(d *Document) *[]IncomeEntry { return &d.Incomes }),
	newListField("philippines", func(d *Document) *[]PhilippinesEntry { return &d.Philippines }),
	newListField("phCategories", func(d *Document) *[]string { return &d.PhCategories }),
	newListField("phBudgetCategories", func(d *Document) *[]Category { return &d.PhBudgetCategories }),
	newListField("samLedger", func(d *Document) *[]SamLedgerEntry { return &d.SamLedger }),
	newListField("samBudgetCategories", func(d *Document) *[]Category { return &d.SamBudgetCategories }),
	newListField("investments", func(d *Document) *[]Investment { return &d.Investments }),
	newListField("debts", func(d *Document) *[]Debt { return &d.Debts }),
	newListField("debtPayments", func(d *Document) *[]DebtPayment { return &d.DebtPayments }),
	newListField("bonusIncome", func(d *Document) *[]BonusIncome { return &d.BonusIncome }),
}

type scalarField struct {
	name  string
	ptr   func(d *Document) *float64
	valid func(v float64) bool
}

func anyNumber(float64) bool { return true }

var scalarFields = []scalarField{
	{"income", func(d *Document) *float64 { return &d.Income }, anyNumber},
	{"housePct", func(d *Document) *float64 { return &d.HousePct }, anyNumber},
	{"samalPct", func(d *Document) *float64 { return &d.SamalPct }, anyNumber},
	{"phpAudRate", func(d *Document) *float64 { return &d.PhpAudRate }, func(v float64) bool { return v > 0 }},
	{"auSavings", func(d *Document) *float64 { return &d.AUSavings }, anyNumber},
	{"samalSavings", func(d *Document) *float64 { return &d.SamalSavings }, anyNumber},
	{"version", func(d *Document) *float64 { return &d.Version }, anyNumber},
}

// ListFields returns the JSON names of every array field, in document order.
func ListFields() []string {
	names := make([]string, len(listFields))
	for i, f := range listFields {
		names[i] = f.name
	}

	return names
}

func findListField(name string) (listField, bool) {
	for _, f := range listFields {
		if f.name == name {
			return f, true
		}
	}

	return listField{}, false
}

func knownField(name string) bool {
	if _, ok := findListField(name); ok {
		return true
	}

	return slices.ContainsFunc(scalarFields, func(f scalarField) bool { return f.name == name })
}

// Normalize merges a persisted blob over Defaults. Array fields are taken only
// when the stored value is an array, scalars only when numeric (phpAudRate
// additionally > 0), and unknown top-level fields are kept in Extra.
// Malformed rows inside an array are dropped.
func Normalize(data []byte) (Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Defaults(), fmt.Errorf("parsing document: %w", err)
	}

	if fields == nil {
		return Defaults(), ErrNotObject
	}

	doc := Defaults()

	for _, f := range scalarFields {
		if v, ok := number(fields[f.name]); ok && f.valid(v) {
			*f.ptr(&doc) = v
		}
	}

	for _, f := range listFields {
		if raw, ok := fields[f.name]; ok {
			f.decode(&doc, raw)
		}
	}

	for name, raw := range fields {
		if knownField(name) {
			continue
		}

		if doc.Extra == nil {
			doc.Extra = make(map[string]json.RawMessage)
		}

		doc.Extra[name] = append(json.RawMessage(nil), raw...)
	}

	return doc, nil
}

func number(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}

	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return 0, false
	}

	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}

func decodeList[T any](raw json.RawMessage) ([]T, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}

		out = append(out, v)
	}

	return out, true
}

// MarshalJSON writes the complete field set plus pass-through fields. Keys are
// emitted in sorted order so identical documents serialize identically.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+len(scalarFields)+len(listFields))

	for k, v := range d.Extra {
		out[k] = v
	}

	for _, f := range scalarFields {
		out[f.name] = *f.ptr(&d)
	}

	for _, f := range listFields {
		out[f.name] = f.get(&d)
	}

	return json.Marshal(out)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := Normalize(data)
	if err != nil {
		return err
	}

	*d = doc

	return nil
}

// Normalized returns d passed through a marshal/Normalize cycle, giving
// ad-hoc documents the full schema.
func (d Document) Normalized() (Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return Document{}, fmt.Errorf("encoding document: %w", err)
	}

	return Normalize(data)
}

// Clear empties the named array fields.
func (d *Document) Clear(names ...string) error {
	for _, name := range names {
		f, ok := findListField(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}

		f.clear(d)
	}

	return nil
}

// Section returns the value of one array field, for section backups.
func (d Document) Section(name string) (any, error) {
	f, ok := findListField(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	return f.get(&d), nil
}

// SetSection replaces one array field from raw JSON. The value must be an array.
func (d *Document) SetSection(name string, raw json.RawMessage) error {
	f, ok := findListField(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	if !f.decode(d, raw) {
		return fmt.Errorf("section %q is not an array", name)
	}

	return nil
}
