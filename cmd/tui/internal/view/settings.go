package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/toby-sam/budget/internal/budget"
	"github.com/toby-sam/budget/internal/tracker"
)

// SettingsModel edits the scalar fields of the document: the exchange rate,
// income, savings and the house/Samal percentages.
type SettingsModel struct {
	CommonModel
	svc *tracker.Service

	form   *huh.Form
	fields *settingsFields

	done   bool
	status string
	err    error
}

// settingsFields holds the form's text values.
type settingsFields struct {
	Rate         string
	Income       string
	AUSavings    string
	SamalSavings string
	HousePct     string
	SamalPct     string
}

func fieldsFrom(doc budget.Document) settingsFields {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	return settingsFields{
		Rate:         f(doc.PhpAudRate),
		Income:       f(doc.Income),
		AUSavings:    f(doc.AUSavings),
		SamalSavings: f(doc.SamalSavings),
		HousePct:     f(doc.HousePct),
		SamalPct:     f(doc.SamalPct),
	}
}

type settingsValues struct {
	rate, income          float64
	auSavings, samSavings float64
	housePct, samalPct    float64
}

func (f settingsFields) parse() (settingsValues, error) {
	var (
		v   settingsValues
		err error
	)

	for _, field := range []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"rate", f.Rate, &v.rate},
		{"income", f.Income, &v.income},
		{"AU savings", f.AUSavings, &v.auSavings},
		{"Samal savings", f.SamalSavings, &v.samSavings},
		{"house %", f.HousePct, &v.housePct},
		{"Samal %", f.SamalPct, &v.samalPct},
	} {
		*field.dst, err = strconv.ParseFloat(strings.TrimSpace(field.raw), 64)
		if err != nil {
			return settingsValues{}, fmt.Errorf("%s: not a number", field.name)
		}
	}

	return v, nil
}

func NewSettingsModel(svc *tracker.Service) SettingsModel {
	fields := fieldsFrom(svc.Document())
	m := SettingsModel{svc: svc, fields: &fields}
	m.form = m.buildForm()

	return m
}

func (m SettingsModel) Title() string { return "Settings" }

func (m SettingsModel) ShortHelp() string {
	if m.done {
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: next/save"
}

func (m *SettingsModel) buildForm() *huh.Form {
	input := func(key, title string, value *string) *huh.Input {
		return huh.NewInput().Key(key).Title(title).Validate(validateAmount).Value(value)
	}

	return huh.NewForm(
		huh.NewGroup(
			input("rate", "PHP → AUD rate", &m.fields.Rate),
			input("income", "Monthly income (AUD)", &m.fields.Income),
			input("auSavings", "AU savings (AUD)", &m.fields.AUSavings),
			input("samalSavings", "Samal savings (AUD)", &m.fields.SamalSavings),
			input("housePct", "House %", &m.fields.HousePct),
			input("samalPct", "Samal %", &m.fields.SamalPct),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m SettingsModel) Init() tea.Cmd {
	return m.form.Init()
}

type settingsSavedMsg struct {
	status string
	ops    []string
	err    error
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	if saved, ok := msg.(settingsSavedMsg); ok {
		m.done = true
		m.status, m.err = saved.status, saved.err

		if len(saved.ops) == 0 {
			return m, nil
		}

		op := saved.ops[len(saved.ops)-1]

		return m, func() tea.Msg { return ChangedMsg{Operation: op} }
	}

	if m.done {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

// saveCmd applies only the groups whose values changed, so each one is a
// separate undo step.
func (m SettingsModel) saveCmd() tea.Cmd {
	current := m.svc.Document()
	fields := *m.fields

	return func() tea.Msg {
		v, err := fields.parse()
		if err != nil {
			return settingsSavedMsg{err: err}
		}

		ctx, cancel := StoreCtx()
		defer cancel()

		return applySettings(ctx, m.svc, current, v)
	}
}

func applySettings(ctx context.Context, svc *tracker.Service, current budget.Document, v settingsValues) settingsSavedMsg {
	var (
		ops   []string
		lines []string
	)

	if v.rate != current.PhpAudRate {
		n, err := svc.SetRate(ctx, v.rate)
		if err != nil {
			return settingsSavedMsg{ops: ops, err: err}
		}

		ops = append(ops, "set rate")
		lines = append(lines, fmt.Sprintf("Rate set to %g, %d Philippines rows re-priced", v.rate, n))
	}

	if v.income != current.Income {
		if err := svc.SetIncome(ctx, v.income); err != nil {
			return settingsSavedMsg{ops: ops, err: err}
		}

		ops = append(ops, "set income")
		lines = append(lines, "Income set to "+FormatAmount(v.income))
	}

	if v.auSavings != current.AUSavings || v.samSavings != current.SamalSavings {
		if err := svc.SetSavings(ctx, v.auSavings, v.samSavings); err != nil {
			return settingsSavedMsg{ops: ops, err: err}
		}

		ops = append(ops, "set savings")
		lines = append(lines, "Savings updated")
	}

	if v.housePct != current.HousePct || v.samalPct != current.SamalPct {
		if err := svc.SetPercentages(ctx, v.housePct, v.samalPct); err != nil {
			return settingsSavedMsg{ops: ops, err: err}
		}

		ops = append(ops, "set percentages")
		lines = append(lines, "Percentages updated")
	}

	if len(lines) == 0 {
		return settingsSavedMsg{status: "Nothing changed"}
	}

	return settingsSavedMsg{status: strings.Join(lines, "\n"), ops: ops}
}

func (m SettingsModel) View() string {
	if m.done {
		return resultView(m.status, m.err)
	}

	return paddedStyle.Render(headerStyle.Render("Settings") + "\n\n" + m.form.View())
}
