package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/toby-sam/budget/internal/budget"
	"github.com/toby-sam/budget/internal/tracker"
)

type ledgerState int

const (
	ledgerStateBrowse ledgerState = iota
	ledgerStateAdd
	ledgerStateCategory
)

var scopes = []tracker.Scope{tracker.ScopeAU, tracker.ScopePhilippines, tracker.ScopeSam}

// LedgerModel browses one ledger at a time as a table.
type LedgerModel struct {
	CommonModel
	svc *tracker.Service

	state     ledgerState
	scopeIdx  int
	timeframe Timeframe
	table     table.Model
	ids       []string
	form      *huh.Form
	status    string

	entry *ledgerForm
}

func NewLedgerModel(svc *tracker.Service) LedgerModel {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := LedgerModel{svc: svc, table: t, timeframe: TimeframeThisMonth}
	m.refreshTable()

	return m
}

func (m LedgerModel) scope() tracker.Scope { return scopes[m.scopeIdx] }

func (m LedgerModel) Title() string { return "Ledgers" }

func (m LedgerModel) ShortHelp() string {
	if m.state != ledgerStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | tab: ledger | d: dates | a: add | c: category | x: delete"
}

func (m LedgerModel) Init() tea.Cmd {
	return nil
}

// ledgerColumns are the table columns for a scope.
func ledgerColumns(scope tracker.Scope) []table.Column {
	if scope == tracker.ScopePhilippines {
		return []table.Column{
			{Title: "Date", Width: 12},
			{Title: "Reason", Width: 34},
			{Title: "Category", Width: 16},
			{Title: "PHP", Width: 14},
			{Title: "AUD", Width: 12},
		}
	}

	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Description", Width: 40},
		{Title: "Category", Width: 18},
		{Title: "Amount", Width: 12},
	}
}

// ledgerRows lists the rows of a scope that fall in the timeframe, along with
// their ids in the same order.
func ledgerRows(doc budget.Document, scope tracker.Scope, tf Timeframe, now time.Time) ([]string, []table.Row) {
	var (
		ids  []string
		rows []table.Row
	)

	switch scope {
	case tracker.ScopeAU:
		for _, e := range doc.Ledger {
			if InTimeframe(e.Date, tf, now) {
				ids = append(ids, e.ID)
				rows = append(rows, table.Row{e.Date, e.Description, e.Category, FormatAmount(float64(e.Amount))})
			}
		}
	case tracker.ScopePhilippines:
		for _, e := range doc.Philippines {
			if !InTimeframe(e.Date, tf, now) {
				continue
			}

			php := ""
			if e.HasPHP() {
				php = FormatPHP(float64(e.AmountPhp))
			}

			ids = append(ids, e.ID)
			rows = append(rows, table.Row{e.Date, e.Reason, e.Category, php, FormatAmount(e.AUD())})
		}
	case tracker.ScopeSam:
		for _, e := range doc.SamLedger {
			if InTimeframe(e.Date, tf, now) {
				ids = append(ids, e.ID)
				rows = append(rows, table.Row{e.Date, e.Reason, e.Category, FormatAmount(float64(e.AmountAud))})
			}
		}
	}

	return ids, rows
}

func (m *LedgerModel) refreshTable() {
	ids, rows := ledgerRows(m.svc.Document(), m.scope(), m.timeframe, time.Now())

	// Rows must be cleared before the column count changes.
	m.table.SetRows(nil)
	m.table.SetColumns(ledgerColumns(m.scope()))
	m.table.SetRows(rows)
	m.ids = ids

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ledgerSaveMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = ledgerStateBrowse
		m.form = nil
		m.table.Focus()
		m.refreshTable()

		if msg.err != nil {
			return m, nil
		}

		return m, func() tea.Msg { return ChangedMsg{Operation: msg.op} }

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	switch m.state {
	case ledgerStateBrowse:
		return m.updateBrowse(msg)
	default:
		return m.updateForm(msg)
	}
}

func (m LedgerModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.refreshTable()
			return m, nil
		case "tab":
			m.scopeIdx = (m.scopeIdx + 1) % len(scopes)
			m.refreshTable()

			return m, nil
		case "d":
			m.timeframe = m.timeframe.Next()
			m.refreshTable()

			return m, nil
		case "a":
			return m.enterAddMode()
		case "c":
			return m.enterCategoryMode()
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LedgerModel) selectedID() (string, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.ids) {
		return "", false
	}

	return m.ids[idx], true
}

// categoryNames lists the budget categories of the current scope.
func (m LedgerModel) categoryNames() []string {
	doc := m.svc.Document()

	list := doc.Categories
	switch m.scope() {
	case tracker.ScopePhilippines:
		list = doc.PhBudgetCategories
	case tracker.ScopeSam:
		list = doc.SamBudgetCategories
	}

	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}

	return names
}

// ledgerForm holds the values bound to the add and categorise forms. It lives
// behind a pointer so huh keeps writing to it after the model is copied.
type ledgerForm struct {
	Date     string
	Text     string
	Category string
	Amount   string
}

func validateAmount(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("enter a number, e.g. -84.20")
	}

	return nil
}

func (m LedgerModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.entry = &ledgerForm{Date: time.Now().Format(budget.ISODate)}

	amountTitle := "Amount (AUD, expenses negative)"
	if m.scope() == tracker.ScopePhilippines {
		amountTitle = "Amount (PHP, expenses negative)"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("date").Title("Date").Value(&m.entry.Date),
			huh.NewInput().Key("text").Title("Description").Value(&m.entry.Text),
			huh.NewInput().Key("category").Title("Category").
				Suggestions(m.categoryNames()).
				Value(&m.entry.Category),
			huh.NewInput().Key("amount").Title(amountTitle).
				Validate(validateAmount).
				Value(&m.entry.Amount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ledgerStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m LedgerModel) enterCategoryMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if _, ok := m.selectedID(); !ok {
		return m, nil
	}

	m.entry = &ledgerForm{Category: m.table.Rows()[idx][2]}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("category").Title("Category").
				Suggestions(m.categoryNames()).
				Value(&m.entry.Category),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ledgerStateCategory
	m.table.Blur()

	return m, m.form.Init()
}

func (m LedgerModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = ledgerStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == ledgerStateAdd {
		return m, m.addCmd()
	}

	return m, m.categorizeCmd()
}

func (m LedgerModel) View() string {
	scopeLabels := make([]string, len(scopes))
	for i, sc := range scopes {
		scopeLabels[i] = string(sc)
		if i == m.scopeIdx {
			scopeLabels[i] = activeStyle(string(sc))
		}
	}

	header := fmt.Sprintf("[tab] Ledger: %s | [d] Dates: %s | %d rows",
		strings.Join(scopeLabels, " "),
		activeStyle(m.timeframe.String()),
		len(m.ids),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != ledgerStateBrowse && m.form != nil {
		title := "Add Entry"
		if m.state == ledgerStateCategory {
			title = "Set Category"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n" + faintStyle.Render(m.ShortHelp()))
}

// Messages

type ledgerSaveMsg struct {
	op  string
	err error
}

func (m LedgerModel) addCmd() tea.Cmd {
	var (
		scope    = m.scope()
		date     = m.entry.Date
		text     = m.entry.Text
		category = m.entry.Category
	)

	amount, _ := strconv.ParseFloat(strings.TrimSpace(m.entry.Amount), 64)

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		var err error

		switch scope {
		case tracker.ScopeAU:
			_, err = m.svc.AddLedgerEntry(ctx, tracker.LedgerParams{Date: date, Description: text, Category: category, Amount: amount})
		case tracker.ScopePhilippines:
			_, err = m.svc.AddPhilippinesEntry(ctx, tracker.PhilippinesParams{Date: date, Reason: text, Category: category, AmountPHP: &amount})
		case tracker.ScopeSam:
			_, err = m.svc.AddSamEntry(ctx, tracker.SamParams{Date: date, Reason: text, Category: category, AmountAUD: amount})
		}

		return ledgerSaveMsg{op: fmt.Sprintf("add %s entry", scope), err: err}
	}
}

func (m LedgerModel) categorizeCmd() tea.Cmd {
	id, ok := m.selectedID()
	if !ok {
		return nil
	}

	scope, category := m.scope(), strings.TrimSpace(m.entry.Category)

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		err := m.svc.Categorize(ctx, scope, id, category)

		return ledgerSaveMsg{op: fmt.Sprintf("categorize %s entry", scope), err: err}
	}
}

func (m LedgerModel) deleteCmd() tea.Cmd {
	id, ok := m.selectedID()
	if !ok {
		return nil
	}

	scope := m.scope()

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		err := m.svc.DeleteEntry(ctx, scope, id)

		return ledgerSaveMsg{op: fmt.Sprintf("delete %s entry", scope), err: err}
	}
}
