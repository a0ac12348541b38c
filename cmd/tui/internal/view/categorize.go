package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/toby-sam/budget/internal/tracker"
)

type categorizeState int

const (
	categorizeStateSelectScope categorizeState = iota
	categorizeStateReviewing
)

// CategorizeModel walks the uncategorised rows of a ledger one at a time,
// prefilled with a suggested category.
type CategorizeModel struct {
	CommonModel
	svc *tracker.Service

	state       categorizeState
	scopeCursor int

	queue      []tracker.Pending
	current    *tracker.Pending
	totalCount int
	filed      int

	input  textinput.Model
	status string
}

func NewCategorizeModel(svc *tracker.Service) CategorizeModel {
	ti := textinput.New()
	ti.Placeholder = "Category"
	ti.Width = 40
	ti.ShowSuggestions = true

	return CategorizeModel{
		svc:    svc,
		input:  ti,
		status: "Select ledger to review",
	}
}

func (m CategorizeModel) Title() string { return "Categorise" }

func (m CategorizeModel) ShortHelp() string {
	if m.state == categorizeStateReviewing {
		return "Enter: save & next | Tab: complete | Ctrl+S: skip | Esc: back"
	}

	return "↑/↓: select | Enter: start | Esc: back"
}

func (m CategorizeModel) Init() tea.Cmd {
	return nil
}

func (m CategorizeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			if m.state == categorizeStateReviewing {
				m.state = categorizeStateSelectScope
				m.current = nil
				m.queue = nil
				m.input.Blur()

				return m, nil
			}

			return m, Back

		case tea.KeyUp, tea.KeyDown:
			if m.state == categorizeStateSelectScope {
				if msg.Type == tea.KeyUp && m.scopeCursor > 0 {
					m.scopeCursor--
				}

				if msg.Type == tea.KeyDown && m.scopeCursor < len(scopes)-1 {
					m.scopeCursor++
				}

				return m, nil
			}

		case tea.KeyCtrlS:
			if m.current != nil {
				m.nextRow()
				return m, textinput.Blink
			}

		case tea.KeyEnter:
			if m.state == categorizeStateSelectScope {
				return m.start()
			}

			if m.current != nil {
				return m, m.saveAndNextCmd(m.input.Value())
			}
		}

	case categorizeSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.filed++
		m.nextRow()

		return m, tea.Batch(textinput.Blink, func() tea.Msg { return ChangedMsg{Operation: msg.op} })
	}

	if m.state == categorizeStateReviewing {
		m.input, cmd = m.input.Update(msg)
	}

	return m, cmd
}

func (m CategorizeModel) scope() tracker.Scope { return scopes[m.scopeCursor] }

func (m CategorizeModel) start() (tea.Model, tea.Cmd) {
	rows, err := m.svc.Uncategorised(m.scope())
	if err != nil {
		m.status = fmt.Sprintf("Error loading rows: %v", err)
		return m, nil
	}

	m.state = categorizeStateReviewing
	m.queue = rows
	m.totalCount = len(rows)
	m.filed = 0
	m.input.SetSuggestions(m.suggestions())
	m.nextRow()

	return m, textinput.Blink
}

// suggestions are the budget category names of the scope being reviewed.
func (m CategorizeModel) suggestions() []string {
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

func (m *CategorizeModel) nextRow() {
	if len(m.queue) == 0 {
		m.current = nil
		m.status = fmt.Sprintf("All done! Filed %d of %d rows.", m.filed, m.totalCount)
		m.input.Blur()

		return
	}

	row := m.queue[0]
	m.queue = m.queue[1:]
	m.current = &row

	m.status = fmt.Sprintf("Reviewing %d/%d", m.totalCount-len(m.queue), m.totalCount)
	m.input.SetValue(row.Suggested)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m CategorizeModel) View() string {
	if m.state == categorizeStateSelectScope {
		s := "Select Ledger:\n\n"

		for i, sc := range scopes {
			cursor := " "
			if i == m.scopeCursor {
				cursor = ">"
			}

			s += fmt.Sprintf("%s %s\n", cursor, sc)
		}

		return lipgloss.NewStyle().Padding(2).Render(s + "\n" + faintStyle.Render(m.ShortHelp()))
	}

	if m.current == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to go back)")
	}

	info := fmt.Sprintf(
		"Date:   %s\nAmount: %s\nText:   %s\n",
		m.current.Date,
		FormatAmount(m.current.Amount),
		m.current.Text,
	)

	hint := ""
	if m.current.Suggested != "" {
		hint = faintStyle.Render("Suggested from similar rows")
	}

	return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
		"%s\n\n%s\nCategory:\n%s\n%s\n\n%s",
		headerStyle.Render(m.status), info, m.input.View(), hint, faintStyle.Render(m.ShortHelp()),
	))
}

type categorizeSaveMsg struct {
	op  string
	err error
}

func (m CategorizeModel) saveAndNextCmd(category string) tea.Cmd {
	var (
		scope = m.scope()
		id    = m.current.ID
	)

	category = strings.TrimSpace(category)
	if category == "" {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		err := m.svc.Categorize(ctx, scope, id, category)

		return categorizeSaveMsg{op: fmt.Sprintf("categorize %s entry", scope), err: err}
	}
}
