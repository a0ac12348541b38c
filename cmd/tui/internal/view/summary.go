package view

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/toby-sam/budget/internal/report"
	"github.com/toby-sam/budget/internal/tracker"
)

const defaultWidth = 100

// SummaryModel shows the dashboard report rendered as markdown.
type SummaryModel struct {
	CommonModel
	svc *tracker.Service

	viewport viewport.Model
	err      error
}

func NewSummaryModel(svc *tracker.Service) SummaryModel {
	return SummaryModel{
		svc:      svc,
		viewport: viewport.New(defaultWidth, 30),
	}
}

func (m SummaryModel) Title() string     { return "Summary" }
func (m SummaryModel) ShortHelp() string { return "Esc: back | ↑/↓: scroll | r: refresh" }

func (m SummaryModel) Init() tea.Cmd {
	return m.renderCmd(m.viewport.Width)
}

type summaryRenderedMsg struct {
	content string
	err     error
}

func (m SummaryModel) renderCmd(width int) tea.Cmd {
	doc := m.svc.Document()

	return func() tea.Msg {
		out, err := report.Terminal(report.Build(doc).Markdown(), width, "")
		return summaryRenderedMsg{content: out, err: err}
	}
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryRenderedMsg:
		m.err = msg.err
		m.viewport.SetContent(msg.content)

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 4

		return m, m.renderCmd(msg.Width)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, Back
		case "r":
			return m, m.renderCmd(m.viewport.Width)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

func (m SummaryModel) View() string {
	if m.err != nil {
		return resultView("", m.err)
	}

	return m.viewport.View() + "\n" + faintStyle.Render(m.ShortHelp())
}
