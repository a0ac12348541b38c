package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/toby-sam/budget/cmd/tui/internal/view"
	"github.com/toby-sam/budget/internal/app"
	"github.com/toby-sam/budget/internal/config"
	"github.com/toby-sam/budget/internal/store"
)

const logFile = "budget-tui.log"

type model struct {
	app *app.App

	current view.View
	width   int
	height  int
	status  string
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	statusStyle = lipgloss.NewStyle().Faint(true)
)

var menu = []struct {
	key   string
	label string
	open  func(a *app.App) view.View
}{
	{"1", "Summary", func(a *app.App) view.View { return view.NewSummaryModel(a.Tracker) }},
	{"2", "Ledgers", func(a *app.App) view.View { return view.NewLedgerModel(a.Tracker) }},
	{"3", "Categorise", func(a *app.App) view.View { return view.NewCategorizeModel(a.Tracker) }},
	{"4", "Import CSV", func(a *app.App) view.View { return view.NewImportModel(a.Tracker, a.Importer) }},
	{"5", "Export", func(a *app.App) view.View { return view.NewExportModel(a.Exporter) }},
	{"6", "Settings", func(a *app.App) view.View { return view.NewSettingsModel(a.Tracker) }},
	{"7", "Backup & Restore", func(a *app.App) view.View {
		return view.NewBackupModel(a.Tracker, a.Config.Budget.CloseMonthClear)
	}},
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		m.current = nil
		return m, nil
	case undoneMsg:
		switch {
		case errors.Is(msg.err, store.ErrNothingToUndo):
			m.status = "Nothing to undo"
		case msg.err != nil:
			m.status = "Undo failed: " + msg.err.Error()
		default:
			m.status = "Undone: " + msg.op
		}

		return m, nil
	case view.ChangedMsg:
		m.status = "Saved: " + msg.Operation
		m.app.Logger.Info("document changed", "operation", msg.Operation)
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	m.current = next.(view.View)

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "u":
		return m, m.undoCmd()
	}

	for _, item := range menu {
		if msg.String() != item.key {
			continue
		}

		m.current = item.open(m.app)
		m.status = ""

		if m.width == 0 {
			return m, m.current.Init()
		}

		size := tea.WindowSizeMsg{Width: m.width, Height: m.height}

		return m, tea.Batch(m.current.Init(), func() tea.Msg { return size })
	}

	return m, nil
}

type undoneMsg struct {
	op  string
	err error
}

func (m model) undoCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := view.StoreCtx()
		defer cancel()

		op, err := m.app.Tracker.Undo(ctx)

		return undoneMsg{op: op, err: err}
	}
}

func (m model) View() string {
	if m.current != nil {
		return m.current.View()
	}

	out := titleStyle.Render(m.app.Config.App.Name) + "\n\n"
	for _, item := range menu {
		out += fmt.Sprintf("%s. %s\n", item.key, item.label)
	}

	out += "\nu. Undo"
	if history := m.app.Tracker.History(); len(history) > 0 {
		out += " (" + history[len(history)-1] + ")"
	}

	out += "\nq. Quit"

	if m.status != "" {
		out += "\n\n" + statusStyle.Render(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render(out)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to bubbletea, so logs go to a file.
	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		slog.Error("failed to create data dir", "error", err)
		os.Exit(1)
	}

	f, err := os.OpenFile(filepath.Join(cfg.Storage.DataDir, logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	logger := app.NewLogger(f, cfg)

	a, err := app.Open(context.Background(), cfg, logger)
	if err != nil {
		slog.Error("failed to open budget", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(model{app: a}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("failed to run TUI", "error", err)
		fmt.Fprintln(os.Stderr, err)
	}
}
