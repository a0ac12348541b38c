package view

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/toby-sam/budget/internal/backup"
	"github.com/toby-sam/budget/internal/budget"
	"github.com/toby-sam/budget/internal/tracker"
)

type backupAction string

const (
	actionBackup         backupAction = "backup"
	actionCloseMonth     backupAction = "close"
	actionRestoreFull    backupAction = "restore"
	actionRestoreSection backupAction = "section"
)

type backupForm struct {
	Action  backupAction
	Path    string
	Section string
	Clear   bool
}

// BackupModel saves, restores and closes the month from the terminal.
type BackupModel struct {
	CommonModel
	svc *tracker.Service

	form   *huh.Form
	values *backupForm

	done   bool
	status string
	err    error
}

func NewBackupModel(svc *tracker.Service, clearOnClose bool) BackupModel {
	m := BackupModel{
		svc:    svc,
		values: &backupForm{Action: actionBackup, Section: "ledger", Clear: clearOnClose},
	}
	m.form = m.buildForm()

	return m
}

func (m BackupModel) Title() string { return "Backup & Restore" }

func (m BackupModel) ShortHelp() string {
	if m.done {
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: next"
}

func (m *BackupModel) buildForm() *huh.Form {
	values := m.values
	sections := budget.ListFields()
	sectionOptions := make([]huh.Option[string], len(sections))

	for i, s := range sections {
		sectionOptions[i] = huh.NewOption(s, s)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[backupAction]().
				Key("action").
				Title("Action").
				Options(
					huh.NewOption("Save a full backup", actionBackup),
					huh.NewOption("Close the month", actionCloseMonth),
					huh.NewOption("Restore a full backup", actionRestoreFull),
					huh.NewOption("Restore one section", actionRestoreSection),
				).
				Value(&m.values.Action),
			huh.NewInput().
				Key("path").
				Title("File or directory").
				Description("Backups are saved into a directory; restores read a file").
				Placeholder(".").
				Value(&m.values.Path),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("section").
				Title("Section").
				Options(sectionOptions...).
				Value(&m.values.Section),
		).WithHideFunc(func() bool { return values.Action != actionRestoreSection }),
		huh.NewGroup(
			huh.NewConfirm().
				Key("clear").
				Title("Clear the AU and Philippines ledgers after the backup?").
				Value(&m.values.Clear),
		).WithHideFunc(func() bool { return values.Action != actionCloseMonth }),
	).WithWidth(60).WithShowHelp(false)
}

func (m BackupModel) Init() tea.Cmd {
	return m.form.Init()
}

type backupDoneMsg struct {
	status string
	op     string
	err    error
}

func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	if result, ok := msg.(backupDoneMsg); ok {
		m.done = true
		m.status, m.err = result.status, result.err

		if result.err != nil || result.op == "" {
			return m, nil
		}

		return m, func() tea.Msg { return ChangedMsg{Operation: result.op} }
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

	return m, m.runCmd()
}

func (m BackupModel) runCmd() tea.Cmd {
	var (
		action       = m.values.Action
		path         = strings.TrimSpace(m.values.Path)
		section      = m.values.Section
		clearLedgers = m.values.Clear
	)

	return func() tea.Msg {
		switch action {
		case actionBackup:
			return m.save(path)
		case actionCloseMonth:
			return m.closeMonth(path, clearLedgers)
		case actionRestoreFull:
			return m.restore(path, backup.Request{Mode: backup.ModeFullReplace})
		case actionRestoreSection:
			return m.restore(path, backup.Request{Mode: backup.ModeSectionMerge, Section: section})
		}

		return backupDoneMsg{err: fmt.Errorf("unknown action %q", action)}
	}
}

// backupPath resolves a directory (or blank) to a dated backup file inside it.
// A path ending in .json is used as is.
func backupPath(path string, now time.Time) string {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return path
	}

	if path == "" {
		path = "."
	}

	return filepath.Join(path, backup.Filename("", now))
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}

	return os.Create(path)
}

func (m BackupModel) save(path string) backupDoneMsg {
	target := backupPath(path, time.Now())

	f, err := createFile(target)
	if err != nil {
		return backupDoneMsg{err: err}
	}
	defer f.Close()

	if err := backup.Write(f, m.svc.Document()); err != nil {
		return backupDoneMsg{err: err}
	}

	return backupDoneMsg{status: "Backup saved to " + target}
}

func (m BackupModel) closeMonth(path string, clearLedgers bool) backupDoneMsg {
	target := backupPath(path, time.Now())

	f, err := createFile(target)
	if err != nil {
		return backupDoneMsg{err: err}
	}
	defer f.Close()

	ctx, cancel := StoreCtx()
	defer cancel()

	if err := m.svc.CloseMonth(ctx, f, clearLedgers); err != nil {
		return backupDoneMsg{err: err}
	}

	if !clearLedgers {
		return backupDoneMsg{status: "Backup saved to " + target + ", ledgers kept"}
	}

	return backupDoneMsg{status: "Backup saved to " + target + ", ledgers cleared", op: "close month"}
}

func (m BackupModel) restore(path string, req backup.Request) backupDoneMsg {
	data, err := os.ReadFile(path)
	if err != nil {
		return backupDoneMsg{err: fmt.Errorf("reading backup: %w", err)}
	}

	ctx, cancel := StoreCtx()
	defer cancel()

	if err := m.svc.Restore(ctx, data, req); err != nil {
		return backupDoneMsg{err: err}
	}

	status := "Restored " + filepath.Base(path)
	if req.Mode == backup.ModeSectionMerge {
		status = fmt.Sprintf("Restored %s from %s", req.Section, filepath.Base(path))
	}

	return backupDoneMsg{status: status, op: "restore backup"}
}

func (m BackupModel) View() string {
	if m.done {
		return resultView(m.status, m.err)
	}

	return paddedStyle.Render(headerStyle.Render("Backup & Restore") + "\n\n" + m.form.View())
}
