package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/toby-sam/budget/internal/importer"
	"github.com/toby-sam/budget/internal/tracker"
)

const importTimeout = 2 * time.Minute

// previewRows is how many parsed rows the preview shows.
const previewRows = 8

type importState int

const (
	importStateFormatSelect importState = iota
	importStateFilePick
	importStateImporting
	importStatePreview
	importStateResult
)

type ImportModel struct {
	CommonModel
	trackerService *tracker.Service
	importService  *importer.Service

	state          importState
	filePicker     filepicker.Model
	selectedFormat importer.Format
	formatOptions  []importer.Format
	formatCursor   int

	batch importer.Batch

	status string
	err    error
}

func NewImportModel(trackerSvc *tracker.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".CSV"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		trackerService: trackerSvc,
		importService:  impSvc,
		filePicker:     fp,
		formatOptions:  []importer.Format{importer.FormatPhilippines, importer.FormatAU, importer.FormatSam},
	}
}

func (m ImportModel) Title() string { return "Import CSV" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: import | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func formatLabel(f importer.Format) string {
	switch f {
	case importer.FormatPhilippines:
		return "Philippines bank statement"
	case importer.FormatAU:
		return "AU ledger export"
	case importer.FormatSam:
		return "Sam business ledger"
	}

	return string(f)
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateFormatSelect {
			return m.updateFormatSelect(msg)
		}

		if m.state == importStatePreview {
			if msg.Type == tea.KeyEnter {
				m.state = importStateImporting
				m.status = fmt.Sprintf("Importing %d rows...", m.batch.Len())

				return m, m.confirmCmd()
			}

			return m, nil
		}

	case parseResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err

			return m, nil
		}

		m.batch = msg.batch
		m.state = importStatePreview

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d rows into the %s ledger.", msg.count, m.selectedFormat)

		return m, func() tea.Msg { return ChangedMsg{Operation: fmt.Sprintf("import %s csv", m.selectedFormat)} }
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateFormatSelect
		return m, nil
	case importStateResult, importStatePreview:
		m.state = importStateFormatSelect
		m.batch = importer.Batch{}
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateFormatSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case tea.KeyDown:
		if m.formatCursor < len(m.formatOptions)-1 {
			m.formatCursor++
		}
	case tea.KeyEnter:
		m.selectedFormat = m.formatOptions[m.formatCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFormatSelect:
		return m.viewFormatSelect()
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return m.viewPreview()
	case importStateResult:
		return resultView(m.status, m.err)
	}

	return ""
}

func (m ImportModel) viewFormatSelect() string {
	s := "Select file type:\n\n"

	for i, f := range m.formatOptions {
		cursor := " "
		if i == m.formatCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, formatLabel(f))
	}

	if m.formatOptions[m.formatCursor] == importer.FormatPhilippines {
		s += "\n" + faintStyle.Render("Columns: "+m.importService.Profile().String())
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewFilePick() string {
	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("Select file to import (%s):\n\n%s", formatLabel(m.selectedFormat), m.filePicker.View()),
	)
}

// previewLines renders the first parsed rows of a batch.
func previewLines(b importer.Batch, limit int) []string {
	var lines []string

	switch b.Format {
	case importer.FormatAU:
		for _, e := range b.Ledger {
			lines = append(lines, fmt.Sprintf("%-12s %12s  %s", e.Date, FormatAmount(float64(e.Amount)), e.Description))
		}
	case importer.FormatPhilippines:
		for _, e := range b.Philippines {
			lines = append(lines, fmt.Sprintf("%-12s %14s %12s  %s", e.Date, FormatPHP(float64(e.AmountPhp)), FormatAmount(e.AUD()), e.Reason))
		}
	case importer.FormatSam:
		for _, e := range b.Sam {
			lines = append(lines, fmt.Sprintf("%-12s %12s  %s", e.Date, FormatAmount(float64(e.AmountAud)), e.Reason))
		}
	}

	if len(lines) > limit {
		more := len(lines) - limit
		lines = append(lines[:limit], fmt.Sprintf("... and %d more", more))
	}

	return lines
}

func (m ImportModel) viewPreview() string {
	header := headerStyle.Render(fmt.Sprintf("%d rows detected (%s)", m.batch.Len(), formatLabel(m.batch.Format)))

	return lipgloss.NewStyle().Padding(2).Render(
		header + "\n\n" + strings.Join(previewLines(m.batch, previewRows), "\n") + "\n\n" + faintStyle.Render(m.ShortHelp()),
	)
}

// Messages

type parseResultMsg struct {
	batch importer.Batch
	err   error
}

type confirmResultMsg struct {
	count int
	err   error
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	format := m.selectedFormat
	rate := m.trackerService.Document().PhpAudRate

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parseResultMsg{err: err}
		}
		defer f.Close()

		batch, err := m.importService.Import(format, f, rate)

		return parseResultMsg{batch: batch, err: err}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	batch := m.batch

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		n, err := m.trackerService.ImportBatch(ctx, batch)

		return confirmResultMsg{count: n, err: err}
	}
}
