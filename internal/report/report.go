// Package report renders the budget dashboard as markdown, for the terminal
// through glamour and for browsers through goldmark.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/toby-sam/budget/internal/aggregate"
	"github.com/toby-sam/budget/internal/budget"
	"github.com/toby-sam/budget/internal/money"
)

// Report is everything the dashboard shows.
type Report struct {
	Summary       aggregate.Summary
	Categories    []aggregate.CategoryLine
	PHCategories  []aggregate.CategoryLine
	SamCategories []aggregate.CategoryLine
	Debts         []aggregate.DebtLine
}

// Build derives a report from the document. Philippines category lines are in
// PHP, everything else in AUD.
func Build(doc budget.Document) Report {
	classes := doc.Classes()

	return Report{
		Summary: aggregate.Summarize(doc),
		Categories: aggregate.CategoryReport(doc.Categories,
			aggregate.ActualsByCategory(aggregate.LedgerRows(doc.Ledger), nil), classes),
		PHCategories: aggregate.CategoryReport(doc.PhBudgetCategories,
			aggregate.ActualsByCategory(aggregate.PhilippinesPHPRows(doc.Philippines), nil), classes),
		SamCategories: aggregate.CategoryReport(doc.SamBudgetCategories,
			aggregate.ActualsByCategory(aggregate.SamRows(doc.SamLedger), nil), classes),
		Debts: aggregate.DebtReport(doc.Debts, doc.DebtPayments),
	}
}

// Markdown renders the report as GitHub-flavoured markdown.
func (r Report) Markdown() string {
	var b strings.Builder

	s := r.Summary
	aud := money.FormatAUD

	b.WriteString("# Budget summary\n\n")
	b.WriteString("| | AUD |\n|---|---:|\n")

	for _, row := range []struct {
		label string
		value float64
	}{
		{"Monthly income", s.Income},
		{"AU spend", s.AUCost},
		{"Philippines spend", s.PHCost},
		{"Sam spend", s.SamCost},
		{"Total spend", s.TotalSpend},
		{"Combined budget", s.CombinedBudget},
		{"Predicted total", s.GrandPredictedTotal},
		{"Predicted result", s.PredictedResult},
		{"Left after savings", s.RemainingAfterSavings},
		{"Running total", s.RunningTotal},
		{"Bonus income", s.BonusTotal},
		{"Investments", s.InvestmentsTotal},
		{"Debts remaining", s.DebtsRemaining},
	} {
		fmt.Fprintf(&b, "| %s | %s |\n", row.label, aud(row.value))
	}

	fmt.Fprintf(&b, "\nRate: %s\n", money.Rate(s.Rate))

	writeCategories(&b, "AU categories", r.Categories, money.FormatAUD)
	writeCategories(&b, "Philippines categories", r.PHCategories, money.FormatPHP)
	writeCategories(&b, "Sam categories", r.SamCategories, money.FormatAUD)

	ph := s.Philippines
	b.WriteString("\n## Philippines\n\n")
	fmt.Fprintf(&b, "- Transfers: %s\n", aud(ph.Transfers))
	fmt.Fprintf(&b, "- Income: %s\n", aud(ph.Income))
	fmt.Fprintf(&b, "- Expenses: %s\n", aud(ph.Expenses))
	fmt.Fprintf(&b, "- Net: %s\n", aud(ph.NetResult))
	fmt.Fprintf(&b, "- Remaining: %s\n", aud(ph.Remaining))

	if len(r.Debts) > 0 {
		b.WriteString("\n## Debts\n\n| Debt | Total | Paid | Remaining |\n|---|---:|---:|---:|\n")

		for _, d := range r.Debts {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cell(d.Name), aud(d.Total), aud(d.Paid), aud(d.Remaining))
		}
	}

	return b.String()
}

func writeCategories(b *strings.Builder, title string, lines []aggregate.CategoryLine, format func(float64) string) {
	if len(lines) == 0 {
		return
	}

	fmt.Fprintf(b, "\n## %s\n\n| Category | Budget | Actual | Diff | Status |\n|---|---:|---:|---:|---|\n", title)

	for _, l := range lines {
		budgetText := "-"
		if l.Budget != nil {
			budgetText = format(*l.Budget)
		}

		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			cell(l.Name), budgetText, format(l.Actual), format(l.Diff), l.Status)
	}
}

// cell escapes pipes so a category name cannot break the table.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// Terminal renders markdown for a terminal of the given width. style is a
// glamour standard style name such as "dark" or "notty"; empty picks one
// from the terminal background.
func Terminal(md string, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return out, nil
}

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders markdown to an HTML fragment.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}

	return buf.String(), nil
}
