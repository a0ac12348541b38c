package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toby-sam/budget/internal/app"
	"github.com/toby-sam/budget/internal/budget"
	"github.com/toby-sam/budget/internal/config"
	"github.com/toby-sam/budget/internal/tracker"
)

type harness struct {
	env *Env
	out *bytes.Buffer
	err *bytes.Buffer
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err)

	dir := t.TempDir()
	cfg.Storage.Driver = config.StorageFile
	cfg.Storage.DataDir = filepath.Join(dir, "data")
	cfg.Budget.CloseMonthClear = true

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &harness{out: &bytes.Buffer{}, err: &bytes.Buffer{}, dir: dir}
	h.env = &Env{
		Out: h.out,
		Err: h.err,
		Open: func(ctx context.Context) (*app.App, error) {
			return app.Open(ctx, cfg, logger)
		},
	}

	return h
}

// exec runs the named command with args and returns its exit status.
func (h *harness) exec(t *testing.T, name string, args ...string) subcommands.ExitStatus {
	t.Helper()

	h.out.Reset()
	h.err.Reset()

	for _, c := range Commands(h.env) {
		if c.Name() != name {
			continue
		}

		f := flag.NewFlagSet(name, flag.ContinueOnError)
		c.SetFlags(f)
		require.NoError(t, f.Parse(args))

		return c.Execute(t.Context(), f)
	}

	t.Fatalf("no command %q", name)

	return subcommands.ExitFailure
}

// with opens the app, runs fn and closes it again so the next command sees
// what fn saved.
func (h *harness) with(t *testing.T, fn func(a *app.App)) {
	t.Helper()

	a, err := h.env.Open(t.Context())
	require.NoError(t, err)

	fn(a)
	require.NoError(t, a.Close())
}

func TestQuery(t *testing.T) {
	doc := budget.Defaults()
	doc.Categories = []budget.Category{{Name: "Rent"}, {Name: "Fuel"}}
	doc.Ledger = []budget.LedgerEntry{
		{ID: "1", Category: "Rent", Amount: -2000},
		{ID: "2", Category: "Fuel", Amount: -60},
	}

	tests := []struct {
		name  string
		path  string
		first bool
		want  any
	}{
		{name: "Wildcard", path: "$.categories[*].name", want: []any{"Rent", "Fuel"}},
		{name: "Scalar", path: "$.phpAudRate", want: budget.DefaultPhpAudRate},
		{name: "FilterUnwrapped", path: "$.ledger[?(@.category == \"Rent\")].id", first: true, want: "1"},
		{name: "FilterKeptAsList", path: "$.ledger[?(@.category == \"Rent\")].id", want: []any{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Query(doc, tt.path, tt.first)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Query(doc, "$.[", false)
	assert.Error(t, err)
}

func TestRateCmd(t *testing.T) {
	h := newHarness(t)

	h.with(t, func(a *app.App) {
		amount := -1000.0
		_, err := a.Tracker.AddPhilippinesEntry(t.Context(), tracker.PhilippinesParams{Date: "2025-03-01", Reason: "Market", AmountPHP: &amount})
		require.NoError(t, err)
	})

	require.Equal(t, subcommands.ExitSuccess, h.exec(t, "rate", "0.03"), h.err.String())
	assert.Contains(t, h.out.String(), "1 Philippines rows re-priced")

	require.Equal(t, subcommands.ExitSuccess, h.exec(t, "rate"))
	assert.Equal(t, "1 PHP = 0.0300 AUD\n", h.out.String())

	h.with(t, func(a *app.App) {
		assert.Equal(t, -30.0, float64(a.Tracker.Document().Philippines[0].AmountAud))
	})

	assert.Equal(t, subcommands.ExitUsageError, h.exec(t, "rate", "cheap"))
	assert.Equal(t, subcommands.ExitFailure, h.exec(t, "rate", "0"))
}

func TestImportCmd(t *testing.T) {
	h := newHarness(t)

	path := filepath.Join(h.dir, "au.csv")
	csv := "Date,Description,Category,Amount\n03/11/2025,Coles,Groceries,$-84.20\n04/11/2025,Salary,Income,$5000\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	require.Equal(t, subcommands.ExitSuccess, h.exec(t, "import", "-format", "au", "-preview", path), h.err.String())
	assert.Contains(t, h.out.String(), "2 rows parsed, nothing saved")

	h.with(t, func(a *app.App) { assert.Empty(t, a.Tracker.Document().Ledger) })

	require.Equal(t, subcommands.ExitSuccess, h.exec(t, "import", "-format", "au", path), h.err.String())
	assert.Equal(t, "imported 2 au rows\n", h.out.String())

	h.with(t, func(a *app.App) { assert.Len(t, a.Tracker.Document().Ledger, 2) })

	assert.Equal(t, subcommands.ExitUsageError, h.exec(t, "import", "-format", "bank", path))
	assert.Equal(t, subcommands.ExitUsageError, h.exec(t, "import"))
}

func TestBackupAndRestore(t *testing.T) {
	h := newHarness(t)

	h.with(t, func(a *app.App) {
		_, err := a.Tracker.AddCategory(t.Context(), tracker.ScopeAU, tracker.CategoryParams{Name: "Rent"})
		require.NoError(t, err)
	})

	backupPath := filepath.Join(h.dir, "march.json")
	require.Equal(t, subcommands.ExitSuccess, h.exec(t, "backup", "-out", backupPath), h.err.String())

	h.with(t, func(a *app.App) {
		require.NoError(t, a.Tracker.DeleteCategory(t.Context(), tracker.ScopeAU, "Rent"))
	})

	require.Equal(t, subcommands.ExitSuccess, h.exec(t, "restore", backupPath), h.err.String())

	h.with(t, func(a *app.App) {
		require.Len(t, a.Tracker.Document().Categories, 1)
		assert.Equal(t, "Rent", a.Tracker.Document().Categories[0].Name)
	})

	require.Equal(t, subcommands.ExitSuccess, h.exec(t, "backup", "-out", "-", "-section", "categories"))

	var section map[string][]map[string]any
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &section))
	assert.Len(t, section["categories"], 1)

	assert.Equal(t, subcommands.ExitUsageError, h.exec(t, "restore", "-mode", "section", backupPath))
	assert.Equal(t, subcommands.ExitUsageError, h.exec(t, "restore", "-mode", "merge", backupPath))
}

func TestRestoreCmd_InvalidBackupChangesNothing(t *testing.T) {
	h := newHarness(t)

	h.with(t, func(a *app.App) {
		_, err := a.Tracker.AddCategory(t.Context(), tracker.ScopeAU, tracker.CategoryParams{Name: "Rent"})
		require.NoError(t, err)
	})

	bad := filepath.Join(h.dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))

	assert.Equal(t, subcommands.ExitFailure, h.exec(t, "restore", bad))
	assert.Contains(t, h.err.String(), "invalid backup file")

	h.with(t, func(a *app.App) { assert.Len(t, a.Tracker.Document().Categories, 1) })
}

func TestCloseMonthCmd(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantCleared bool
	}{
		{name: "DefaultFromConfig", wantCleared: true},
		{name: "KeepLedgers", args: []string{"-clear", "false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			h.with(t, func(a *app.App) {
				_, err := a.Tracker.AddLedgerEntry(t.Context(), tracker.LedgerParams{Date: "2025-03-01", Description: "Coles", Amount: -10})
				require.NoError(t, err)
			})

			out := filepath.Join(h.dir, "closed.json")
			args := append([]string{"-out", out}, tt.args...)
			require.Equal(t, subcommands.ExitSuccess, h.exec(t, "close-month", args...), h.err.String())

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Contains(t, string(data), "Coles")

			h.with(t, func(a *app.App) {
				if tt.wantCleared {
					assert.Empty(t, a.Tracker.Document().Ledger)
				} else {
					assert.Len(t, a.Tracker.Document().Ledger, 1)
				}
			})
		})
	}
}

func TestSummaryCmd(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, subcommands.ExitSuccess, h.exec(t, "summary", "-format", "json"), h.err.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
	assert.Equal(t, budget.DefaultPhpAudRate, got["phpAudRate"])

	require.Equal(t, subcommands.ExitSuccess, h.exec(t, "summary", "-format", "markdown"))
	assert.NotEmpty(t, h.out.String())

	assert.Equal(t, subcommands.ExitUsageError, h.exec(t, "summary", "-format", "pdf"))
}

func TestExportCmd(t *testing.T) {
	h := newHarness(t)

	h.with(t, func(a *app.App) {
		_, err := a.Tracker.AddLedgerEntry(t.Context(), tracker.LedgerParams{Date: "2025-03-01", Description: "Coles", Amount: -10})
		require.NoError(t, err)
	})

	out := filepath.Join(h.dir, "exports")
	require.Equal(t, subcommands.ExitSuccess, h.exec(t, "export", "-format", "xlsx", "-out", out), h.err.String())

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.Equal(t, subcommands.ExitUsageError, h.exec(t, "export", "-format", "pdf"))
}
