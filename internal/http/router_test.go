package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toby-sam/budget/internal/budget"
	"github.com/toby-sam/budget/internal/export"
	api "github.com/toby-sam/budget/internal/http"
	"github.com/toby-sam/budget/internal/http/backup"
	"github.com/toby-sam/budget/internal/http/category"
	"github.com/toby-sam/budget/internal/http/document"
	exporthttp "github.com/toby-sam/budget/internal/http/export"
	"github.com/toby-sam/budget/internal/http/finance"
	"github.com/toby-sam/budget/internal/http/importcsv"
	"github.com/toby-sam/budget/internal/http/ledger"
	"github.com/toby-sam/budget/internal/importer"
	"github.com/toby-sam/budget/internal/importer/phbank"
	"github.com/toby-sam/budget/internal/store"
	"github.com/toby-sam/budget/internal/store/file"
	"github.com/toby-sam/budget/internal/tracker"
)

type testServer struct {
	handler http.Handler
	tracker *tracker.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	medium, err := file.New(t.TempDir())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(medium, store.WithLogger(logger))
	st.Load(t.Context())

	svc := tracker.NewService(st, tracker.WithLogger(logger))

	profile, err := phbank.ProfileByName(phbank.ProfileCurrent)
	require.NoError(t, err)

	handler := api.New(
		[]string{"http://localhost:*"},
		document.NewHandler(svc),
		ledger.NewHandler(svc),
		category.NewHandler(svc),
		finance.NewHandler(svc),
		importcsv.NewHandler(importer.NewService(profile), svc),
		exporthttp.NewHandler(export.NewService(svc)),
		backup.NewHandler(svc, true),
	)

	return &testServer{handler: handler, tracker: svc}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func TestLedgerRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/ledgers/au", `{"date":"2025-11-03","description":"Coles","category":"Groceries","amount":-84.2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	entry := decode[budget.LedgerEntry](t, rec)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, budget.Amount(-84.2), entry.Amount)

	rec = s.do(t, http.MethodGet, "/api/v1/ledgers/au/uncategorised", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 0)

	rec = s.do(t, http.MethodPatch, "/api/v1/ledgers/au/"+entry.ID+"/category", `{"category":"Food"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "Food", s.tracker.Document().Ledger[0].Category)

	rec = s.do(t, http.MethodGet, "/api/v1/ledgers/au", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]budget.LedgerEntry](t, rec), 1)

	rec = s.do(t, http.MethodDelete, "/api/v1/ledgers/au/"+entry.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/v1/ledgers/au/"+entry.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLedgerRoutes_Philippines(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/v1/settings/rate", `{"rate":0.02}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/ledgers/ph", `{"date":"2025-11-03","reason":"Rice","category":"Food","amountPhp":-1000}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, "category not in the philippines budget list")

	rec = s.do(t, http.MethodPost, "/api/v1/categories/ph", `{"name":"Food","budgetMonthly":300}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/ledgers/ph", `{"date":"2025-11-03","reason":"Rice","category":"Food","amountPhp":-1000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	entry := decode[budget.PhilippinesEntry](t, rec)
	assert.Equal(t, budget.Amount(-20), entry.AmountAud)

	rec = s.do(t, http.MethodPut, "/api/v1/settings/rate", `{"rate":0.03}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"phpAudRate":0.03,"recomputed":1}`, rec.Body.String())
	assert.Equal(t, budget.Amount(-30), s.tracker.Document().Philippines[0].AmountAud)
}

func TestLedgerRoutes_BadInput(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "UnknownScope", method: http.MethodGet, path: "/api/v1/ledgers/nz", want: http.StatusBadRequest},
		{name: "MissingDescription", method: http.MethodPost, path: "/api/v1/ledgers/au", body: `{"date":"2025-11-03","amount":1}`, want: http.StatusBadRequest},
		{name: "UnknownField", method: http.MethodPost, path: "/api/v1/ledgers/sam", body: `{"dte":"x"}`, want: http.StatusBadRequest},
		{name: "NoPhilippinesAmount", method: http.MethodPost, path: "/api/v1/ledgers/philippines", body: `{"date":"2025-11-03"}`, want: http.StatusBadRequest},
		{name: "MissingEntry", method: http.MethodPatch, path: "/api/v1/ledgers/sam/nope", body: `{"date":"2025-11-03","amountAud":1}`, want: http.StatusNotFound},
		{name: "ZeroRate", method: http.MethodPut, path: "/api/v1/settings/rate", body: `{"rate":0}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestCategoryRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/categories/au", `{"name":"Rent","budgetMonthly":2000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/categories/au", `{"name":"rent"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	s.do(t, http.MethodPost, "/api/v1/ledgers/au", `{"date":"2025-11-01","description":"Landlord","category":"Rent","amount":-1800}`)

	rec = s.do(t, http.MethodGet, "/api/v1/categories/au", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var lines []struct {
		Name   string  `json:"name"`
		Actual float64 `json:"actual"`
		Diff   float64 `json:"diff"`
		Status string  `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lines))
	require.Len(t, lines, 1)
	assert.Equal(t, 1800.0, lines[0].Actual)
	assert.Equal(t, 200.0, lines[0].Diff)

	rec = s.do(t, http.MethodPatch, "/api/v1/categories/au/Rent", `{"name":"Housing","budgetMonthly":2100}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/v1/categories/au/Housing", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/ph-tags", `{"tag":"Family"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `["Family"]`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/v1/ph-tags/Family", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestFinanceRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/debts", `{"name":"Car","total":1000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	debt := decode[budget.Debt](t, rec)

	for _, amount := range []string{"200", "150"} {
		rec = s.do(t, http.MethodPost, "/api/v1/debts/"+debt.ID+"/payments", `{"date":"2025-11-01","amount":`+amount+`}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/api/v1/debts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"`+debt.ID+`","name":"Car","total":1000,"paid":350,"remaining":650}]`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/debts/missing/payments", `{"date":"2025-11-01","amount":5}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/investments", `{"date":"2025-11-01","name":"ETF","value":1200}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/bonus", `{"date":"2025-11-01","description":"Xmas","amount":250}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/incomes", `{"date":"2025-11-01","source":"Salary","amount":5000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		BonusTotal       float64 `json:"bonusTotal"`
		InvestmentsTotal float64 `json:"investmentsTotal"`
		DebtsRemaining   float64 `json:"debtsRemaining"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 250.0, summary.BonusTotal)
	assert.Equal(t, 1200.0, summary.InvestmentsTotal)
	assert.Equal(t, 650.0, summary.DebtsRemaining)

	rec = s.do(t, http.MethodDelete, "/api/v1/debts/"+debt.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, s.tracker.Document().DebtPayments)
}

func TestDocumentRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/v1/document", `{"income":5000,"categories":{"bad":true},"customField":"kept"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	doc := s.tracker.Document()
	assert.Equal(t, 5000.0, doc.Income)
	assert.Empty(t, doc.Categories)
	assert.JSONEq(t, `"kept"`, string(doc.Extra["customField"]))

	rec = s.do(t, http.MethodPut, "/api/v1/document", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/settings", `{"auSavings":500,"housePct":15}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	doc = s.tracker.Document()
	assert.Equal(t, 500.0, doc.AUSavings)
	assert.Equal(t, 15.0, doc.HousePct)
	assert.Equal(t, float64(budget.DefaultSamalPct), doc.SamalPct)

	rec = s.do(t, http.MethodPut, "/api/v1/settings", `{"samalPct":120}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "replace document")

	rec = s.do(t, http.MethodPost, "/api/v1/undo", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(budget.DefaultHousePct), s.tracker.Document().HousePct)
	assert.Equal(t, 500.0, s.tracker.Document().AUSavings)
}

func TestUndo_NothingToUndo(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/undo", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReportRoute(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/categories/au", `{"name":"Rent","budgetMonthly":2000}`)

	rec := s.do(t, http.MethodGet, "/api/v1/report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<table>")

	rec = s.do(t, http.MethodGet, "/api/v1/report?format=markdown", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# Budget summary")
}

func multipartBody(t *testing.T, fields map[string]string, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	fw, err := mw.CreateFormFile("file", "statement.csv")
	require.NoError(t, err)

	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestImportRoute(t *testing.T) {
	s := newTestServer(t)

	csv := "Date,Description,Category,Amount\n03/11/2025,Coles,Groceries,$-84.20\n04/11/2025,Salary,Income,$5000\n"

	body, contentType := multipartBody(t, map[string]string{"format": "au", "preview": "true"}, csv)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, s.tracker.Document().Ledger)

	body, contentType = multipartBody(t, map[string]string{"format": "au"}, csv)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/import", body)
	req.Header.Set("Content-Type", contentType)

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, s.tracker.Document().Ledger, 2)

	body, contentType = multipartBody(t, map[string]string{"format": "au"}, "Date,Description,Category,Amount\n")
	req = httptest.NewRequest(http.MethodPost, "/api/v1/import", body)
	req.Header.Set("Content-Type", contentType)

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/export", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.do(t, http.MethodPost, "/api/v1/ledgers/au", `{"date":"2025-11-03","description":"Coles","category":"Groceries","amount":-84.2}`)

	rec = s.do(t, http.MethodGet, "/api/v1/export", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "ledger_export.csv")

	rec = s.do(t, http.MethodGet, "/api/v1/export/download?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))

	rec = s.do(t, http.MethodGet, "/api/v1/export/download?format=xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.Greater(t, rec.Body.Len(), 0)
}

func TestBackupRoutes(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodPost, "/api/v1/categories/philippines", `{"name":"Food","budgetMonthly":10000}`)
	s.do(t, http.MethodPost, "/api/v1/ledgers/au", `{"date":"2025-11-03","description":"Coles","amount":-84.2}`)

	rec := s.do(t, http.MethodGet, "/api/v1/backup?name=november", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "november.json")

	full := rec.Body.String()

	rec = s.do(t, http.MethodGet, "/api/v1/backup/phBudgetCategories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ph-budget-only-backup.json")

	section := rec.Body.String()

	rec = s.do(t, http.MethodGet, "/api/v1/backup/nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/close-month", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.tracker.Document().Ledger)
	assert.Len(t, s.tracker.Document().PhBudgetCategories, 1)

	rec = s.do(t, http.MethodPost, "/api/v1/restore", "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/restore", full)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, s.tracker.Document().Ledger, 1)

	s.do(t, http.MethodDelete, "/api/v1/categories/philippines/Food", "")
	require.Empty(t, s.tracker.Document().PhBudgetCategories)

	rec = s.do(t, http.MethodPost, "/api/v1/restore?mode=section&section=phBudgetCategories", section)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, s.tracker.Document().PhBudgetCategories, 1)
	assert.Len(t, s.tracker.Document().Ledger, 1)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/summary", nil)
	req.Header.Set("Origin", "http://localhost:5500")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5500", rec.Header().Get("Access-Control-Allow-Origin"))
}
