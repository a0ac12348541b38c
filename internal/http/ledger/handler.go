package ledger

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/toby-sam/budget/internal/http/respond"
	"github.com/toby-sam/budget/internal/tracker"
)

// Handler serves the three ledgers under /ledgers/{scope}.
type Handler struct {
	svc *tracker.Service
}

func NewHandler(svc *tracker.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/uncategorised", h.uncategorised)
	r.Patch("/{id}/category", h.categorize)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// entryRequest carries the fields of every ledger; each scope reads the ones
// it needs. The AU ledger uses description and amount, the others reason and
// amountAud, and the Philippines ledger may carry amountPhp instead.
type entryRequest struct {
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Reason      string   `json:"reason"`
	Category    string   `json:"category"`
	Amount      *float64 `json:"amount"`
	AmountPHP   *float64 `json:"amountPhp"`
	AmountAUD   *float64 `json:"amountAud"`
}

func (req entryRequest) ledgerParams() tracker.LedgerParams {
	return tracker.LedgerParams{
		Date:        req.Date,
		Description: req.Description,
		Category:    req.Category,
		Amount:      value(req.Amount),
	}
}

func (req entryRequest) philippinesParams() tracker.PhilippinesParams {
	return tracker.PhilippinesParams{
		Date:      req.Date,
		Reason:    req.Reason,
		Category:  req.Category,
		AmountPHP: req.AmountPHP,
		AmountAUD: req.AmountAUD,
	}
}

func (req entryRequest) samParams() tracker.SamParams {
	amount := req.AmountAUD
	if amount == nil {
		amount = req.Amount
	}

	return tracker.SamParams{
		Date:      req.Date,
		Reason:    req.Reason,
		Category:  req.Category,
		AmountAUD: value(amount),
	}
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}

func scope(w http.ResponseWriter, r *http.Request) (tracker.Scope, bool) {
	sc, err := tracker.ParseScope(chi.URLParam(r, "scope"))
	if err != nil {
		respond.Error(w, r, err)
		return "", false
	}

	return sc, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}

	doc := h.svc.Document()

	switch sc {
	case tracker.ScopeAU:
		respond.JSON(w, http.StatusOK, doc.Ledger)
	case tracker.ScopePhilippines:
		respond.JSON(w, http.StatusOK, doc.Philippines)
	case tracker.ScopeSam:
		respond.JSON(w, http.StatusOK, doc.SamLedger)
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}

	var req entryRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	var (
		entry any
		err   error
	)

	switch sc {
	case tracker.ScopeAU:
		entry, err = h.svc.AddLedgerEntry(r.Context(), req.ledgerParams())
	case tracker.ScopePhilippines:
		entry, err = h.svc.AddPhilippinesEntry(r.Context(), req.philippinesParams())
	case tracker.ScopeSam:
		entry, err = h.svc.AddSamEntry(r.Context(), req.samParams())
	}

	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, entry)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}

	var req entryRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")

	var (
		entry any
		err   error
	)

	switch sc {
	case tracker.ScopeAU:
		entry, err = h.svc.EditLedgerEntry(r.Context(), id, req.ledgerParams())
	case tracker.ScopePhilippines:
		entry, err = h.svc.EditPhilippinesEntry(r.Context(), id, req.philippinesParams())
	case tracker.ScopeSam:
		entry, err = h.svc.EditSamEntry(r.Context(), id, req.samParams())
	}

	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, entry)
}

type categorizeRequest struct {
	Category string `json:"category"`
}

func (h *Handler) categorize(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}

	var req categorizeRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Categorize(r.Context(), sc, chi.URLParam(r, "id"), req.Category); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteEntry(r.Context(), sc, chi.URLParam(r, "id")); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// uncategorised lists rows without a category along with a suggested one.
func (h *Handler) uncategorised(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}

	rows, err := h.svc.Uncategorised(sc)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, rows)
}
