// Package finance serves debts, debt payments, investments, bonus income and
// income entries.
package finance

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/toby-sam/budget/internal/aggregate"
	"github.com/toby-sam/budget/internal/http/respond"
	"github.com/toby-sam/budget/internal/tracker"
)

type Handler struct {
	svc *tracker.Service
}

func NewHandler(svc *tracker.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/debts", func(r chi.Router) {
		r.Get("/", h.listDebts)
		r.Post("/", h.createDebt)
		r.Patch("/{id}", h.updateDebt)
		r.Delete("/{id}", h.deleteDebt)
		r.Post("/{id}/payments", h.createPayment)
	})
	r.Delete("/payments/{id}", h.deletePayment)

	r.Route("/investments", func(r chi.Router) {
		r.Get("/", h.listInvestments)
		r.Post("/", h.createInvestment)
		r.Patch("/{id}", h.updateInvestment)
		r.Delete("/{id}", h.deleteInvestment)
	})

	r.Route("/bonus", func(r chi.Router) {
		r.Get("/", h.listBonus)
		r.Post("/", h.createBonus)
		r.Delete("/{id}", h.deleteBonus)
	})

	r.Route("/incomes", func(r chi.Router) {
		r.Get("/", h.listIncomes)
		r.Post("/", h.createIncome)
		r.Delete("/{id}", h.deleteIncome)
	})
}

type debtRequest struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

func (h *Handler) listDebts(w http.ResponseWriter, _ *http.Request) {
	doc := h.svc.Document()
	respond.JSON(w, http.StatusOK, aggregate.DebtReport(doc.Debts, doc.DebtPayments))
}

func (h *Handler) createDebt(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	d, err := h.svc.AddDebt(r.Context(), tracker.DebtParams{Name: req.Name, Total: req.Total})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, d)
}

func (h *Handler) updateDebt(w http.ResponseWriter, r *http.Request) {
	var req debtRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	d, err := h.svc.EditDebt(r.Context(), chi.URLParam(r, "id"), tracker.DebtParams{Name: req.Name, Total: req.Total})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, d)
}

func (h *Handler) deleteDebt(w http.ResponseWriter, r *http.Request) {
	h.noContent(w, r, h.svc.DeleteDebt(r.Context(), chi.URLParam(r, "id")))
}

type paymentRequest struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.AddDebtPayment(r.Context(), chi.URLParam(r, "id"), tracker.PaymentParams{
		Date:        req.Date,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, p)
}

func (h *Handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	h.noContent(w, r, h.svc.DeleteDebtPayment(r.Context(), chi.URLParam(r, "id")))
}

type investmentRequest struct {
	Date        string  `json:"date"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
}

func (req investmentRequest) params() tracker.InvestmentParams {
	return tracker.InvestmentParams{Date: req.Date, Name: req.Name, Description: req.Description, Value: req.Value}
}

func (h *Handler) listInvestments(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Document().Investments)
}

func (h *Handler) createInvestment(w http.ResponseWriter, r *http.Request) {
	var req investmentRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	inv, err := h.svc.AddInvestment(r.Context(), req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, inv)
}

func (h *Handler) updateInvestment(w http.ResponseWriter, r *http.Request) {
	var req investmentRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	inv, err := h.svc.EditInvestment(r.Context(), chi.URLParam(r, "id"), req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, inv)
}

func (h *Handler) deleteInvestment(w http.ResponseWriter, r *http.Request) {
	h.noContent(w, r, h.svc.DeleteInvestment(r.Context(), chi.URLParam(r, "id")))
}

type bonusRequest struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

func (h *Handler) listBonus(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Document().BonusIncome)
}

func (h *Handler) createBonus(w http.ResponseWriter, r *http.Request) {
	var req bonusRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	b, err := h.svc.AddBonus(r.Context(), tracker.BonusParams{Date: req.Date, Description: req.Description, Amount: req.Amount})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, b)
}

func (h *Handler) deleteBonus(w http.ResponseWriter, r *http.Request) {
	h.noContent(w, r, h.svc.DeleteBonus(r.Context(), chi.URLParam(r, "id")))
}

type incomeRequest struct {
	Date   string  `json:"date"`
	Source string  `json:"source"`
	Amount float64 `json:"amount"`
}

func (h *Handler) listIncomes(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Document().Incomes)
}

func (h *Handler) createIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	in, err := h.svc.AddIncome(r.Context(), tracker.IncomeParams{Date: req.Date, Source: req.Source, Amount: req.Amount})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, in)
}

func (h *Handler) deleteIncome(w http.ResponseWriter, r *http.Request) {
	h.noContent(w, r, h.svc.DeleteIncome(r.Context(), chi.URLParam(r, "id")))
}

func (h *Handler) noContent(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
