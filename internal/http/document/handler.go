package document

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/toby-sam/budget/internal/aggregate"
	"github.com/toby-sam/budget/internal/budget"
	"github.com/toby-sam/budget/internal/http/respond"
	"github.com/toby-sam/budget/internal/report"
	"github.com/toby-sam/budget/internal/tracker"
)

type Handler struct {
	svc *tracker.Service
}

func NewHandler(svc *tracker.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/document", h.get)
	r.Put("/document", h.replace)
	r.Get("/summary", h.summary)
	r.Get("/income", h.income)
	r.Get("/report", h.report)
	r.Put("/settings", h.settings)
	r.Put("/settings/rate", h.rate)
	r.Get("/history", h.history)
	r.Post("/undo", h.undo)
}

func (h *Handler) get(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Document())
}

// replace swaps in a whole document. The body goes through the same schema
// repair as a load, so partial documents get their missing lists back.
func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 10<<20))
	if err != nil {
		respond.BadRequest(w, r, "reading body: %s", err)
		return
	}

	doc, err := budget.Normalize(data)
	if err != nil {
		respond.BadRequest(w, r, "%s", err)
		return
	}

	if err := h.svc.Replace(r.Context(), doc); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.svc.Document())
}

func (h *Handler) summary(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, aggregate.Summarize(h.svc.Document()))
}

func (h *Handler) income(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, aggregate.IncomeReport(h.svc.Document()))
}

// report renders the summary as HTML, or as markdown with ?format=markdown.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	md := report.Build(h.svc.Document()).Markdown()

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = io.WriteString(w, md)

		return
	}

	html, err := report.HTML(md)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

type settingsRequest struct {
	Income       *float64 `json:"income"`
	AUSavings    *float64 `json:"auSavings"`
	SamalSavings *float64 `json:"samalSavings"`
	HousePct     *float64 `json:"housePct"`
	SamalPct     *float64 `json:"samalPct"`
}

// settings updates whichever scalar settings are present in the body.
func (h *Handler) settings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	ctx := r.Context()
	current := h.svc.Document()

	if req.Income != nil {
		if err := h.svc.SetIncome(ctx, *req.Income); err != nil {
			respond.Error(w, r, err)
			return
		}
	}

	if req.AUSavings != nil || req.SamalSavings != nil {
		au, samal := orDefault(req.AUSavings, current.AUSavings), orDefault(req.SamalSavings, current.SamalSavings)
		if err := h.svc.SetSavings(ctx, au, samal); err != nil {
			respond.Error(w, r, err)
			return
		}
	}

	if req.HousePct != nil || req.SamalPct != nil {
		house, samal := orDefault(req.HousePct, current.HousePct), orDefault(req.SamalPct, current.SamalPct)
		if err := h.svc.SetPercentages(ctx, house, samal); err != nil {
			respond.Error(w, r, err)
			return
		}
	}

	respond.JSON(w, http.StatusOK, h.svc.Document())
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}

	return *v
}

type rateRequest struct {
	Rate float64 `json:"rate"`
}

type rateResponse struct {
	Rate       float64 `json:"phpAudRate"`
	Recomputed int     `json:"recomputed"`
}

func (h *Handler) rate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	n, err := h.svc.SetRate(r.Context(), req.Rate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, rateResponse{Rate: req.Rate, Recomputed: n})
}

type historyResponse struct {
	Operations []string `json:"operations"`
}

func (h *Handler) history(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, historyResponse{Operations: h.svc.History()})
}

type undoResponse struct {
	Undone string `json:"undone"`
}

func (h *Handler) undo(w http.ResponseWriter, r *http.Request) {
	op, err := h.svc.Undo(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, undoResponse{Undone: op})
}
