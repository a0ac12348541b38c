package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

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

// Routes mounts under /categories/{scope}.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Patch("/{name}", h.update)
	r.Delete("/{name}", h.delete)
}

// TagRoutes mounts under /ph-tags.
func (h *Handler) TagRoutes(r chi.Router) {
	r.Get("/", h.listTags)
	r.Post("/", h.createTag)
	r.Delete("/{tag}", h.deleteTag)
}

type categoryRequest struct {
	Name          string      `json:"name"`
	BudgetMonthly *float64    `json:"budgetMonthly"`
	Kind          budget.Kind `json:"kind"`
}

func (req categoryRequest) params() tracker.CategoryParams {
	return tracker.CategoryParams{Name: req.Name, Budget: req.BudgetMonthly, Kind: req.Kind}
}

func scope(w http.ResponseWriter, r *http.Request) (tracker.Scope, bool) {
	sc, err := tracker.ParseScope(chi.URLParam(r, "scope"))
	if err != nil {
		respond.Error(w, r, err)
		return "", false
	}

	return sc, true
}

// list returns the categories of a scope with their actuals and variance.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}

	rep := report.Build(h.svc.Document())

	switch sc {
	case tracker.ScopeAU:
		respond.JSON(w, http.StatusOK, rep.Categories)
	case tracker.ScopePhilippines:
		respond.JSON(w, http.StatusOK, rep.PHCategories)
	case tracker.ScopeSam:
		respond.JSON(w, http.StatusOK, rep.SamCategories)
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.AddCategory(r.Context(), sc, req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, c)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.EditCategory(r.Context(), sc, chi.URLParam(r, "name"), req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	sc, ok := scope(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteCategory(r.Context(), sc, chi.URLParam(r, "name")); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type tagRequest struct {
	Tag string `json:"tag"`
}

func (h *Handler) listTags(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Document().PhCategories)
}

func (h *Handler) createTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.AddPhTag(r.Context(), req.Tag); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, h.svc.Document().PhCategories)
}

func (h *Handler) deleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeletePhTag(r.Context(), chi.URLParam(r, "tag")); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
