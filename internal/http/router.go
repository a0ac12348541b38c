package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/toby-sam/budget/internal/http/backup"
	"github.com/toby-sam/budget/internal/http/category"
	"github.com/toby-sam/budget/internal/http/document"
	"github.com/toby-sam/budget/internal/http/export"
	"github.com/toby-sam/budget/internal/http/finance"
	"github.com/toby-sam/budget/internal/http/importcsv"
	"github.com/toby-sam/budget/internal/http/ledger"
)

// New builds the API router. allowedOrigins are the browser origins allowed
// to call the API, e.g. the static budget pages served from localhost.
func New(
	allowedOrigins []string,
	documentV1 *document.Handler,
	ledgerV1 *ledger.Handler,
	categoryV1 *category.Handler,
	financeV1 *finance.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
	backupV1 *backup.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))

			documentV1.Routes(r)
			r.Route("/ledgers/{scope}", ledgerV1.Routes)
			r.Route("/categories/{scope}", categoryV1.Routes)
			r.Route("/ph-tags", categoryV1.TagRoutes)
			financeV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)
		r.Route("/export", exportV1.Routes)
		backupV1.Routes(r)
	})

	return router
}
