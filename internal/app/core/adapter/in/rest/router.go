package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter 組合所有路由與 middleware
//
// 路由:
//
//	POST /accounts
//	GET  /accounts/{account_number}
//	POST /accounts/{account_number}/deposits
//	POST /accounts/{account_number}/withdraws
//	GET  /health
//	GET  /metrics
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(Observe(logger))
	r.Use(middleware.Recoverer)

	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.CreateAccount)
		r.Route("/{account_number}", func(r chi.Router) {
			r.Get("/", h.GetAccount)
			r.Post("/deposits", h.Deposit)
			r.Post("/withdraws", h.Withdraw)
		})
	})
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
