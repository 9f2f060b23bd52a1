package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/payhook/payments-backend/internal/api/handlers"
	"github.com/payhook/payments-backend/internal/api/httpx"
	"github.com/payhook/payments-backend/internal/auth"
	"github.com/payhook/payments-backend/internal/config"
	"github.com/payhook/payments-backend/internal/metrics"
	"github.com/payhook/payments-backend/internal/middleware"
	"github.com/payhook/payments-backend/internal/services"
)

type RouterDeps struct {
	Cfg        config.Config
	TM         *auth.TokenManager
	UserSvc    *services.UserService
	AccountSvc *services.AccountService
	PaymentSvc *services.PaymentService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Handle("/metrics", metrics.Handler())

	authMW := middleware.NewAuthMiddleware(d.TM, d.UserSvc)
	authH := handlers.NewAuthHandler(d.UserSvc, d.TM)
	usersH := handlers.NewUsersHandler(d.UserSvc)
	accountsH := handlers.NewAccountsHandler(d.AccountSvc)
	paymentsH := handlers.NewPaymentsHandler(d.PaymentSvc)

	r.Route(d.Cfg.APIPrefix, func(r chi.Router) {
		r.Post("/auth/token", authH.Token)

		// Webhook authenticates by signature, not bearer token.
		r.Post("/payments/webhook", paymentsH.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Auth)

			r.Get("/users/me", usersH.Me)
			r.Get("/accounts/me", accountsH.Me)
			r.Get("/payments/my", paymentsH.My)

			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireAdmin)

				r.Get("/users", usersH.List)
				r.Post("/users", usersH.Create)
				r.Put("/users/{id}", usersH.Update)
				r.Delete("/users/{id}", usersH.Delete)
			})
		})
	})

	return r
}
