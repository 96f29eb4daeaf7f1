// Package jornaldestaque предоставляет маршруты основного приложения.
package jornaldestaque

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/jornal-destaque/internal/files"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/createadmin"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/journalcreate"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/journalget"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/journallist"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/journalremove"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/journalupdate"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/requestapprove"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/requestlist"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/requestreject"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/subscriptioncreate"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/subscriptionlist"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/userget"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/userlist"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/userremove"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/admin/userupdate"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/auth/sessions"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/health"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/journal/list"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/journal/publiclist"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/journal/read"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/subscription/my"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/subscription/requestcreate"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/handlers/subscription/requestmy"
	"github.com/magabrotheeeer/jornal-destaque/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/jornal-destaque/internal/services/auth"
	journalservice "github.com/magabrotheeeer/jornal-destaque/internal/services/journal"
	subscriptionservice "github.com/magabrotheeeer/jornal-destaque/internal/services/subscription"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

// Services — зависимости маршрутов приложения.
type Services struct {
	Auth         *authservice.Service
	Journal      *journalservice.Service
	Subscription *subscriptionservice.Service
	Storage      *repository.Storage
	Files        *files.Store
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(rate.Limit(20), 40)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

		// Открытые конечные точки
		r.Post("/register", register.New(logger, deps.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, deps.Auth).ServeHTTP)
		r.Post("/admin/create-admin", createadmin.New(logger, deps.Auth).ServeHTTP)
		r.Get("/public/journals", publiclist.New(logger, deps.Journal, deps.Files).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(deps.Auth, logger))

			r.Post("/logout", logout.New(logger, deps.Auth).ServeHTTP)
			r.Get("/me", me.New(logger).ServeHTTP)
			r.Get("/sessions/my", sessions.New(logger, deps.Auth).ServeHTTP)

			r.Get("/journals", list.New(logger, deps.Journal, deps.Files).ServeHTTP)
			r.Get("/journals/{id}", read.New(logger, deps.Journal, deps.Files).ServeHTTP)

			r.Post("/subscriptions", create.New(logger, deps.Subscription).ServeHTTP)
			r.Get("/subscriptions/my", my.New(logger, deps.Subscription).ServeHTTP)
			r.Post("/subscriptions/requests", requestcreate.New(logger, deps.Subscription).ServeHTTP)
			r.Get("/subscriptions/requests/my", requestmy.New(logger, deps.Subscription).ServeHTTP)

			// Административная группа
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(logger))

				r.Post("/admin/journals", journalcreate.New(logger, deps.Journal, deps.Files).ServeHTTP)
				r.Get("/admin/journals", journallist.New(logger, deps.Journal, deps.Files).ServeHTTP)
				r.Get("/admin/journals/{id}", journalget.New(logger, deps.Journal, deps.Files).ServeHTTP)
				r.Put("/admin/journals/{id}", journalupdate.New(logger, deps.Journal, deps.Files).ServeHTTP)
				r.Delete("/admin/journals/{id}", journalremove.New(logger, deps.Journal, deps.Files).ServeHTTP)

				r.Get("/admin/users", userlist.New(logger, deps.Storage).ServeHTTP)
				r.Get("/admin/users/{id}", userget.New(logger, deps.Storage).ServeHTTP)
				r.Put("/admin/users/{id}", userupdate.New(logger, deps.Storage).ServeHTTP)
				r.Delete("/admin/users/{id}", userremove.New(logger, deps.Storage).ServeHTTP)

				r.Post("/admin/subscriptions", subscriptioncreate.New(logger, deps.Subscription).ServeHTTP)
				r.Get("/admin/subscriptions", subscriptionlist.New(logger, deps.Subscription).ServeHTTP)

				r.Get("/admin/subscriptions/requests", requestlist.New(logger, deps.Subscription).ServeHTTP)
				r.Post("/admin/subscriptions/requests/{id}/approve", requestapprove.New(logger, deps.Subscription).ServeHTTP)
				r.Post("/admin/subscriptions/requests/{id}/reject", requestreject.New(logger, deps.Subscription).ServeHTTP)
			})
		})
	})

	liveness := health.New(logger, deps.Storage)
	r.Get("/", liveness.ServeHTTP)
	r.Get("/health", liveness.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	// Обложки публичные, PDF только по токену.
	coverServer := http.StripPrefix("/files/covers/",
		http.FileServer(http.Dir(filepath.Join(deps.Files.Dir(), "covers"))))
	r.Get("/files/covers/*", coverServer.ServeHTTP)

	pdfServer := http.StripPrefix("/files/pdfs/",
		http.FileServer(http.Dir(filepath.Join(deps.Files.Dir(), "pdfs"))))
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(deps.Auth, logger))
		r.Get("/files/pdfs/*", pdfServer.ServeHTTP)
	})
}
