// Package worknow предоставляет маршруты для основного приложения.
package worknow

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/worknowjob/worknow-api/internal/http/handlers/health"
	jobboost "github.com/worknowjob/worknow-api/internal/http/handlers/job/boost"
	jobcreate "github.com/worknowjob/worknow-api/internal/http/handlers/job/create"
	jobjsonld "github.com/worknowjob/worknow-api/internal/http/handlers/job/jsonld"
	joblist "github.com/worknowjob/worknow-api/internal/http/handlers/job/list"
	jobread "github.com/worknowjob/worknow-api/internal/http/handlers/job/read"
	jobremove "github.com/worknowjob/worknow-api/internal/http/handlers/job/remove"
	jobupdate "github.com/worknowjob/worknow-api/internal/http/handlers/job/update"
	messagelist "github.com/worknowjob/worknow-api/internal/http/handlers/message/list"
	"github.com/worknowjob/worknow-api/internal/http/handlers/payment/historyadd"
	"github.com/worknowjob/worknow-api/internal/http/handlers/payment/historylist"
	"github.com/worknowjob/worknow-api/internal/http/handlers/payment/stripehistory"
	"github.com/worknowjob/worknow-api/internal/http/handlers/premium/activate"
	"github.com/worknowjob/worknow-api/internal/http/handlers/premium/cancelrenewal"
	"github.com/worknowjob/worknow-api/internal/http/handlers/premium/checkout"
	"github.com/worknowjob/worknow-api/internal/http/handlers/premium/renewrenewal"
	userprofile "github.com/worknowjob/worknow-api/internal/http/handlers/user/profile"
	"github.com/worknowjob/worknow-api/internal/http/middlewarectx"
	jobservice "github.com/worknowjob/worknow-api/internal/services/job"
	paymentservice "github.com/worknowjob/worknow-api/internal/services/payment"
	premiumservice "github.com/worknowjob/worknow-api/internal/services/premium"
	profileservice "github.com/worknowjob/worknow-api/internal/services/profile"
	"github.com/worknowjob/worknow-api/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	verifier middlewarectx.TokenVerifier,
	premiumService *premiumservice.Service, jobService *jobservice.Service,
	paymentService *paymentservice.Service, profileService *profileservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger, db.DB).ServeHTTP)
		r.Get("/jobs/{id}", jobread.New(logger, jobService).ServeHTTP)
		r.Get("/jobs/{id}/jsonld", jobjsonld.New(logger, jobService).ServeHTTP)
		r.Get("/users/{clerk_user_id}/jobs", joblist.New(logger, jobService).ServeHTTP)

		// Профиль доступен всем, но владелец видит расширенные данные
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalAuthMiddleware(verifier, logger))
			r.Get("/users/{clerk_user_id}", userprofile.New(logger, profileService).ServeHTTP)
		})

		// Платёжные конечные точки: session_id служит доказательством оплаты,
		// поэтому активация не требует session-токена
		r.Post("/premium/checkout", checkout.New(logger, premiumService).ServeHTTP)
		r.Post("/premium/activate", activate.New(logger, premiumService).ServeHTTP)
		r.Post("/premium/auto-renewal/cancel", cancelrenewal.New(logger, premiumService).ServeHTTP)
		r.Post("/premium/auto-renewal/renew", renewrenewal.New(logger, premiumService).ServeHTTP)
		r.Post("/payments", historyadd.New(logger, paymentService).ServeHTTP)
		r.Get("/payments", historylist.New(logger, paymentService).ServeHTTP)
		r.Get("/payments/stripe", stripehistory.New(logger, paymentService).ServeHTTP)

		// Группа с аутентификацией по session-токену
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(verifier, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/jobs", jobcreate.New(logger, jobService).ServeHTTP)
			r.Put("/jobs/{id}", jobupdate.New(logger, jobService).ServeHTTP)
			r.Delete("/jobs/{id}", jobremove.New(logger, jobService).ServeHTTP)
			r.Post("/jobs/{id}/boost", jobboost.New(logger, jobService).ServeHTTP)
			r.Get("/messages", messagelist.New(logger, profileService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
