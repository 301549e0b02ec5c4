// Package medx предоставляет маршруты основного приложения.
package medx

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medx-platform/medx-api/internal/http-server/handlers/admin/createcontent"
	"github.com/medx-platform/medx-api/internal/http-server/handlers/admin/deletecontent"
	"github.com/medx-platform/medx-api/internal/http-server/handlers/admin/deletefeedback"
	"github.com/medx-platform/medx-api/internal/http-server/handlers/admin/feedbackstatus"
	"github.com/medx-platform/medx-api/internal/http-server/handlers/admin/listfeedback"
	"github.com/medx-platform/medx-api/internal/http-server/handlers/admin/listusers"
	"github.com/medx-platform/medx-api/internal/http-server/handlers/admin/movetier"
	"github.com/medx-platform/medx-api/internal/http-server/handlers/admin/setpremium"
	"github.com/medx-platform/medx-api/internal/http-server/handlers/admin/setrole"
	accountupdate "github.com/medx-platform/medx-api/internal/http-server/handlers/account/update"
	helphandler "github.com/medx-platform/medx-api/internal/http-server/handlers/assistant/help"
	quizhandler "github.com/medx-platform/medx-api/internal/http-server/handlers/assistant/quiz"
	contentlist "github.com/medx-platform/medx-api/internal/http-server/handlers/content/list"
	contentopen "github.com/medx-platform/medx-api/internal/http-server/handlers/content/open"
	contentread "github.com/medx-platform/medx-api/internal/http-server/handlers/content/read"
	feedbacksubmit "github.com/medx-platform/medx-api/internal/http-server/handlers/feedback/submit"
	"github.com/medx-platform/medx-api/internal/http-server/handlers/login"
	"github.com/medx-platform/medx-api/internal/http-server/handlers/register"
	"github.com/medx-platform/medx-api/internal/http-server/handlers/resetpassword"
	"github.com/medx-platform/medx-api/internal/http-server/mware"
	"github.com/medx-platform/medx-api/internal/lib/jwt"
	adminservice "github.com/medx-platform/medx-api/internal/services/admin"
	assistantservice "github.com/medx-platform/medx-api/internal/services/assistant"
	authservice "github.com/medx-platform/medx-api/internal/services/auth"
	catalogservice "github.com/medx-platform/medx-api/internal/services/catalog"
	feedbackservice "github.com/medx-platform/medx-api/internal/services/feedback"
	subscriptionservice "github.com/medx-platform/medx-api/internal/services/subscription"
)

// Services собирает сервисы, которые обслуживают маршруты приложения.
type Services struct {
	JWTMaker     jwt.Maker
	Auth         *authservice.AuthService
	Subscription *subscriptionservice.SubscriptionService
	Catalog      *catalogservice.CatalogService
	Feedback     *feedbackservice.FeedbackService
	Assistant    *assistantservice.AssistantService
	Admin        *adminservice.AdminService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(ctx context.Context, r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(ctx, logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(ctx, logger, s.Auth).ServeHTTP)
		r.Post("/reset-password", resetpassword.New(ctx, logger, s.Auth).ServeHTTP)
		r.With(mware.OptionalJWTMiddleware(s.JWTMaker, logger)).
			Post("/feedback", feedbacksubmit.New(ctx, logger, s.Feedback).ServeHTTP)

		// Группа с JWT аутентификацией и актуализацией подписки
		r.Group(func(r chi.Router) {
			r.Use(mware.JWTMiddleware(s.JWTMaker, logger))
			r.Use(mware.EntitlementRefresh(s.Subscription, logger))
			r.Use(mware.RateLimitMiddleware(logger))

			r.Patch("/account", accountupdate.New(ctx, logger, s.Auth).ServeHTTP)

			r.Get("/content/{level}", contentlist.New(ctx, logger, s.Catalog).ServeHTTP)
			r.Get("/content/{level}/{id}", contentread.New(ctx, logger, s.Catalog).ServeHTTP)
			r.Post("/content/{level}/{id}/open", contentopen.New(ctx, logger, s.Catalog).ServeHTTP)

			r.Post("/assistant/help", helphandler.New(ctx, logger, s.Assistant).ServeHTTP)
			r.Post("/assistant/quiz", quizhandler.New(ctx, logger, s.Assistant).ServeHTTP)

			// Консоль администратора
			r.Route("/admin", func(r chi.Router) {
				r.Use(mware.RequireAdmin(logger))

				r.Get("/users", listusers.New(ctx, logger, s.Admin).ServeHTTP)
				r.Post("/users/{uid}/premium", setpremium.New(ctx, logger, s.Admin).ServeHTTP)
				r.Post("/users/{uid}/role", setrole.New(ctx, logger, s.Admin).ServeHTTP)

				r.Post("/content", createcontent.New(ctx, logger, s.Admin).ServeHTTP)
				r.Post("/content/{id}/tier", movetier.New(ctx, logger, s.Admin).ServeHTTP)
				r.Delete("/content/{id}", deletecontent.New(ctx, logger, s.Admin).ServeHTTP)

				r.Get("/feedback", listfeedback.New(ctx, logger, s.Admin).ServeHTTP)
				r.Patch("/feedback/{id}", feedbackstatus.New(ctx, logger, s.Admin).ServeHTTP)
				r.Delete("/feedback/{id}", deletefeedback.New(ctx, logger, s.Admin).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
}
