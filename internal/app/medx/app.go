// Package medx собирает основное HTTP-приложение платформы: хранилище,
// кеш, сервисы и маршруты — и управляет его жизненным циклом.
package medx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/medx-platform/medx-api/internal/cache"
	"github.com/medx-platform/medx-api/internal/config"
	"github.com/medx-platform/medx-api/internal/lib/jwt"
	"github.com/medx-platform/medx-api/internal/lib/smtp"
	adminservice "github.com/medx-platform/medx-api/internal/services/admin"
	assistantservice "github.com/medx-platform/medx-api/internal/services/assistant"
	authservice "github.com/medx-platform/medx-api/internal/services/auth"
	catalogservice "github.com/medx-platform/medx-api/internal/services/catalog"
	feedbackservice "github.com/medx-platform/medx-api/internal/services/feedback"
	notifierservice "github.com/medx-platform/medx-api/internal/services/notifier"
	subscriptionservice "github.com/medx-platform/medx-api/internal/services/subscription"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New создает приложение: подключает Postgres и Redis, собирает сервисы
// и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)
	resetMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.ResetTokenTTL)

	mailTransport := smtp.NewTransport(cfg.SMTPConnection, logger)
	senderService := notifierservice.NewSenderService(mailTransport, logger)

	authService := authservice.NewAuthService(db, jwtMaker, resetMaker, senderService, logger)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, logger)
	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger)
	feedbackService := feedbackservice.NewFeedbackService(db, logger)
	assistantService := assistantservice.NewAssistantService(
		assistantservice.NewOpenAIClient(cfg.LLMClient), cfg.LLMClient, logger)
	adminService := adminservice.NewAdminService(
		db, subscriptionService, catalogService, feedbackService, logger)

	router := chi.NewRouter()
	RegisterRoutes(ctx, router, logger, &Services{
		JWTMaker:     jwtMaker,
		Auth:         authService,
		Subscription: subscriptionService,
		Catalog:      catalogService,
		Feedback:     feedbackService,
		Assistant:    assistantService,
		Admin:        adminService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и корректно останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
