// Package worknow собирает и запускает HTTP-сервер WorkNow: хранилище,
// миграции, кеш, клиентов биллинга и identity-провайдера, брокер сообщений
// и все маршруты API.
package worknow

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/worknowjob/worknow-api/internal/billing"
	"github.com/worknowjob/worknow-api/internal/cache"
	"github.com/worknowjob/worknow-api/internal/config"
	"github.com/worknowjob/worknow-api/internal/http/middlewarectx"
	"github.com/worknowjob/worknow-api/internal/identity"
	"github.com/worknowjob/worknow-api/internal/lib/rabbitmq"
	"github.com/worknowjob/worknow-api/internal/lib/sl"
	"github.com/worknowjob/worknow-api/internal/migrations"
	"github.com/worknowjob/worknow-api/internal/notify"
	"github.com/worknowjob/worknow-api/internal/services/job"
	"github.com/worknowjob/worknow-api/internal/services/payment"
	"github.com/worknowjob/worknow-api/internal/services/premium"
	"github.com/worknowjob/worknow-api/internal/services/profile"
	"github.com/worknowjob/worknow-api/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	amqp   *amqp.Connection
}

// New собирает приложение из конфигурации.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	catalog := billing.NewCatalog(cfg.DefaultPriceID, cfg.DeluxePriceID)
	biller := billing.NewClient(cfg.StripeSecretKey, catalog)
	identityClient := identity.NewClient(cfg.ClerkAPIURL, cfg.ClerkSecretKey)

	verifier, err := middlewarectx.NewClerkVerifier(cfg.JWTPublicKey)
	if err != nil {
		return nil, err
	}

	var notifier premium.Notifier
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Warn("telegram notifier disabled", sl.Err(err))
		} else {
			notifier = tg
		}
	}

	var amqpConn *amqp.Connection
	var publisher premium.EventPublisher
	if cfg.RabbitMQURL != "" {
		amqpConn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetMessageQueues())
		if err != nil {
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(ch)
	} else {
		logger.Warn("rabbitmq url is empty, email events disabled")
	}

	premiumService := premium.New(db, biller, identityClient, notifier, publisher,
		cfg.FrontendURL, logger)
	jobService := job.New(db, cacheRedis, logger)
	paymentService := payment.New(db, biller, logger)
	profileService := profile.New(db, identityClient, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, verifier,
		premiumService, jobService, paymentService, profileService)

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
		amqp:   amqpConn,
	}, nil
}

// Run запускает сервер и останавливает его при отмене контекста.
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
		if a.amqp != nil {
			_ = a.amqp.Close()
		}
		_ = a.db.DB.Close()
		return err
	}
}
