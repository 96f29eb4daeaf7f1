// Package jornaldestaque собирает HTTP-приложение: хранилище, кэш,
// очередь уведомлений, файлы изданий и все сервисы с маршрутами.
package jornaldestaque

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/jornal-destaque/internal/cache"
	"github.com/magabrotheeeer/jornal-destaque/internal/config"
	"github.com/magabrotheeeer/jornal-destaque/internal/files"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/jwt"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/jornal-destaque/internal/lib/sl"
	"github.com/magabrotheeeer/jornal-destaque/internal/migrations"
	accessservice "github.com/magabrotheeeer/jornal-destaque/internal/services/access"
	authservice "github.com/magabrotheeeer/jornal-destaque/internal/services/auth"
	journalservice "github.com/magabrotheeeer/jornal-destaque/internal/services/journal"
	subscriptionservice "github.com/magabrotheeeer/jornal-destaque/internal/services/subscription"
	"github.com/magabrotheeeer/jornal-destaque/internal/storage/repository"
)

// App объединяет HTTP-сервер и внешние соединения приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	amqp   *amqp.Connection
}

// New инициализирует зависимости и собирает приложение.
// Брокер уведомлений необязателен: без него одобрение заявок работает,
// письма не отправляются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	fileStore, err := files.New(cfg.Uploads)
	if err != nil {
		return nil, err
	}

	var amqpConn *amqp.Connection
	var notifier *rabbitmq.ApprovalPublisher
	if cfg.RabbitMQURL != "" {
		amqpConn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetNotificationQueues())
		if err != nil {
			amqpConn.Close()
			return nil, err
		}
		notifier = rabbitmq.NewApprovalPublisher(ch)
	} else {
		logger.Warn("rabbitmq url is empty, approval notifications disabled")
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, db, jwtMaker, cfg.MaxActiveDevices)
	accessService := accessservice.New(db)
	journalService := journalservice.New(db, cacheRedis, accessService, logger)

	var subNotifier subscriptionservice.Notifier
	if notifier != nil {
		subNotifier = notifier
	}
	subscriptionService := subscriptionservice.New(db, db, subNotifier, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Journal:      journalService,
		Subscription: subscriptionService,
		Storage:      db,
		Files:        fileStore,
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
		amqp:   amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
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
			if cerr := a.amqp.Close(); cerr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(cerr))
			}
		}
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close database", sl.Err(cerr))
		}
		return err
	}
}
