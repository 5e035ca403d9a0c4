// Package booking собирает основное HTTP-приложение сервиса онлайн-записи.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/salon-booking/internal/cache"
	"github.com/magabrotheeeer/salon-booking/internal/config"
	"github.com/magabrotheeeer/salon-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/salon-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/salon-booking/internal/migrations"
	"github.com/magabrotheeeer/salon-booking/internal/paymentprovider"
	appointmentservice "github.com/magabrotheeeer/salon-booking/internal/services/appointment"
	authservice "github.com/magabrotheeeer/salon-booking/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/salon-booking/internal/services/catalog"
	confirmationservice "github.com/magabrotheeeer/salon-booking/internal/services/confirmation"
	paymentservice "github.com/magabrotheeeer/salon-booking/internal/services/payment"
	trialservice "github.com/magabrotheeeer/salon-booking/internal/services/trial"
	"github.com/magabrotheeeer/salon-booking/internal/storage/repository"
)

// App представляет основное приложение сервиса онлайн-записи.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает приложение: подключает хранилище, кеш, брокер уведомлений
// и собирает сервисы с маршрутами.
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

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewNotificationPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(cfg.ShopID, cfg.SecretKey)

	authService := authservice.NewAuthService(db, jwtMaker, cfg.TrialDays)
	trialService := trialservice.NewTrialService(db, logger, cfg.MonthlyDays, cfg.YearlyDays)
	appointmentService := appointmentservice.NewAppointmentService(db, cacheRedis, logger)
	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger)
	confirmationService := confirmationservice.NewConfirmationService(db, publisher, logger)
	paymentService := paymentservice.NewPaymentService(db, providerClient, cfg.PublicBaseURL, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg,
		authService, trialService, appointmentService,
		catalogService, confirmationService, paymentService)

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
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
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
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close storage", slog.Any("err", cerr))
		}
		return err
	}
}
