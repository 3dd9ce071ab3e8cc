// Package portal собирает клиентский портал: подключение к redis, клиент
// биллинга SHM, менеджер сессий, сервисы и HTTP-сервер.
package portal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/shmhost/client-portal/internal/cache"
	"github.com/shmhost/client-portal/internal/config"
	"github.com/shmhost/client-portal/internal/services/ordering"
	"github.com/shmhost/client-portal/internal/services/payments"
	"github.com/shmhost/client-portal/internal/services/userservices"
	"github.com/shmhost/client-portal/internal/session"
	"github.com/shmhost/client-portal/internal/shm"
)

// App основное приложение портала.
type App struct {
	server *http.Server
	logger *slog.Logger
	cache  *cache.Cache
}

// New создает приложение портала со всеми зависимостями.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	api := shm.NewClient(cfg.Upstream.AddressSHM, cfg.Upstream.TimeoutSHM)
	sessions := session.NewManager(cacheRedis, cfg.Session.TTL, cfg.AdminGID)

	paymentService := payments.New(api, cacheRedis, logger)
	orderingService := ordering.New(api, paymentService, logger)
	userServicesService := userservices.New(api, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, cfg, api, sessions, orderingService, paymentService, userServicesService)

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
		cache:  cacheRedis,
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
		if cerr := a.cache.Db.Close(); cerr != nil {
			a.logger.Warn("failed to close redis connection", slog.Any("err", cerr))
		}
		return err
	}
}
