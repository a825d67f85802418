package starweaver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/starweaverbot/starweaver/internal/cache"
	"github.com/starweaverbot/starweaver/internal/config"
	"github.com/starweaverbot/starweaver/internal/generator"
	"github.com/starweaverbot/starweaver/internal/lib/sl"
	"github.com/starweaverbot/starweaver/internal/migrations"
	botservice "github.com/starweaverbot/starweaver/internal/services/bot"
	entitlementservice "github.com/starweaverbot/starweaver/internal/services/entitlement"
	profileservice "github.com/starweaverbot/starweaver/internal/services/profile"
	"github.com/starweaverbot/starweaver/internal/storage"
	"github.com/starweaverbot/starweaver/internal/telegram"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	tgClient, err := telegram.New(cfg.Telegram, logger)
	if err != nil {
		return nil, err
	}
	if err := tgClient.SetWebhook(); err != nil {
		// Бот остаётся рабочим через уже зарегистрированный вебхук
		logger.Warn("failed to register telegram webhook", sl.Err(err))
	}

	gptClient := generator.New(cfg.YandexGPT, logger)

	entitlementService := entitlementservice.NewEntitlementService(db, logger, cfg.SubscriptionDays)
	botService := botservice.NewBotService(db, db, entitlementService, gptClient, tgClient,
		cacheRedis, logger, cfg.FreeReadings)
	profileService := profileservice.NewProfileService(db, db, db, cacheRedis, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, cfg, botService, profileService)

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
		cache:  *cacheRedis,
	}, nil
}

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
		a.db.DB.Close()
		return err
	}
}
