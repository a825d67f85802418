// Package starweaver предоставляет маршруты для основного приложения.
package starweaver

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/starweaverbot/starweaver/internal/config"
	"github.com/starweaverbot/starweaver/internal/http/handlers/health"
	readingslist "github.com/starweaverbot/starweaver/internal/http/handlers/readings/list"
	statuscreate "github.com/starweaverbot/starweaver/internal/http/handlers/status/create"
	statuslist "github.com/starweaverbot/starweaver/internal/http/handlers/status/list"
	userread "github.com/starweaverbot/starweaver/internal/http/handlers/user/read"
	"github.com/starweaverbot/starweaver/internal/http/handlers/webhook"
	"github.com/starweaverbot/starweaver/internal/http/middlewarectx"
	botservice "github.com/starweaverbot/starweaver/internal/services/bot"
	profileservice "github.com/starweaverbot/starweaver/internal/services/profile"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	botService *botservice.BotService, profileService *profileservice.ProfileService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Webhook endpoint (аутентификация секретным токеном Telegram)
	r.With(middlewarectx.RateLimitMiddleware(logger)).
		Post("/webhook/telegram", webhook.New(logger, botService, cfg.WebhookSecret).ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Get("/user/{telegram_id}", userread.New(logger, profileService).ServeHTTP)
		r.Get("/readings/{telegram_id}", readingslist.New(logger, profileService).ServeHTTP)
		r.Post("/status", statuscreate.New(logger, profileService).ServeHTTP)
		r.Get("/status", statuslist.New(logger, profileService).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
