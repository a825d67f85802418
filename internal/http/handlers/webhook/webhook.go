// Package webhook реализует HTTP-обработчик входящих обновлений Telegram.
//
// Handler проверяет секретный токен из заголовка, декодирует обновление
// и передает распознанное событие сервису бота. Telegram повторяет доставку
// при не-2xx ответах, поэтому любые ошибки обработки отвечают статусом 200.
package webhook

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/starweaverbot/starweaver/internal/lib/sl"
	"github.com/starweaverbot/starweaver/internal/telegram"
)

// Service описывает интерфейс бизнес-логики обработки событий бота.
type Service interface {
	HandleEvent(ctx context.Context, ev telegram.Event) error
}

// Handler обрабатывает POST-запросы вебхука Telegram.
type Handler struct {
	log     *slog.Logger
	service Service
	secret  string
}

// New создает новый Handler с переданными логгером, сервисом и секретом вебхука.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		secret:  secret,
	}
}

func (h *Handler) verifySecret(r *http.Request) bool {
	got := r.Header.Get("X-Telegram-Bot-Api-Secret-Token")
	return hmac.Equal([]byte(got), []byte(h.secret))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if !h.verifySecret(r) {
		log.Error("invalid or missing webhook secret token")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Error("failed to decode update", sl.Err(err))
		render.JSON(w, r, map[string]bool{"ok": false})
		return
	}

	ev, ok := telegram.DecodeUpdate(update)
	if !ok {
		log.Info("update ignored", slog.Int("update_id", update.UpdateID))
		render.JSON(w, r, map[string]bool{"ok": true})
		return
	}

	if err := h.service.HandleEvent(r.Context(), ev); err != nil {
		log.Error("failed to handle event", sl.Err(err))
		render.JSON(w, r, map[string]bool{"ok": false})
		return
	}

	log.Info("update processed", slog.Int("update_id", update.UpdateID))
	render.JSON(w, r, map[string]bool{"ok": true})
}
