// Package read реализует HTTP-обработчик для получения профиля пользователя.
//
// Handler извлекает telegram_id из URL-параметров, вызывает бизнес-логику
// чтения профиля и возвращает данные пользователя в JSON-формате.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/starweaverbot/starweaver/internal/http/response"
	"github.com/starweaverbot/starweaver/internal/lib/sl"
	"github.com/starweaverbot/starweaver/internal/models"
	"github.com/starweaverbot/starweaver/internal/storage"
)

// Handler обрабатывает запросы на получение профиля по telegram_id.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики чтения профиля
}

// Service описывает интерфейс бизнес-логики чтения профиля.
type Service interface {
	GetUser(ctx context.Context, telegramID int64) (*models.User, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить профиль пользователя
// @Description Возвращает профиль пользователя по его telegram_id, включая данные рождения и состояние подписки.
// @Tags Users
// @Produce  json
// @Param telegram_id path int true "Telegram ID пользователя"
// @Success 200 {object} map[string]any "Профиль пользователя"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении профиля"
// @Router /user/{telegram_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	telegramID, err := strconv.ParseInt(chi.URLParam(r, "telegram_id"), 10, 64)
	if err != nil {
		log.Error("failed to decode telegram_id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode telegram_id from url"))
		return
	}

	user, err := h.service.GetUser(r.Context(), telegramID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Info("user not found", slog.Int64("telegram_id", telegramID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to read user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read user"))
		return
	}

	log.Info("success to read user", slog.Int64("telegram_id", telegramID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": user,
	}))
}
