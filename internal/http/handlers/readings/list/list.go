// Package list реализует HTTP-обработчик для получения архива раскладов пользователя.
//
// Handler извлекает telegram_id из URL-параметров и необязательный limit из
// строки запроса, вызывает бизнес-логику чтения архива и возвращает расклады
// в JSON-формате, новые первыми.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/starweaverbot/starweaver/internal/http/response"
	"github.com/starweaverbot/starweaver/internal/lib/sl"
	"github.com/starweaverbot/starweaver/internal/models"
)

// Handler обрабатывает запросы на получение архива раскладов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики чтения архива
}

// Service описывает интерфейс бизнес-логики чтения архива раскладов.
type Service interface {
	ListReadings(ctx context.Context, telegramID int64, limit int) ([]*models.Reading, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить архив раскладов пользователя
// @Description Возвращает расклады пользователя по telegram_id, новые первыми. Параметр limit ограничивает выдачу, по умолчанию 100.
// @Tags Readings
// @Produce  json
// @Param telegram_id path int true "Telegram ID пользователя"
// @Param limit query int false "Максимум записей в выдаче"
// @Success 200 {object} map[string]any "Список раскладов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении архива"
// @Router /readings/{telegram_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.readings.list"

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

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			log.Error("failed to decode limit from query", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode limit from query"))
			return
		}
	}

	readings, err := h.service.ListReadings(r.Context(), telegramID, limit)
	if err != nil {
		log.Error("failed to list readings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list readings"))
		return
	}

	log.Info("success to list readings",
		slog.Int64("telegram_id", telegramID), slog.Int("count", len(readings)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"readings": readings,
		"count":    len(readings),
	}))
}
