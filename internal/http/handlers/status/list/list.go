// Package list реализует HTTP-обработчик для получения списка проверок статуса.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/starweaverbot/starweaver/internal/http/response"
	"github.com/starweaverbot/starweaver/internal/lib/sl"
	"github.com/starweaverbot/starweaver/internal/models"
)

// Handler обрабатывает запросы на получение проверок статуса.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики проверок статуса
}

// Service описывает интерфейс бизнес-логики чтения проверок статуса.
type Service interface {
	ListStatusChecks(ctx context.Context, limit int) ([]*models.StatusCheck, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить список проверок статуса
// @Description Возвращает записи проверок доступности, новые первыми.
// @Tags Status
// @Produce  json
// @Success 200 {object} map[string]any "Список проверок"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении записей"
// @Router /status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.status.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	checks, err := h.service.ListStatusChecks(r.Context(), 0)
	if err != nil {
		log.Error("failed to list status checks", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list status checks"))
		return
	}

	log.Info("success to list status checks", slog.Int("count", len(checks)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status_checks": checks,
		"count":         len(checks),
	}))
}
