// Package create реализует HTTP-обработчик регистрации проверки статуса.
//
// Handler принимает JSON-запрос с именем клиента, валидирует его,
// вызывает бизнес-логику создания записи и возвращает созданную запись
// в JSON-формате.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/starweaverbot/starweaver/internal/http/response"
	"github.com/starweaverbot/starweaver/internal/lib/sl"
	"github.com/starweaverbot/starweaver/internal/models"
)

// Handler обрабатывает запросы на регистрацию проверки статуса.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики проверок статуса
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики регистрации проверки статуса.
type Service interface {
	CreateStatusCheck(ctx context.Context, clientName string) (*models.StatusCheck, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Зарегистрировать проверку статуса
// @Description Создает запись проверки доступности с именем клиента и возвращает её.
// @Tags Status
// @Accept  json
// @Produce  json
// @Param request body models.DummyStatusCheck true "Имя клиента"
// @Success 200 {object} map[string]any "Созданная запись проверки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании записи"
// @Router /status [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.status.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyStatusCheck
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	check, err := h.service.CreateStatusCheck(r.Context(), req.ClientName)
	if err != nil {
		log.Error("failed to create status check", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create status check"))
		return
	}

	log.Info("success to create status check", slog.String("id", check.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status_check": check,
	}))
}
