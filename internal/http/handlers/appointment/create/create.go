// Package create реализует HTTP-обработчик создания записи клиента.
//
// Handler принимает JSON с данными записи, валидирует их, извлекает UID
// бизнеса из контекста и возвращает ID созданной записи.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/salon-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/salon-booking/internal/http/response"
	"github.com/magabrotheeeer/salon-booking/internal/lib/sl"
	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// Service описывает интерфейс бизнес-логики создания записи.
type Service interface {
	Create(ctx context.Context, businessUID string, req models.DummyAppointment) (int, error)
}

// Handler управляет HTTP-запросами на создание записей клиентов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
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
// @Summary Создать запись клиента
// @Description Создает новую запись клиента в статусе pending. Возвращает ID созданной записи.
// @Tags Appointments
// @Accept  json
// @Produce  json
// @Param request body models.DummyAppointment true "Данные новой записи"
// @Success 200 {object} map[string]any "Успешное создание записи"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании записи"
// @Router /appointments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAppointment
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
	log.Info("all fields are validated")

	businessUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || businessUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Create(r.Context(), businessUID, req)
	if err != nil {
		log.Error("failed to create appointment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create appointment"))
		return
	}

	log.Info("appointment created", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"last_added_id": id,
	}))
}
