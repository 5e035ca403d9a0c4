// Package confirm реализует публичный HTTP-обработчик подтверждения или
// отмены записи клиентом по одноразовому токену из письма.
//
// Обработчик не требует авторизации: клиент салона не имеет аккаунта.
// Использованный, истекший и несуществующий токены неразличимы в ответе —
// все дают 404, чтобы по ответу нельзя было перебирать токены.
package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/salon-booking/internal/http/response"
	"github.com/magabrotheeeer/salon-booking/internal/lib/sl"
	"github.com/magabrotheeeer/salon-booking/internal/models"
	confirmationservice "github.com/magabrotheeeer/salon-booking/internal/services/confirmation"
	"github.com/magabrotheeeer/salon-booking/internal/storage/repository"
)

// Request — токен из письма и действие клиента.
type Request struct {
	Token  string `json:"token" validate:"required"`
	Action string `json:"action" validate:"required"`
}

// Service описывает интерфейс протокола подтверждения.
type Service interface {
	Consume(ctx context.Context, token, action string) (*models.AppointmentSnapshot, error)
}

// Handler обрабатывает переход клиента по ссылке подтверждения.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтвердить или отменить запись по токену
// @Description Гасит одноразовый токен из письма и переводит запись в confirmed или cancelled.
// @Tags Appointments
// @Accept  json
// @Produce  json
// @Param request body Request true "Токен и действие (confirm или cancel)"
// @Success 200 {object} models.AppointmentSnapshot "Итоговое состояние записи"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или действие"
// @Failure 404 {object} response.ErrorResponse "Токен не найден, истек или уже использован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /appointments/confirm [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	snapshot, err := h.service.Consume(r.Context(), req.Token, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, confirmationservice.ErrInvalidAction):
			log.Error("invalid confirmation action", slog.String("action", req.Action))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid confirmation action"))
		case errors.Is(err, repository.ErrNotFound):
			log.Info("confirmation token rejected")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("confirmation link is invalid or expired"))
		default:
			log.Error("failed to consume confirmation token", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not process confirmation"))
		}
		return
	}

	log.Info("appointment confirmation processed",
		slog.Int("id", snapshot.ID), slog.String("status", snapshot.Status))
	render.JSON(w, r, response.OKWithData(snapshot))
}
