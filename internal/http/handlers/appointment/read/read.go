// Package read реализует HTTP-обработчик чтения одной записи клиента.
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

	"github.com/magabrotheeeer/salon-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/salon-booking/internal/http/response"
	"github.com/magabrotheeeer/salon-booking/internal/lib/sl"
	"github.com/magabrotheeeer/salon-booking/internal/models"
	"github.com/magabrotheeeer/salon-booking/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики чтения записи.
type Service interface {
	Read(ctx context.Context, id int, businessUID string) (*models.Appointment, error)
}

// Handler обрабатывает запросы чтения записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить запись
// @Description Возвращает запись клиента по ID в рамках бизнеса владельца.
// @Tags Appointments
// @Produce  json
// @Param id path int true "ID записи"
// @Success 200 {object} map[string]any "Запись клиента"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /appointments/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid appointment id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid appointment id"))
		return
	}

	businessUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || businessUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	appointment, err := h.service.Read(r.Context(), id, businessUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("appointment not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("appointment not found"))
			return
		}
		log.Error("failed to read appointment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read appointment"))
		return
	}

	render.JSON(w, r, response.OKWithData(appointment))
}
