// Package cancel реализует HTTP-обработчик отмены записи владельцем бизнеса.
package cancel

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/salon-booking/internal/http/response"
	"github.com/magabrotheeeer/salon-booking/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики отмены записи.
type Service interface {
	Cancel(ctx context.Context, id int, businessUID string) (int, error)
}

// Handler обрабатывает отмену записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отменить запись
// @Description Переводит запись в статус cancelled. Запись не удаляется физически.
// @Tags Appointments
// @Produce  json
// @Param id path int true "ID записи"
// @Success 200 {object} response.Response "Запись отменена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /appointments/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.cancel"
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

	count, err := h.service.Cancel(r.Context(), id, businessUID)
	if err != nil {
		log.Error("failed to cancel appointment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not cancel appointment"))
		return
	}
	if count == 0 {
		log.Info("appointment not found", slog.Int("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("appointment not found"))
		return
	}

	log.Info("appointment cancelled", slog.Int("id", id))
	render.JSON(w, r, response.OK())
}
