// Package list реализует HTTP-обработчик списка записей бизнеса с пагинацией.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/salon-booking/internal/http/response"
	"github.com/magabrotheeeer/salon-booking/internal/lib/sl"
	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// Service описывает интерфейс бизнес-логики списка записей.
type Service interface {
	List(ctx context.Context, businessUID string, limit, offset int) ([]*models.Appointment, error)
}

// Handler обрабатывает запросы списка записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список записей
// @Description Возвращает записи клиентов бизнеса с пагинацией, новые первыми.
// @Tags Appointments
// @Produce  json
// @Param limit query int false "Количество записей (по умолчанию 20)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} map[string]any "Список записей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /appointments/list [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appointment.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	businessUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || businessUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	appointments, err := h.service.List(r.Context(), businessUID, limit, offset)
	if err != nil {
		log.Error("failed to list appointments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list appointments"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"appointments": appointments,
		"count":        len(appointments),
	}))
}
