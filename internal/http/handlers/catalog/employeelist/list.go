// Package employeelist реализует HTTP-обработчик списка сотрудников бизнеса.
package employeelist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/salon-booking/internal/http/response"
	"github.com/magabrotheeeer/salon-booking/internal/lib/sl"
	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// Service описывает интерфейс бизнес-логики списка сотрудников.
type Service interface {
	ListEmployees(ctx context.Context, businessUID string) ([]*models.Employee, error)
}

// Handler обрабатывает запросы списка сотрудников.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список сотрудников
// @Description Возвращает всех сотрудников бизнеса.
// @Tags Catalog
// @Produce  json
// @Success 200 {object} map[string]any "Список сотрудников"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /employees [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.employeelist"
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

	employees, err := h.service.ListEmployees(r.Context(), businessUID)
	if err != nil {
		log.Error("failed to list employees", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list employees"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"employees": employees,
		"count":     len(employees),
	}))
}
