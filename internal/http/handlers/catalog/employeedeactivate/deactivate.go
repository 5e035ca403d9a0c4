// Package employeedeactivate реализует HTTP-обработчик пометки сотрудника
// неработающим. Сотрудники не удаляются: на них ссылаются прошлые записи.
package employeedeactivate

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

// Service описывает интерфейс бизнес-логики деактивации сотрудника.
type Service interface {
	DeactivateEmployee(ctx context.Context, id int, businessUID string) (int, error)
}

// Handler обрабатывает деактивацию сотрудника.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Деактивировать сотрудника
// @Description Помечает сотрудника неработающим, прошлые записи сохраняются.
// @Tags Catalog
// @Produce  json
// @Param id path int true "ID сотрудника"
// @Success 200 {object} response.Response "Сотрудник деактивирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Сотрудник не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /employees/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.employeedeactivate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid employee id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid employee id"))
		return
	}

	businessUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || businessUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	count, err := h.service.DeactivateEmployee(r.Context(), id, businessUID)
	if err != nil {
		log.Error("failed to deactivate employee", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not deactivate employee"))
		return
	}
	if count == 0 {
		log.Info("employee not found", slog.Int("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("employee not found"))
		return
	}

	log.Info("employee deactivated", slog.Int("id", id))
	render.JSON(w, r, response.OK())
}
