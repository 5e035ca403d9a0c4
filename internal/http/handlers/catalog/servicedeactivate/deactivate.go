// Package servicedeactivate реализует HTTP-обработчик скрытия услуги
// с публичной страницы. Услуги не удаляются: на них могут ссылаться
// существующие записи.
package servicedeactivate

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

// Service описывает интерфейс бизнес-логики деактивации услуги.
type Service interface {
	DeactivateService(ctx context.Context, id int, businessUID string) (int, error)
}

// Handler обрабатывает деактивацию услуги.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Скрыть услугу
// @Description Скрывает услугу с публичной страницы записи.
// @Tags Catalog
// @Produce  json
// @Param id path int true "ID услуги"
// @Success 200 {object} response.Response "Услуга скрыта"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Услуга не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /services/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.servicedeactivate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid service id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid service id"))
		return
	}

	businessUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || businessUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	count, err := h.service.DeactivateService(r.Context(), id, businessUID)
	if err != nil {
		log.Error("failed to deactivate service", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not deactivate service"))
		return
	}
	if count == 0 {
		log.Info("service not found", slog.Int("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("service not found"))
		return
	}

	log.Info("service deactivated", slog.Int("id", id))
	render.JSON(w, r, response.OK())
}
