// Package servicelist реализует HTTP-обработчик списка услуг бизнеса.
package servicelist

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

// Service описывает интерфейс бизнес-логики списка услуг.
type Service interface {
	ListServices(ctx context.Context, businessUID string) ([]*models.Service, error)
}

// Handler обрабатывает запросы списка услуг.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список услуг
// @Description Возвращает все услуги бизнеса, включая скрытые с публичной страницы.
// @Tags Catalog
// @Produce  json
// @Success 200 {object} map[string]any "Список услуг"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /services [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.servicelist"
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

	services, err := h.service.ListServices(r.Context(), businessUID)
	if err != nil {
		log.Error("failed to list services", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list services"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"services": services,
		"count":    len(services),
	}))
}
