// Package public реализует открытый HTTP-обработчик публичной страницы
// записи: профиль салона и его активные услуги по слагу. Авторизация
// не требуется, страницу открывают клиенты салона.
package public

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-booking/internal/http/response"
	"github.com/magabrotheeeer/salon-booking/internal/lib/sl"
	"github.com/magabrotheeeer/salon-booking/internal/models"
	"github.com/magabrotheeeer/salon-booking/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики публичной страницы.
type Service interface {
	GetPublicProfile(ctx context.Context, slug string) (*models.PublicProfile, error)
}

// Handler обрабатывает запросы публичной страницы записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Публичная страница салона
// @Description Возвращает профиль салона и его активные услуги по слагу.
// @Tags Public
// @Produce  json
// @Param slug path string true "Слаг бизнеса"
// @Success 200 {object} models.PublicProfile "Публичная страница"
// @Failure 404 {object} response.ErrorResponse "Салон не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /public/{slug} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.public"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("slug is required"))
		return
	}

	profile, err := h.service.GetPublicProfile(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("business not found", slog.String("slug", slug))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("business not found"))
			return
		}
		log.Error("failed to load public profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load page"))
		return
	}

	render.JSON(w, r, response.OKWithData(profile))
}
