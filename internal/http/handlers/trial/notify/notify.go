// Package notify реализует HTTP-обработчик отметки об отправленном
// уведомлении об истечении пробного периода.
package notify

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/salon-booking/internal/http/response"
	"github.com/magabrotheeeer/salon-booking/internal/lib/sl"
)

// Service описывает интерфейс движка пробного периода.
type Service interface {
	MarkNotified(ctx context.Context, userUID string) error
}

// Handler обрабатывает отметку уведомления. Повторный вызов безвреден.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отметить уведомление отправленным
// @Description Помечает, что пользователь получил уведомление об истечении пробного периода.
// @Tags Trial
// @Produce  json
// @Success 200 {object} response.Response "Отметка сохранена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /trial/notify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trial.notify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.MarkNotified(r.Context(), userUID); err != nil {
		log.Error("failed to mark trial notified", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not mark notification"))
		return
	}

	log.Info("trial notification marked", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OK())
}
