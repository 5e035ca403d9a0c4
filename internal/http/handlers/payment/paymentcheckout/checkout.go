// Package paymentcheckout реализует HTTP-обработчик создания платежа:
// возвращает URL страницы оплаты провайдера.
package paymentcheckout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/salon-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/salon-booking/internal/http/response"
	"github.com/magabrotheeeer/salon-booking/internal/lib/sl"
)

// Request запрос на оплату подписки.
type Request struct {
	Plan    string `json:"plan" validate:"required"`
	Billing string `json:"billing" validate:"required,oneof=monthly yearly"`
}

// Service описывает интерфейс бизнес-логики оплаты.
type Service interface {
	CreateCheckout(ctx context.Context, userUID, plan, billing string) (string, error)
}

// Handler обрабатывает создание платежа.
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
// @Summary Оплатить подписку
// @Description Создает платёж у провайдера и возвращает URL страницы оплаты.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Тариф и периодичность оплаты"
// @Success 200 {object} map[string]any "URL страницы оплаты"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payments/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentcheckout"
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
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	confirmationURL, err := h.service.CreateCheckout(r.Context(), userUID, req.Plan, req.Billing)
	if err != nil {
		log.Error("failed to create checkout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create payment"))
		return
	}

	log.Info("checkout created", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"confirmation_url": confirmationURL,
	}))
}
