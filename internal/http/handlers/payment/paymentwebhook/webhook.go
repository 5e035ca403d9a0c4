// Package paymentwebhook реализует открытый HTTP-обработчик вебхуков
// платёжного провайдера. Подлинность запроса подтверждается подписью
// HMAC-SHA256 тела запроса в заголовке X-Api-Signature. После успешной
// проверки подписи и формы тела провайдеру всегда отвечаем 200: ошибка
// обработки на нашей стороне не повод для бесконечных повторов доставки.
package paymentwebhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/salon-booking/internal/http/response"
	"github.com/magabrotheeeer/salon-booking/internal/lib/sl"
	"github.com/magabrotheeeer/salon-booking/internal/models"
	"github.com/magabrotheeeer/salon-booking/internal/storage/repository"
)

// Service описывает интерфейс движка подписки, применяющего платежи.
type Service interface {
	OnPaymentApproved(ctx context.Context, payment models.Payment) (time.Time, error)
}

// Payload — тело уведомления платёжного провайдера.
type Payload struct {
	Event  string `json:"event"`
	Object struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount struct {
			Value    string `json:"value"`
			Currency string `json:"currency"`
		} `json:"amount"`
		Metadata map[string]string `json:"metadata"`
	} `json:"object"`
}

// Handler обрабатывает вебхуки платёжного провайдера.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, webhookSecret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: webhookSecret,
	}
}

// ServeHTTP godoc
// @Summary Вебхук платёжного провайдера
// @Description Принимает уведомления о платежах. Запрос должен быть подписан HMAC-SHA256.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param X-Api-Signature header string true "Подпись тела запроса"
// @Success 200 {object} response.Response "Уведомление принято"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверная подпись"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentwebhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if !h.verifySignature(body, r.Header.Get("X-Api-Signature")) {
		log.Warn("webhook signature mismatch")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid signature"))
		return
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to decode webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	// Дальше всегда 200: подпись верна, провайдер своё дело сделал.
	if payload.Event != "payment.succeeded" {
		log.Info("ignoring webhook event", slog.String("event", payload.Event))
		render.JSON(w, r, response.OK())
		return
	}

	payment := models.Payment{
		UserUID:           payload.Object.Metadata["user_uid"],
		ProviderPaymentID: payload.Object.ID,
		Plan:              payload.Object.Metadata["plan_type"],
		Billing:           payload.Object.Metadata["billing_type"],
		AmountValue:       payload.Object.Amount.Value,
		AmountCurrency:    payload.Object.Amount.Currency,
	}

	if _, err := h.service.OnPaymentApproved(r.Context(), payment); err != nil {
		if errors.Is(err, repository.ErrDuplicatePayment) {
			log.Info("duplicate webhook delivery",
				slog.String("provider_payment_id", payment.ProviderPaymentID))
		} else {
			log.Error("failed to apply payment", sl.Err(err),
				slog.String("provider_payment_id", payment.ProviderPaymentID))
		}
		render.JSON(w, r, response.OK())
		return
	}

	log.Info("payment webhook processed",
		slog.String("provider_payment_id", payment.ProviderPaymentID))
	render.JSON(w, r, response.OK())
}

func (h *Handler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
