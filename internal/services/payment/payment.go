// Package services содержит бизнес-логику оплаты подписки: создание
// платежа у провайдера и история платежей. Применение одобренного
// платежа к сроку доступа делает движок подписки по вебхуку.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/salon-booking/internal/models"
	"github.com/magabrotheeeer/salon-booking/internal/paymentprovider"
)

// Тарифная сетка. Суммы в формате провайдера.
var billingAmounts = map[string]paymentprovider.Amount{
	"monthly": {Value: "990.00", Currency: "RUB"},
	"yearly":  {Value: "9900.00", Currency: "RUB"},
}

// PaymentRepository описывает методы хранилища платежей.
type PaymentRepository interface {
	ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error)
}

// ProviderClient описывает клиент платёжного провайдера.
type ProviderClient interface {
	CreatePayment(req paymentprovider.CreatePaymentRequest) (*paymentprovider.CreatePaymentResponse, error)
}

// PaymentService создает платежи у провайдера и отдает историю платежей.
type PaymentService struct {
	repo          PaymentRepository
	provider      ProviderClient
	publicBaseURL string
	log           *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(repo PaymentRepository, provider ProviderClient, publicBaseURL string, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:          repo,
		provider:      provider,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log,
	}
}

// CreateCheckout создает платёж у провайдера и возвращает URL страницы
// оплаты. Пользователь и тариф кладутся в metadata: вебхук провайдера
// вернет их для применения платежа.
func (s *PaymentService) CreateCheckout(ctx context.Context, userUID, plan, billing string) (string, error) {
	amount, ok := billingAmounts[billing]
	if !ok {
		return "", fmt.Errorf("unknown billing period: %q", billing)
	}

	resp, err := s.provider.CreatePayment(paymentprovider.CreatePaymentRequest{
		Amount:  amount,
		Capture: true,
		Confirmation: paymentprovider.Confirmation{
			Type:      "redirect",
			ReturnURL: s.publicBaseURL + "/billing",
		},
		Description: fmt.Sprintf("Подписка Salon-Booking, тариф %s (%s)", plan, billing),
		Metadata: map[string]string{
			"user_uid":     userUID,
			"plan_type":    plan,
			"billing_type": billing,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create payment: %w", err)
	}

	s.log.Info("checkout created",
		slog.String("user_uid", userUID),
		slog.String("provider_payment_id", resp.ID),
		slog.String("billing", billing))
	return resp.Confirmation.ConfirmationURL, nil
}

// ListPayments возвращает историю платежей пользователя.
func (s *PaymentService) ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx, userUID)
}
