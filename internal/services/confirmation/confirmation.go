// Package services содержит протокол подтверждения записи: выдачу
// одноразовых токенов и их гашение по действию клиента.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/salon-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/salon-booking/internal/lib/token"
	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// ErrInvalidAction возвращается для действия, отличного от confirm и cancel.
var ErrInvalidAction = errors.New("invalid confirmation action")

// ConfirmationRepository определяет методы хранилища для протокола подтверждения.
type ConfirmationRepository interface {
	// IssueConfirmationToken сохраняет токен у записи, false — если уже выдан.
	IssueConfirmationToken(ctx context.Context, id int, token string, expiry time.Time) (bool, error)
	// ConsumeConfirmationToken гасит токен и переводит запись в новый статус.
	ConsumeConfirmationToken(ctx context.Context, token, newStatus string, confirmedByClient bool) (*models.AppointmentSnapshot, error)
}

// Publisher публикует сообщения в очередь уведомлений.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// ConfirmationService выдает и гасит одноразовые токены подтверждения.
type ConfirmationService struct {
	repo      ConfirmationRepository
	publisher Publisher
	log       *slog.Logger
}

// NewConfirmationService создает новый экземпляр ConfirmationService.
func NewConfirmationService(repo ConfirmationRepository, publisher Publisher, log *slog.Logger) *ConfirmationService {
	return &ConfirmationService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Issue выдает записи токен подтверждения и публикует данные для письма
// в очередь уведомлений. Токен действует до даты визита плюс один час.
// Если письмо для записи уже отправлялось, выдача молча пропускается:
// клиент не должен получить два письма.
func (s *ConfirmationService) Issue(ctx context.Context, pending *models.PendingConfirmation) error {
	tokenStr, err := token.Generate()
	if err != nil {
		return err
	}
	expiry := pending.Date.Add(time.Hour)

	issued, err := s.repo.IssueConfirmationToken(ctx, pending.AppointmentID, tokenStr, expiry)
	if err != nil {
		return err
	}
	if !issued {
		s.log.Info("confirmation already issued, skipping",
			slog.Int("appointment_id", pending.AppointmentID))
		return nil
	}

	info := models.ConfirmationInfo{
		ClientEmail:  pending.ClientEmail,
		ClientName:   pending.ClientName,
		BusinessName: pending.BusinessName,
		ServiceName:  pending.ServiceName,
		EmployeeName: pending.EmployeeName,
		Date:         pending.Date,
		Token:        tokenStr,
	}
	if err := s.publisher.Publish(rabbitmq.RoutingKeyConfirmation, info); err != nil {
		return err
	}
	s.log.Info("confirmation issued", slog.Int("appointment_id", pending.AppointmentID))
	return nil
}

// Consume обрабатывает переход клиента по ссылке из письма: confirm
// переводит запись в confirmed, cancel — в cancelled. Токен гасится
// одним условным обновлением, повторное использование неотличимо от
// несуществующего токена. Флаг confirmed_by_client ставится только
// при подтверждении: отмена — тоже действие клиента, но не подтверждение.
func (s *ConfirmationService) Consume(ctx context.Context, tokenStr, action string) (*models.AppointmentSnapshot, error) {
	var newStatus string
	switch action {
	case models.ConfirmationActionConfirm:
		newStatus = models.AppointmentStatusConfirmed
	case models.ConfirmationActionCancel:
		newStatus = models.AppointmentStatusCancelled
	default:
		return nil, ErrInvalidAction
	}

	snapshot, err := s.repo.ConsumeConfirmationToken(ctx, tokenStr, newStatus,
		action == models.ConfirmationActionConfirm)
	if err != nil {
		return nil, err
	}
	s.log.Info("confirmation consumed",
		slog.Int("appointment_id", snapshot.ID),
		slog.String("action", action))
	return snapshot, nil
}
