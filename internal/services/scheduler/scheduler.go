// Package services содержит планировщик: рассылку писем подтверждения
// записи и уведомлений об истекающем пробном периоде.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/salon-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/salon-booking/internal/lib/sl"
	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// Окно выдачи письма подтверждения: за 48-72 часа до визита.
const (
	confirmationWindowFrom = 48 * time.Hour
	confirmationWindowTo   = 72 * time.Hour
)

// SchedulerRepository определяет методы хранилища для планировщика.
type SchedulerRepository interface {
	// FindAppointmentsPendingConfirmation возвращает записи без письма с датой в интервале.
	FindAppointmentsPendingConfirmation(ctx context.Context, from, to time.Time) ([]*models.PendingConfirmation, error)
	// FindTrialExpiringTomorrow возвращает пользователей с истекающим завтра доступом.
	FindTrialExpiringTomorrow(ctx context.Context) ([]*models.User, error)
	// MarkTrialNotified помечает уведомление отправленным.
	MarkTrialNotified(ctx context.Context, userUID string) error
}

// ConfirmationIssuer выдает токен подтверждения и публикует данные для письма.
type ConfirmationIssuer interface {
	Issue(ctx context.Context, pending *models.PendingConfirmation) error
}

// Publisher публикует сообщения в очередь уведомлений.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// SchedulerService периодически находит записи и пользователей,
// которым пора отправить письмо.
type SchedulerService struct {
	repo          SchedulerRepository
	confirmations ConfirmationIssuer
	publisher     Publisher
	log           *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo SchedulerRepository, confirmations ConfirmationIssuer, publisher Publisher, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:          repo,
		confirmations: confirmations,
		publisher:     publisher,
		log:           log,
	}
}

// RunConfirmationDispatch запускает цикл выдачи писем подтверждения.
// Повторные запуски безопасны: выдача на запись не более одной.
func (s *SchedulerService) RunConfirmationDispatch(ctx context.Context) {
	s.DispatchConfirmations(ctx)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.DispatchConfirmations(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// DispatchConfirmations выдает письма подтверждения записям,
// до визита которых осталось от 48 до 72 часов.
func (s *SchedulerService) DispatchConfirmations(ctx context.Context) {
	s.log.Info("starting confirmation dispatch")
	now := time.Now().UTC()
	pending, err := s.repo.FindAppointmentsPendingConfirmation(ctx,
		now.Add(confirmationWindowFrom), now.Add(confirmationWindowTo))
	if err != nil {
		s.log.Error("failed to find appointments pending confirmation", sl.Err(err))
		return
	}
	if len(pending) == 0 {
		s.log.Info("no appointments pending confirmation")
		return
	}
	s.log.Info("found appointments pending confirmation", "count", len(pending))
	for _, p := range pending {
		if err := s.confirmations.Issue(ctx, p); err != nil {
			s.log.Error("failed to issue confirmation", sl.Err(err),
				slog.Int("appointment_id", p.AppointmentID))
		}
	}
}

// RunTrialNotifications запускает цикл уведомлений об истекающем
// пробном периоде.
func (s *SchedulerService) RunTrialNotifications(ctx context.Context) {
	s.NotifyExpiringTrials(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.NotifyExpiringTrials(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// NotifyExpiringTrials публикует письма пользователям, у которых доступ
// заканчивается завтра. Пользователь помечается уведомленным сразу после
// публикации, поэтому письмо уходит не более одного раза.
func (s *SchedulerService) NotifyExpiringTrials(ctx context.Context) {
	s.log.Info("starting trial expiration notifications")
	users, err := s.repo.FindTrialExpiringTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find expiring trials", sl.Err(err))
		return
	}
	if len(users) == 0 {
		s.log.Info("no expiring trials found")
		return
	}
	s.log.Info("found expiring trials", "count", len(users))
	for _, u := range users {
		if u.TrialEndDate == nil {
			continue
		}
		info := models.TrialInfo{
			Email:        u.Email,
			Username:     u.Username,
			BusinessName: u.BusinessName,
			TrialEndDate: *u.TrialEndDate,
		}
		if err := s.publisher.Publish(rabbitmq.RoutingKeyTrial, info); err != nil {
			s.log.Error("failed to publish trial notification", sl.Err(err),
				slog.String("user_uid", u.UID))
			continue
		}
		if err := s.repo.MarkTrialNotified(ctx, u.UID); err != nil {
			s.log.Error("failed to mark trial notified", sl.Err(err),
				slog.String("user_uid", u.UID))
		}
	}
}
