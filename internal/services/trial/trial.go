// Package services содержит бизнес-логику движка пробного периода и подписки.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/salon-booking/internal/lib/trialperiod"
	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// ErrAccessExpired возвращается, когда пробный период или оплаченный
// доступ пользователя истек.
var ErrAccessExpired = errors.New("trial or subscription expired")

// UserRepository описывает методы хранилища, нужные движку подписки.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// MarkTrialNotified помечает уведомление об истечении отправленным.
	MarkTrialNotified(ctx context.Context, userUID string) error
	// ApplyPaymentApproved проводит одобренный платеж одной транзакцией.
	ApplyPaymentApproved(ctx context.Context, payment models.Payment, durationDays int) (time.Time, error)
}

// TrialService рассчитывает состояние доступа пользователя и применяет
// платежи к сроку подписки.
type TrialService struct {
	repo        UserRepository
	log         *slog.Logger
	monthlyDays int
	yearlyDays  int
}

// NewTrialService создает новый экземпляр TrialService.
func NewTrialService(repo UserRepository, log *slog.Logger, monthlyDays, yearlyDays int) *TrialService {
	return &TrialService{
		repo:        repo,
		log:         log,
		monthlyDays: monthlyDays,
		yearlyDays:  yearlyDays,
	}
}

// GetStatus возвращает рассчитанное на текущий момент состояние доступа.
func (s *TrialService) GetStatus(ctx context.Context, userUID string) (*models.TrialStatus, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	status := trialperiod.Calculate(user, time.Now().UTC())
	return &status, nil
}

// MarkNotified помечает, что пользователь получил уведомление об истечении.
// Повторный вызов безвреден.
func (s *TrialService) MarkNotified(ctx context.Context, userUID string) error {
	return s.repo.MarkTrialNotified(ctx, userUID)
}

// HasFeature сообщает, открыт ли пользователю раздел приложения.
// Сейчас все разделы закрываются одним предикатом активности доступа,
// перечисление разделов оставляет место для потарифного доступа.
func (s *TrialService) HasFeature(status models.TrialStatus, _ models.Feature) bool {
	return status.IsActive
}

// VerifyAccess проверяет доступ пользователя к разделу и возвращает
// ErrAccessExpired, если доступ истек.
func (s *TrialService) VerifyAccess(ctx context.Context, userUID string, feature models.Feature) error {
	status, err := s.GetStatus(ctx, userUID)
	if err != nil {
		return err
	}
	if !s.HasFeature(*status, feature) {
		s.log.Info("access denied, trial expired",
			slog.String("user_uid", userUID),
			slog.String("feature", feature.String()))
		return ErrAccessExpired
	}
	return nil
}

// OnPaymentApproved применяет одобренный платеж: определяет длительность
// тарифа по периодичности оплаты и продлевает срок доступа одной
// транзакцией. Возвращает новую дату окончания доступа.
func (s *TrialService) OnPaymentApproved(ctx context.Context, payment models.Payment) (time.Time, error) {
	var durationDays int
	switch payment.Billing {
	case "monthly":
		durationDays = s.monthlyDays
	case "yearly":
		durationDays = s.yearlyDays
	default:
		return time.Time{}, fmt.Errorf("unknown billing period: %q", payment.Billing)
	}

	newEnd, err := s.repo.ApplyPaymentApproved(ctx, payment, durationDays)
	if err != nil {
		return time.Time{}, err
	}
	s.log.Info("payment applied",
		slog.String("user_uid", payment.UserUID),
		slog.String("billing", payment.Billing),
		slog.Time("access_until", newEnd))
	return newEnd, nil
}
