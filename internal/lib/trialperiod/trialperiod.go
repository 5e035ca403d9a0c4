// Package trialperiod содержит чистые функции расчёта состояния пробного
// периода и даты окончания доступа после оплаты. Вся датная арифметика
// движка подписки собрана здесь, чтобы её можно было проверить без базы.
package trialperiod

import (
	"math"
	"time"

	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// DefaultTrialDays — длительность пробного периода по умолчанию.
const DefaultTrialDays = 14

// Calculate возвращает состояние доступа пользователя на момент now.
//
// Если даты пробного периода не заполнены, пользователь считается активным
// с полным пробным периодом впереди. Так ведёт себя и продакшен: аккаунт
// без инициализации получает доступ по умолчанию. Менять это поведение
// без решения продукта нельзя — оно закреплено тестами.
func Calculate(u *models.User, now time.Time) models.TrialStatus {
	if u.TrialStartDate == nil || u.TrialEndDate == nil {
		return models.TrialStatus{
			IsActive:            true,
			DaysRemaining:       DefaultTrialDays,
			IsExpired:           false,
			ShouldNotify:        false,
			TrialEndDate:        nil,
			SubscriptionStatus:  u.SubscriptionStatus,
			SubscriptionPlan:    u.SubscriptionPlan,
			SubscriptionBilling: u.SubscriptionBilling,
		}
	}

	end := *u.TrialEndDate
	daysRemaining := int(math.Ceil(end.Sub(now).Hours() / 24))
	if daysRemaining < 0 {
		daysRemaining = 0
	}
	isExpired := !end.After(now)
	return models.TrialStatus{
		IsActive:            u.IsTrialActive && !isExpired,
		DaysRemaining:       daysRemaining,
		IsExpired:           isExpired,
		ShouldNotify:        daysRemaining == 1 && !u.TrialExpirationNotified,
		TrialEndDate:        u.TrialEndDate,
		SubscriptionStatus:  u.SubscriptionStatus,
		SubscriptionPlan:    u.SubscriptionPlan,
		SubscriptionBilling: u.SubscriptionBilling,
	}
}

// NextEndDate возвращает дату окончания доступа после одобренного платежа.
//
// Оплата до истечения текущего срока прибавляет длительность тарифа к нему
// (оставшееся время не сгорает); оплата после истечения отсчитывает
// длительность от now. Это правило монетизации, менять его нельзя.
func NextEndDate(current *time.Time, now time.Time, durationDays int) time.Time {
	if current != nil && current.After(now) {
		return current.AddDate(0, 0, durationDays)
	}
	return now.AddDate(0, 0, durationDays)
}
