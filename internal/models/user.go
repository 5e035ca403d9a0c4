// Package models содержит доменные структуры сервиса онлайн-записи:
// владельцев бизнеса (салонов), их услуги, сотрудников, записи клиентов,
// платежи и публичный профиль. Здесь же определены вспомогательные типы
// для приёма данных из JSON-запросов.
package models

import "time"

// Статусы подписки владельца бизнеса.
const (
	SubscriptionStatusTrial  = "trial"
	SubscriptionStatusActive = "active"
)

// User представляет владельца бизнеса (салона), зарегистрированного в системе.
// Поля пробного периода читаются при каждом обращении к закрытым разделам.
type User struct {
	UID                     string     // Уникальный идентификатор пользователя
	Email                   string     // Электронная почта
	Username                string     // Имя пользователя (уникальное)
	PasswordHash            string     // Хэш пароля пользователя
	Role                    string     // Роль пользователя, admin или user
	BusinessName            string     // Название салона
	Slug                    string     // Слаг публичной страницы записи
	TrialStartDate          *time.Time // Дата начала пробного периода
	TrialEndDate            *time.Time // Дата окончания пробного периода или оплаченного доступа
	IsTrialActive           bool       // Флаг активности пробного периода
	TrialExpirationNotified bool       // Было ли отправлено уведомление об истечении
	SubscriptionStatus      string     // trial или active
	SubscriptionPlan        string     // Тарифный план (basic, pro)
	SubscriptionBilling     string     // Периодичность оплаты (monthly, yearly)
}

// TrialStatus — рассчитанное на текущий момент состояние доступа пользователя
// вместе с данными подписки для страницы оплаты.
type TrialStatus struct {
	IsActive            bool       `json:"is_active"`
	DaysRemaining       int        `json:"days_remaining"`
	IsExpired           bool       `json:"is_expired"`
	ShouldNotify        bool       `json:"should_notify"`
	TrialEndDate        *time.Time `json:"trial_end_date"`
	SubscriptionStatus  string     `json:"subscription_status"`
	SubscriptionPlan    string     `json:"subscription_plan"`
	SubscriptionBilling string     `json:"subscription_billing"`
}

// TrialInfo — данные для письма об истекающем пробном периоде,
// публикуются в очередь уведомлений.
type TrialInfo struct {
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	BusinessName string    `json:"business_name"`
	TrialEndDate time.Time `json:"trial_end_date"`
}
