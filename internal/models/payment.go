package models

import "time"

// Payment — неизменяемая запись об одобренном платеже.
// Создаётся только обработчиком вебхука платёжного провайдера.
// ProviderPaymentID уникален: повторная доставка вебхука не должна
// продлить подписку дважды.
type Payment struct {
	ID                int       `json:"id"`
	UserUID           string    `json:"user_uid"`
	ProviderPaymentID string    `json:"provider_payment_id"`
	Plan              string    `json:"plan"`
	Billing           string    `json:"billing"`
	AmountValue       string    `json:"amount_value"`
	AmountCurrency    string    `json:"amount_currency"`
	CreatedAt         time.Time `json:"created_at"`
}
