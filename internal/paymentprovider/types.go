package paymentprovider

// Amount — денежная сумма в формате провайдера.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Confirmation — способ подтверждения платежа. Используется redirect:
// пользователь уходит на страницу провайдера и возвращается по return_url.
type Confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

// CreatePaymentRequest — запрос на создание платежа.
// Metadata возвращается провайдером в вебхуке как есть, через неё
// платёж связывается с пользователем и тарифом.
type CreatePaymentRequest struct {
	Amount       Amount            `json:"amount"`
	Capture      bool              `json:"capture"`
	Confirmation Confirmation      `json:"confirmation"`
	Description  string            `json:"description,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// CreatePaymentResponse — ответ провайдера на создание платежа.
type CreatePaymentResponse struct {
	ID           string       `json:"id"`
	Status       string       `json:"status"`
	Amount       Amount       `json:"amount"`
	Confirmation Confirmation `json:"confirmation"`
}
