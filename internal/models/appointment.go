package models

import "time"

// Статусы записи клиента. Записи никогда не удаляются физически,
// только переводятся между статусами.
const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusCompleted = "completed"
)

// Действия клиента по ссылке из письма подтверждения.
const (
	ConfirmationActionConfirm = "confirm"
	ConfirmationActionCancel  = "cancel"
)

// Appointment представляет запись клиента в салон.
// Непустой ConfirmationToken возможен только у записи в статусе pending
// с датой истечения токена в будущем; при использовании токена оба поля
// очищаются — токен одноразовый.
type Appointment struct {
	ID                      int        // Идентификатор записи
	BusinessUID             string     // UID владельца бизнеса
	ClientName              string     // Имя клиента
	ClientEmail             string     // Почта клиента для писем подтверждения
	ServiceID               int        // Услуга
	EmployeeID              *int       // Сотрудник (может быть не назначен)
	Date                    time.Time  // Дата и время визита
	Status                  string     // pending, confirmed, cancelled, completed
	ConfirmationToken       *string    // Одноразовый токен подтверждения
	ConfirmationTokenExpiry *time.Time // Срок действия токена
	ConfirmationEmailSentAt *time.Time // Когда отправлено письмо подтверждения
	ConfirmedByClient       bool       // Подтверждено ли самим клиентом
	ConfirmationMethod      *string    // Способ подтверждения (email)
}

// DummyAppointment используется для приёма данных из JSON-запроса
// на создание записи. Дата приходит строкой в формате 02-01-2006 15:04.
type DummyAppointment struct {
	ClientName  string `json:"client_name" validate:"required"`
	ClientEmail string `json:"client_email" validate:"required,email"`
	ServiceID   int    `json:"service_id" validate:"required"`
	EmployeeID  *int   `json:"employee_id,omitempty" validate:"omitempty"`
	Date        string `json:"date" validate:"required"`
}

// AppointmentSnapshot — данные записи для показа клиенту после
// подтверждения или отмены, без внутренних идентификаторов.
type AppointmentSnapshot struct {
	ID           int       `json:"id"`
	Status       string    `json:"status"`
	Date         time.Time `json:"date"`
	ServiceName  string    `json:"service"`
	EmployeeName string    `json:"employee,omitempty"`
	BusinessName string    `json:"business_name"`
}

// PendingConfirmation — запись, ожидающая выдачи токена подтверждения,
// вместе с данными, нужными для письма.
type PendingConfirmation struct {
	AppointmentID int
	Date          time.Time
	ClientEmail   string
	ClientName    string
	ServiceName   string
	EmployeeName  string
	BusinessName  string
}

// ConfirmationInfo — данные для письма со ссылками подтвердить/отменить,
// публикуются в очередь уведомлений.
type ConfirmationInfo struct {
	ClientEmail  string    `json:"client_email"`
	ClientName   string    `json:"client_name"`
	BusinessName string    `json:"business_name"`
	ServiceName  string    `json:"service_name"`
	EmployeeName string    `json:"employee_name,omitempty"`
	Date         time.Time `json:"date"`
	Token        string    `json:"token"`
}
