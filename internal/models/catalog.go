package models

// Service представляет услугу салона (стрижка, маникюр и т.д.).
type Service struct {
	ID              int    // Идентификатор услуги
	BusinessUID     string // UID владельца бизнеса
	Name            string // Название услуги
	Price           int    // Цена в минимальных единицах валюты
	DurationMinutes int    // Длительность в минутах
	IsActive        bool   // Показывается ли услуга на публичной странице
}

// DummyService используется для приёма данных услуги из JSON-запроса.
type DummyService struct {
	Name            string `json:"name" validate:"required"`
	Price           int    `json:"price" validate:"required,gt=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
}

// Employee представляет сотрудника салона. Запись клиента может
// ссылаться на сотрудника, но может существовать и без него.
type Employee struct {
	ID          int    // Идентификатор сотрудника
	BusinessUID string // UID владельца бизнеса
	Name        string // Имя сотрудника
	Email       string // Почта сотрудника
	IsActive    bool   // Работает ли сотрудник сейчас
}

// DummyEmployee используется для приёма данных сотрудника из JSON-запроса.
type DummyEmployee struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}
