package models

// BusinessProfile — публичный профиль салона, показывается на
// странице записи по слагу.
type BusinessProfile struct {
	BusinessUID  string `json:"-"`
	Slug         string `json:"slug"`
	BusinessName string `json:"business_name"`
	Description  string `json:"description,omitempty"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// DummyProfile используется для приёма данных профиля из JSON-запроса.
type DummyProfile struct {
	Slug         string `json:"slug" validate:"required"`
	BusinessName string `json:"business_name" validate:"required"`
	Description  string `json:"description,omitempty" validate:"omitempty"`
	Address      string `json:"address,omitempty" validate:"omitempty"`
	Phone        string `json:"phone,omitempty" validate:"omitempty"`
}

// PublicProfile — профиль вместе с активными услугами для мини-лендинга.
type PublicProfile struct {
	Profile  BusinessProfile `json:"profile"`
	Services []*Service      `json:"services"`
}
