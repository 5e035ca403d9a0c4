package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, userUID, username, email, passwordHash, role, slug string) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, username, email, password_hash, role, slug)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		userUID, username, email, passwordHash, role, slug)
	require.NoError(t, err)
}

// CreateUserWithTrial создает пользователя с заполненными полями пробного периода
func (f *TestDataFactory) CreateUserWithTrial(t *testing.T, userUID, username, email, slug string,
	trialStart, trialEnd time.Time, isActive, notified bool, status string) {
	_, err := f.storage.DB.Exec(`INSERT INTO users
		(uid, username, email, password_hash, role, slug, trial_start_date, trial_end_date,
		 is_trial_active, trial_expiration_notified, subscription_status)
		VALUES ($1, $2, $3, 'hashedpassword', 'user', $4, $5, $6, $7, $8, $9)`,
		userUID, username, email, slug, trialStart, trialEnd, isActive, notified, status)
	require.NoError(t, err)
}

// CreateService создает тестовую услугу
func (f *TestDataFactory) CreateService(t *testing.T, businessUID, name string, price, durationMinutes int) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO services (business_uid, name, price, duration_minutes, is_active)
		VALUES ($1, $2, $3, $4, TRUE) RETURNING id`,
		businessUID, name, price, durationMinutes).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateEmployee создает тестового сотрудника
func (f *TestDataFactory) CreateEmployee(t *testing.T, businessUID, name, email string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO employees (business_uid, name, email, is_active)
		VALUES ($1, $2, $3, TRUE) RETURNING id`,
		businessUID, name, email).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateAppointment создает тестовую запись клиента
func (f *TestDataFactory) CreateAppointment(t *testing.T, businessUID string, serviceID int,
	employeeID *int, date time.Time, status string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO appointments
		(business_uid, client_name, client_email, service_id, employee_id, date, status)
		VALUES ($1, 'Test Client', 'client@example.com', $2, $3, $4, $5) RETURNING id`,
		businessUID, serviceID, employeeID, date, status).Scan(&id)
	require.NoError(t, err)
	return id
}
