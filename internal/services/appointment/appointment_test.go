package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/salon-booking/internal/models"
)

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) CreateAppointment(ctx context.Context, a models.Appointment) (int, error) {
	args := m.Called(ctx, a)
	return args.Int(0), args.Error(1)
}

func (m *MockAppointmentRepository) GetAppointment(ctx context.Context, id int, businessUID string) (*models.Appointment, error) {
	args := m.Called(ctx, id, businessUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListAppointments(ctx context.Context, businessUID string, limit, offset int) ([]*models.Appointment, error) {
	args := m.Called(ctx, businessUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateAppointmentStatus(ctx context.Context, id int, businessUID, status string) (int, error) {
	args := m.Called(ctx, id, businessUID, status)
	return args.Int(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestAppointmentService_Create(t *testing.T) {
	futureDate := time.Now().UTC().Add(72 * time.Hour).Format(DateLayout)

	tests := []struct {
		name       string
		req        models.DummyAppointment
		setupMocks func(*MockAppointmentRepository, *MockCache)
		wantErr    bool
		wantID     int
	}{
		{
			name: "success",
			req: models.DummyAppointment{
				ClientName:  "Анна",
				ClientEmail: "anna@example.com",
				ServiceID:   1,
				Date:        futureDate,
			},
			setupMocks: func(r *MockAppointmentRepository, c *MockCache) {
				r.On("CreateAppointment", mock.Anything, mock.MatchedBy(func(a models.Appointment) bool {
					return a.Status == models.AppointmentStatusPending &&
						a.BusinessUID == "business123" &&
						a.ClientEmail == "anna@example.com"
				})).Return(42, nil).Once()
				c.On("Set", "appointment:business123:42", mock.Anything, time.Hour).Return(nil).Once()
			},
			wantID: 42,
		},
		{
			name: "invalid date format",
			req: models.DummyAppointment{
				ClientName:  "Анна",
				ClientEmail: "anna@example.com",
				ServiceID:   1,
				Date:        "2026-01-01",
			},
			setupMocks: func(_ *MockAppointmentRepository, _ *MockCache) {},
			wantErr:    true,
		},
		{
			name: "date in the past",
			req: models.DummyAppointment{
				ClientName:  "Анна",
				ClientEmail: "anna@example.com",
				ServiceID:   1,
				Date:        "01-01-2020 12:00",
			},
			setupMocks: func(_ *MockAppointmentRepository, _ *MockCache) {},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAppointmentRepository)
			cache := new(MockCache)
			tt.setupMocks(repo, cache)
			service := NewAppointmentService(repo, cache, newNoopLogger())

			id, err := service.Create(context.Background(), "business123", tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestAppointmentService_Read_CacheMiss(t *testing.T) {
	appointment := &models.Appointment{
		ID:          42,
		BusinessUID: "business123",
		ClientName:  "Анна",
		Status:      models.AppointmentStatusPending,
	}

	repo := new(MockAppointmentRepository)
	cache := new(MockCache)
	cache.On("Get", "appointment:business123:42", mock.Anything).Return(false, nil).Once()
	repo.On("GetAppointment", mock.Anything, 42, "business123").Return(appointment, nil).Once()
	cache.On("Set", "appointment:business123:42", appointment, time.Hour).Return(nil).Once()

	service := NewAppointmentService(repo, cache, newNoopLogger())
	got, err := service.Read(context.Background(), 42, "business123")
	require.NoError(t, err)
	assert.Equal(t, appointment, got)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestAppointmentService_Read_CacheHit(t *testing.T) {
	repo := new(MockAppointmentRepository)
	cache := new(MockCache)
	cache.On("Get", "appointment:business123:42", mock.Anything).Return(true, nil).Once()

	service := NewAppointmentService(repo, cache, newNoopLogger())
	_, err := service.Read(context.Background(), 42, "business123")
	require.NoError(t, err)
	repo.AssertNotCalled(t, "GetAppointment")
	cache.AssertExpectations(t)
}

func TestAppointmentService_Cancel(t *testing.T) {
	repo := new(MockAppointmentRepository)
	cache := new(MockCache)
	cache.On("Invalidate", "appointment:business123:42").Return(nil).Once()
	repo.On("UpdateAppointmentStatus", mock.Anything, 42, "business123",
		models.AppointmentStatusCancelled).Return(1, nil).Once()

	service := NewAppointmentService(repo, cache, newNoopLogger())
	count, err := service.Cancel(context.Background(), 42, "business123")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestAppointmentService_List(t *testing.T) {
	appointments := []*models.Appointment{
		{ID: 1, BusinessUID: "business123"},
		{ID: 2, BusinessUID: "business123"},
	}
	repo := new(MockAppointmentRepository)
	repo.On("ListAppointments", mock.Anything, "business123", 10, 0).Return(appointments, nil).Once()

	service := NewAppointmentService(repo, new(MockCache), newNoopLogger())
	got, err := service.List(context.Background(), "business123", 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	repo.AssertExpectations(t)
}

func TestAppointmentService_List_Error(t *testing.T) {
	repo := new(MockAppointmentRepository)
	repo.On("ListAppointments", mock.Anything, "business123", 10, 0).
		Return(nil, errors.New("db down")).Once()

	service := NewAppointmentService(repo, new(MockCache), newNoopLogger())
	_, err := service.List(context.Background(), "business123", 10, 0)
	assert.Error(t, err)
	repo.AssertExpectations(t)
}
