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

	"github.com/magabrotheeeer/salon-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/salon-booking/internal/models"
)

type MockConfirmationRepository struct {
	mock.Mock
}

func (m *MockConfirmationRepository) IssueConfirmationToken(ctx context.Context, id int, token string, expiry time.Time) (bool, error) {
	args := m.Called(ctx, id, token, expiry)
	return args.Bool(0), args.Error(1)
}

func (m *MockConfirmationRepository) ConsumeConfirmationToken(ctx context.Context, token, newStatus string, confirmedByClient bool) (*models.AppointmentSnapshot, error) {
	args := m.Called(ctx, token, newStatus, confirmedByClient)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AppointmentSnapshot), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestConfirmationService_Issue(t *testing.T) {
	date := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
	pending := &models.PendingConfirmation{
		AppointmentID: 42,
		Date:          date,
		ClientEmail:   "anna@example.com",
		ClientName:    "Анна",
		ServiceName:   "Стрижка",
		BusinessName:  "Beauty Studio",
	}

	repo := new(MockConfirmationRepository)
	publisher := new(MockPublisher)
	repo.On("IssueConfirmationToken", mock.Anything, 42,
		mock.MatchedBy(func(tok string) bool { return len(tok) == 64 }),
		date.Add(time.Hour)).Return(true, nil).Once()
	publisher.On("Publish", rabbitmq.RoutingKeyConfirmation,
		mock.MatchedBy(func(info models.ConfirmationInfo) bool {
			return info.ClientEmail == "anna@example.com" && info.Token != ""
		})).Return(nil).Once()

	service := NewConfirmationService(repo, publisher, newNoopLogger())
	err := service.Issue(context.Background(), pending)
	require.NoError(t, err)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestConfirmationService_Issue_AlreadyIssued(t *testing.T) {
	pending := &models.PendingConfirmation{
		AppointmentID: 42,
		Date:          time.Now().UTC().Add(60 * time.Hour),
		ClientEmail:   "anna@example.com",
	}

	repo := new(MockConfirmationRepository)
	publisher := new(MockPublisher)
	repo.On("IssueConfirmationToken", mock.Anything, 42, mock.Anything, mock.Anything).
		Return(false, nil).Once()

	service := NewConfirmationService(repo, publisher, newNoopLogger())
	err := service.Issue(context.Background(), pending)
	require.NoError(t, err)
	publisher.AssertNotCalled(t, "Publish")
	repo.AssertExpectations(t)
}

func TestConfirmationService_Consume(t *testing.T) {
	snapshot := &models.AppointmentSnapshot{
		ID:     42,
		Status: models.AppointmentStatusConfirmed,
	}

	tests := []struct {
		name       string
		action     string
		setupMocks func(*MockConfirmationRepository)
		wantErr    error
	}{
		{
			name:   "confirm action",
			action: "confirm",
			setupMocks: func(r *MockConfirmationRepository) {
				r.On("ConsumeConfirmationToken", mock.Anything, "token-abc",
					models.AppointmentStatusConfirmed, true).Return(snapshot, nil).Once()
			},
		},
		{
			name:   "cancel action does not mark confirmed by client",
			action: "cancel",
			setupMocks: func(r *MockConfirmationRepository) {
				r.On("ConsumeConfirmationToken", mock.Anything, "token-abc",
					models.AppointmentStatusCancelled, false).Return(snapshot, nil).Once()
			},
		},
		{
			name:       "unknown action",
			action:     "postpone",
			setupMocks: func(_ *MockConfirmationRepository) {},
			wantErr:    ErrInvalidAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockConfirmationRepository)
			tt.setupMocks(repo)
			service := NewConfirmationService(repo, new(MockPublisher), newNoopLogger())

			got, err := service.Consume(context.Background(), "token-abc", tt.action)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 42, got.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestConfirmationService_Consume_TokenNotFound(t *testing.T) {
	repo := new(MockConfirmationRepository)
	repo.On("ConsumeConfirmationToken", mock.Anything, "stale-token",
		models.AppointmentStatusConfirmed, true).
		Return(nil, errors.New("not found")).Once()

	service := NewConfirmationService(repo, new(MockPublisher), newNoopLogger())
	_, err := service.Consume(context.Background(), "stale-token", "confirm")
	assert.Error(t, err)
	repo.AssertExpectations(t)
}
