package middlewarectx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/salon-booking/internal/models"
	trialservice "github.com/magabrotheeeer/salon-booking/internal/services/trial"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*models.User, string, bool, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Bool(2), args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.Bool(2), args.Error(3)
}

type MockTrialService struct {
	mock.Mock
}

func (m *MockTrialService) VerifyAccess(ctx context.Context, userUID string, feature models.Feature) error {
	args := m.Called(ctx, userUID, feature)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestJWTMiddleware(t *testing.T) {
	user := &models.User{UID: "user123", Username: "owner", Role: "user"}

	tests := []struct {
		name       string
		authHeader string
		setupMocks func(*MockAuthService)
		wantStatus int
	}{
		{
			name:       "valid token",
			authHeader: "Bearer valid-token",
			setupMocks: func(s *MockAuthService) {
				s.On("ValidateToken", mock.Anything, "valid-token").
					Return(user, "user", true, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			authHeader: "",
			setupMocks: func(_ *MockAuthService) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			setupMocks: func(s *MockAuthService) {
				s.On("ValidateToken", mock.Anything, "bad-token").
					Return(nil, "", false, errors.New("invalid token")).Once()
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockAuthService)
			tt.setupMocks(service)

			var gotUID string
			next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				gotUID, _ = r.Context().Value(UserUID).(string)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			JWTMiddleware(service, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "user123", gotUID)
			}
			service.AssertExpectations(t)
		})
	}
}

func TestTrialAccessMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		userUID    string
		setupMocks func(*MockTrialService)
		wantStatus int
	}{
		{
			name:    "active access",
			userUID: "user123",
			setupMocks: func(s *MockTrialService) {
				s.On("VerifyAccess", mock.Anything, "user123", models.FeatureCreateAppointments).
					Return(nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:    "expired access",
			userUID: "user123",
			setupMocks: func(s *MockTrialService) {
				s.On("VerifyAccess", mock.Anything, "user123", models.FeatureCreateAppointments).
					Return(trialservice.ErrAccessExpired).Once()
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:    "service error",
			userUID: "user123",
			setupMocks: func(s *MockTrialService) {
				s.On("VerifyAccess", mock.Anything, "user123", models.FeatureCreateAppointments).
					Return(errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "missing user uid",
			userUID:    "",
			setupMocks: func(_ *MockTrialService) {},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockTrialService)
			tt.setupMocks(service)

			next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), UserUID, tt.userUID))
			}
			rec := httptest.NewRecorder()

			TrialAccessMiddleware(newNoopLogger(), service, models.FeatureCreateAppointments)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			service.AssertExpectations(t)
		})
	}
}
