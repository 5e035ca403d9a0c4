package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/salon-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/salon-booking/internal/lib/password"
	"github.com/magabrotheeeer/salon-booking/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) InitializeTrial(ctx context.Context, userUID string, start, end time.Time) error {
	args := m.Called(ctx, userUID, start, end)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockJWTMaker struct {
	mock.Mock
}

func (m *MockJWTMaker) GenerateToken(username, role, userUID string) (string, error) {
	args := m.Called(username, role, userUID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTMaker) ParseToken(tokenStr string) (*jwt.CustomClaims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.CustomClaims), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "owner@example.com" &&
			u.Username == "owner" &&
			u.Role == "user" &&
			u.BusinessName == "Салон Ромашка" &&
			u.Slug != ""
	})).Return("new-uid", nil).Once()
	repo.On("InitializeTrial", mock.Anything, "new-uid",
		mock.MatchedBy(func(start time.Time) bool { return !start.IsZero() }),
		mock.MatchedBy(func(end time.Time) bool { return end.After(time.Now().UTC()) }),
	).Run(func(args mock.Arguments) {
		start := args.Get(2).(time.Time)
		end := args.Get(3).(time.Time)
		assert.Equal(t, float64(14*24), end.Sub(start).Hours())
	}).Return(nil).Once()

	service := NewAuthService(repo, new(MockJWTMaker), 14)
	uid, err := service.Register(context.Background(), "owner@example.com", "owner", "password123", "Салон Ромашка")
	require.NoError(t, err)
	assert.Equal(t, "new-uid", uid)
	repo.AssertExpectations(t)
}

func TestAuthService_Register_TrialInitError(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("RegisterUser", mock.Anything, mock.Anything).Return("new-uid", nil).Once()
	repo.On("InitializeTrial", mock.Anything, "new-uid", mock.Anything, mock.Anything).
		Return(errors.New("db down")).Once()

	service := NewAuthService(repo, new(MockJWTMaker), 14)
	_, err := service.Register(context.Background(), "owner@example.com", "owner", "password123", "Салон Ромашка")
	assert.Error(t, err)
	repo.AssertExpectations(t)
}

func TestMakeSlug(t *testing.T) {
	tests := []struct {
		name         string
		businessName string
		wantPrefix   string
	}{
		{name: "latin name", businessName: "Beauty Studio", wantPrefix: "beauty-studio-"},
		{name: "extra symbols", businessName: "  Nail&Bar!  ", wantPrefix: "nail-bar-"},
		{name: "non-latin name falls back", businessName: "Ромашка", wantPrefix: "salon-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug := makeSlug(tt.businessName)
			assert.Contains(t, slug, tt.wantPrefix)
			assert.NotEqual(t, makeSlug(tt.businessName), slug, "slugs must be unique for the same name")
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := password.GetHash("correct-password")
	require.NoError(t, err)

	user := &models.User{
		UID:          "user123",
		Username:     "owner",
		PasswordHash: hashed,
		Role:         "user",
	}

	tests := []struct {
		name       string
		rawPass    string
		setupMocks func(*MockUserRepository, *MockJWTMaker)
		wantErr    error
		wantToken  string
	}{
		{
			name:    "success",
			rawPass: "correct-password",
			setupMocks: func(r *MockUserRepository, j *MockJWTMaker) {
				r.On("GetUserByUsername", mock.Anything, "owner").Return(user, nil).Once()
				j.On("GenerateToken", "owner", "user", "user123").Return("jwt-token", nil).Once()
			},
			wantToken: "jwt-token",
		},
		{
			name:    "wrong password",
			rawPass: "wrong-password",
			setupMocks: func(r *MockUserRepository, _ *MockJWTMaker) {
				r.On("GetUserByUsername", mock.Anything, "owner").Return(user, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "unknown user",
			rawPass: "correct-password",
			setupMocks: func(r *MockUserRepository, _ *MockJWTMaker) {
				r.On("GetUserByUsername", mock.Anything, "owner").
					Return(nil, errors.New("not found")).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			maker := new(MockJWTMaker)
			tt.setupMocks(repo, maker)
			service := NewAuthService(repo, maker, 14)

			token, role, err := service.Login(context.Background(), "owner", tt.rawPass)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, "user", role)
			}
			repo.AssertExpectations(t)
			maker.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	maker := new(MockJWTMaker)
	maker.On("ParseToken", "valid-token").Return(&jwt.CustomClaims{
		Username: "owner",
		Role:     "user",
		UserUID:  "user123",
	}, nil).Once()
	maker.On("ParseToken", "bad-token").Return(nil, errors.New("invalid token")).Once()

	service := NewAuthService(new(MockUserRepository), maker, 14)

	user, role, valid, err := service.ValidateToken(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, "user", role)
	assert.Equal(t, "user123", user.UID)

	_, _, valid, err = service.ValidateToken(context.Background(), "bad-token")
	assert.Error(t, err)
	assert.False(t, valid)
	maker.AssertExpectations(t)
}
