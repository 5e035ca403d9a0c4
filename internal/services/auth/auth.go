// Package services содержит логику регистрации, авторизации и валидации JWT.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/salon-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/salon-booking/internal/lib/password"
	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// InitializeTrial запускает пробный период созданному аккаунту.
	InitializeTrial(ctx context.Context, userUID string, start, end time.Time) error
	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users     UserRepository
	jwtMaker  jwt.Maker
	trialDays int
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, trialDays int) *AuthService {
	return &AuthService{
		users:     users,
		jwtMaker:  jwtMaker,
		trialDays: trialDays,
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// makeSlug строит слаг публичной страницы из названия салона. Суффикс
// из UID делает слаг уникальным при совпадающих названиях.
func makeSlug(businessName string) string {
	base := slugPattern.ReplaceAllString(strings.ToLower(businessName), "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "salon"
	}
	return base + "-" + uuid.New().String()[:8]
}

// Register создает нового владельца бизнеса с хэшированием пароля и
// дефолтной ролью "user", затем запускает ему пробный период.
// InitializeTrial — единственная точка старта пробного периода: вход
// через OAuth при первом логине пойдёт тем же путём.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword, businessName string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         "user", // дефолтная роль при регистрации
		BusinessName: businessName,
		Slug:         makeSlug(businessName),
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", err
	}

	trialStartDate := time.Now().UTC()
	trialEndDate := trialStartDate.AddDate(0, 0, s.trialDays)
	if err := s.users.InitializeTrial(ctx, uid, trialStartDate, trialEndDate); err != nil {
		return "", err
	}
	return uid, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает информацию о пользователе,
// роль и признак валидности.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, string, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, "", false, err
	}
	user := &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UID:      claims.UserUID,
	}
	return user, claims.Role, true, nil
}
