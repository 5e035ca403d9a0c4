// Package services содержит бизнес-логику каталога салона: услуги,
// сотрудники, профиль бизнеса и публичная страница записи.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// CatalogRepository определяет методы для работы с каталогом в хранилище.
type CatalogRepository interface {
	CreateService(ctx context.Context, svc models.Service) (int, error)
	ListServices(ctx context.Context, businessUID string) ([]*models.Service, error)
	DeactivateService(ctx context.Context, id int, businessUID string) (int, error)
	CreateEmployee(ctx context.Context, e models.Employee) (int, error)
	ListEmployees(ctx context.Context, businessUID string) ([]*models.Employee, error)
	DeactivateEmployee(ctx context.Context, id int, businessUID string) (int, error)
	UpsertProfile(ctx context.Context, p models.BusinessProfile) error
	GetProfileBySlug(ctx context.Context, slug string) (*models.BusinessProfile, error)
	ListActiveServicesBySlug(ctx context.Context, slug string) ([]*models.Service, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CatalogService реализует операции каталога с кешированием публичной страницы.
type CatalogService struct {
	repo  CatalogRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo CatalogRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// CreateService добавляет услугу салона.
func (s *CatalogService) CreateService(ctx context.Context, businessUID string, req models.DummyService) (int, error) {
	svc := models.Service{
		BusinessUID:     businessUID,
		Name:            req.Name,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	}
	id, err := s.repo.CreateService(ctx, svc)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new service", slog.Int("id", id))
	return id, nil
}

// ListServices возвращает все услуги бизнеса.
func (s *CatalogService) ListServices(ctx context.Context, businessUID string) ([]*models.Service, error) {
	return s.repo.ListServices(ctx, businessUID)
}

// DeactivateService скрывает услугу с публичной страницы.
func (s *CatalogService) DeactivateService(ctx context.Context, id int, businessUID string) (int, error) {
	return s.repo.DeactivateService(ctx, id, businessUID)
}

// CreateEmployee добавляет сотрудника салона.
func (s *CatalogService) CreateEmployee(ctx context.Context, businessUID string, req models.DummyEmployee) (int, error) {
	e := models.Employee{
		BusinessUID: businessUID,
		Name:        req.Name,
		Email:       req.Email,
		IsActive:    true,
	}
	id, err := s.repo.CreateEmployee(ctx, e)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new employee", slog.Int("id", id))
	return id, nil
}

// ListEmployees возвращает всех сотрудников бизнеса.
func (s *CatalogService) ListEmployees(ctx context.Context, businessUID string) ([]*models.Employee, error) {
	return s.repo.ListEmployees(ctx, businessUID)
}

// DeactivateEmployee помечает сотрудника неработающим.
func (s *CatalogService) DeactivateEmployee(ctx context.Context, id int, businessUID string) (int, error) {
	return s.repo.DeactivateEmployee(ctx, id, businessUID)
}

// UpsertProfile создает или обновляет публичный профиль бизнеса
// и инвалидирует кеш публичной страницы.
func (s *CatalogService) UpsertProfile(ctx context.Context, businessUID string, req models.DummyProfile) error {
	profile := models.BusinessProfile{
		BusinessUID:  businessUID,
		Slug:         req.Slug,
		BusinessName: req.BusinessName,
		Description:  req.Description,
		Address:      req.Address,
		Phone:        req.Phone,
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return err
	}
	cacheKey := fmt.Sprintf("publicprofile:%s", req.Slug)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return nil
}

// GetPublicProfile возвращает публичную страницу записи по слагу:
// профиль бизнеса и его активные услуги. Страница кешируется, клиенты
// открывают её без авторизации.
func (s *CatalogService) GetPublicProfile(ctx context.Context, slug string) (*models.PublicProfile, error) {
	var result *models.PublicProfile
	cacheKey := fmt.Sprintf("publicprofile:%s", slug)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}

	profile, err := s.repo.GetProfileBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	services, err := s.repo.ListActiveServicesBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	result = &models.PublicProfile{
		Profile:  *profile,
		Services: services,
	}
	if err := s.cache.Set(cacheKey, result, 10*time.Minute); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}
