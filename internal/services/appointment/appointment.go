// Package services содержит бизнес-логику работы с записями клиентов,
// включая кеширование.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// DateLayout — формат даты и времени визита в JSON-запросах.
const DateLayout = "02-01-2006 15:04"

// AppointmentRepository определяет методы для работы с записями в хранилище.
type AppointmentRepository interface {
	// CreateAppointment добавляет новую запись и возвращает её ID.
	CreateAppointment(ctx context.Context, a models.Appointment) (int, error)
	// GetAppointment возвращает запись по ID в рамках бизнеса.
	GetAppointment(ctx context.Context, id int, businessUID string) (*models.Appointment, error)
	// ListAppointments возвращает записи бизнеса с пагинацией.
	ListAppointments(ctx context.Context, businessUID string, limit, offset int) ([]*models.Appointment, error)
	// UpdateAppointmentStatus переводит запись в новый статус.
	UpdateAppointmentStatus(ctx context.Context, id int, businessUID, status string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// AppointmentService реализует бизнес-логику работы с записями клиентов.
type AppointmentService struct {
	repo  AppointmentRepository
	cache Cache
	log   *slog.Logger
}

// NewAppointmentService создает новый экземпляр AppointmentService.
func NewAppointmentService(repo AppointmentRepository, cache Cache, log *slog.Logger) *AppointmentService {
	return &AppointmentService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create создает новую запись клиента в статусе pending и возвращает её ID.
func (s *AppointmentService) Create(ctx context.Context, businessUID string, req models.DummyAppointment) (int, error) {
	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return 0, fmt.Errorf("invalid appointment date: %w", err)
	}
	if date.Before(time.Now().UTC()) {
		return 0, fmt.Errorf("appointment date must not be in the past")
	}

	appointment := models.Appointment{
		BusinessUID: businessUID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ServiceID:   req.ServiceID,
		EmployeeID:  req.EmployeeID,
		Date:        date,
		Status:      models.AppointmentStatusPending,
	}

	id, err := s.repo.CreateAppointment(ctx, appointment)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new appointment", slog.Int("id", id))

	cacheKey := fmt.Sprintf("appointment:%s:%d", businessUID, id)
	if err := s.cache.Set(cacheKey, appointment, time.Hour); err != nil {
		s.log.Warn("failed to cache appointment", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return id, nil
}

// Read возвращает запись по ID, используя кеш или репозиторий.
func (s *AppointmentService) Read(ctx context.Context, id int, businessUID string) (*models.Appointment, error) {
	var result *models.Appointment
	cacheKey := fmt.Sprintf("appointment:%s:%d", businessUID, id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetAppointment(ctx, id, businessUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// List возвращает записи бизнеса с пагинацией, новые первыми.
func (s *AppointmentService) List(ctx context.Context, businessUID string, limit, offset int) ([]*models.Appointment, error) {
	return s.repo.ListAppointments(ctx, businessUID, limit, offset)
}

// Cancel переводит запись в статус cancelled и инвалидирует кеш.
// Возвращает количество обновленных записей.
func (s *AppointmentService) Cancel(ctx context.Context, id int, businessUID string) (int, error) {
	cacheKey := fmt.Sprintf("appointment:%s:%d", businessUID, id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return s.repo.UpdateAppointmentStatus(ctx, id, businessUID, models.AppointmentStatusCancelled)
}

// Complete помечает визит состоявшимся.
func (s *AppointmentService) Complete(ctx context.Context, id int, businessUID string) (int, error) {
	cacheKey := fmt.Sprintf("appointment:%s:%d", businessUID, id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return s.repo.UpdateAppointmentStatus(ctx, id, businessUID, models.AppointmentStatusCompleted)
}
