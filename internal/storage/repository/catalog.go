package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// CreateService добавляет услугу салона и возвращает её ID.
func (s *Storage) CreateService(ctx context.Context, svc models.Service) (int, error) {
	const op = "storage.CreateService"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int
	query := `INSERT INTO services (business_uid, name, price, duration_minutes, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		svc.BusinessUID, svc.Name, svc.Price, svc.DurationMinutes, svc.IsActive).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListServices возвращает все услуги бизнеса.
func (s *Storage) ListServices(ctx context.Context, businessUID string) ([]*models.Service, error) {
	const op = "storage.ListServices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, business_uid, name, price, duration_minutes, is_active
			  FROM services
			  WHERE business_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, businessUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Service
	for rows.Next() {
		svc := &models.Service{}
		if err = rows.Scan(&svc.ID, &svc.BusinessUID, &svc.Name, &svc.Price,
			&svc.DurationMinutes, &svc.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, svc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeactivateService скрывает услугу с публичной страницы. Услуги не
// удаляются: на них могут ссылаться существующие записи.
func (s *Storage) DeactivateService(ctx context.Context, id int, businessUID string) (int, error) {
	const op = "storage.DeactivateService"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE services
			  SET is_active = FALSE
			  WHERE id = $1 AND business_uid = $2`
	res, err := s.DB.ExecContext(ctx, query, id, businessUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// CreateEmployee добавляет сотрудника салона и возвращает его ID.
func (s *Storage) CreateEmployee(ctx context.Context, e models.Employee) (int, error) {
	const op = "storage.CreateEmployee"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int
	query := `INSERT INTO employees (business_uid, name, email, is_active)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		e.BusinessUID, e.Name, e.Email, e.IsActive).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListEmployees возвращает всех сотрудников бизнеса.
func (s *Storage) ListEmployees(ctx context.Context, businessUID string) ([]*models.Employee, error) {
	const op = "storage.ListEmployees"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, business_uid, name, email, is_active
			  FROM employees
			  WHERE business_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, businessUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Employee
	for rows.Next() {
		e := &models.Employee{}
		if err = rows.Scan(&e.ID, &e.BusinessUID, &e.Name, &e.Email, &e.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeactivateEmployee помечает сотрудника неработающим.
func (s *Storage) DeactivateEmployee(ctx context.Context, id int, businessUID string) (int, error) {
	const op = "storage.DeactivateEmployee"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE employees
			  SET is_active = FALSE
			  WHERE id = $1 AND business_uid = $2`
	res, err := s.DB.ExecContext(ctx, query, id, businessUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// UpsertProfile создает или обновляет публичный профиль бизнеса.
func (s *Storage) UpsertProfile(ctx context.Context, p models.BusinessProfile) error {
	const op = "storage.UpsertProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO business_profiles (business_uid, slug, business_name, description, address, phone)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (business_uid) DO UPDATE
			  SET business_name = EXCLUDED.business_name,
			      description = EXCLUDED.description,
			      address = EXCLUDED.address,
			      phone = EXCLUDED.phone`
	if _, err := s.DB.ExecContext(ctx, query, p.BusinessUID, p.Slug, p.BusinessName,
		p.Description, p.Address, p.Phone); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetProfileBySlug возвращает публичный профиль по слагу.
func (s *Storage) GetProfileBySlug(ctx context.Context, slug string) (*models.BusinessProfile, error) {
	const op = "storage.GetProfileBySlug"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT business_uid, slug, business_name, description, address, phone
			  FROM business_profiles
			  WHERE slug = $1`
	p := &models.BusinessProfile{}
	err := s.DB.QueryRowContext(ctx, query, slug).Scan(&p.BusinessUID, &p.Slug,
		&p.BusinessName, &p.Description, &p.Address, &p.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListActiveServicesBySlug возвращает активные услуги бизнеса по слагу
// профиля для публичной страницы записи.
func (s *Storage) ListActiveServicesBySlug(ctx context.Context, slug string) ([]*models.Service, error) {
	const op = "storage.ListActiveServicesBySlug"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.business_uid, s.name, s.price, s.duration_minutes, s.is_active
			  FROM services s
			  JOIN business_profiles p ON p.business_uid = s.business_uid
			  WHERE p.slug = $1 AND s.is_active = TRUE
			  ORDER BY s.id`
	rows, err := s.DB.QueryContext(ctx, query, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Service
	for rows.Next() {
		svc := &models.Service{}
		if err = rows.Scan(&svc.ID, &svc.BusinessUID, &svc.Name, &svc.Price,
			&svc.DurationMinutes, &svc.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, svc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
