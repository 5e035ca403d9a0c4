package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// CreateAppointment добавляет новую запись клиента и возвращает её ID.
func (s *Storage) CreateAppointment(ctx context.Context, a models.Appointment) (int, error) {
	const op = "storage.CreateAppointment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int
	query := `INSERT INTO appointments (business_uid, client_name, client_email,
			      service_id, employee_id, date, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		a.BusinessUID, a.ClientName, a.ClientEmail, a.ServiceID, a.EmployeeID,
		a.Date, a.Status).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

const appointmentColumns = `id, business_uid, client_name, client_email, service_id,
			      employee_id, date, status, confirmation_token,
			      confirmation_token_expiry, confirmation_email_sent_at,
			      confirmed_by_client, confirmation_method`

func scanAppointment(row interface{ Scan(...any) error }) (*models.Appointment, error) {
	a := &models.Appointment{}
	var employeeID sql.NullInt64
	var token, method sql.NullString
	var tokenExpiry, emailSentAt sql.NullTime
	if err := row.Scan(&a.ID, &a.BusinessUID, &a.ClientName, &a.ClientEmail,
		&a.ServiceID, &employeeID, &a.Date, &a.Status, &token, &tokenExpiry,
		&emailSentAt, &a.ConfirmedByClient, &method); err != nil {
		return nil, err
	}
	if employeeID.Valid {
		id := int(employeeID.Int64)
		a.EmployeeID = &id
	}
	if token.Valid {
		a.ConfirmationToken = &token.String
	}
	if tokenExpiry.Valid {
		a.ConfirmationTokenExpiry = &tokenExpiry.Time
	}
	if emailSentAt.Valid {
		a.ConfirmationEmailSentAt = &emailSentAt.Time
	}
	if method.Valid {
		a.ConfirmationMethod = &method.String
	}
	return a, nil
}

// GetAppointment возвращает запись по ID в рамках бизнеса владельца.
func (s *Storage) GetAppointment(ctx context.Context, id int, businessUID string) (*models.Appointment, error) {
	const op = "storage.GetAppointment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + appointmentColumns + `
			  FROM appointments
			  WHERE id = $1 AND business_uid = $2`
	a, err := scanAppointment(s.DB.QueryRowContext(ctx, query, id, businessUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// ListAppointments возвращает записи бизнеса с пагинацией, новые первыми.
func (s *Storage) ListAppointments(ctx context.Context, businessUID string, limit, offset int) ([]*models.Appointment, error) {
	const op = "storage.ListAppointments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + appointmentColumns + `
			  FROM appointments
			  WHERE business_uid = $1
			  ORDER BY date DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, businessUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateAppointmentStatus переводит запись в новый статус и возвращает
// количество обновленных строк. Записи не удаляются физически.
func (s *Storage) UpdateAppointmentStatus(ctx context.Context, id int, businessUID, status string) (int, error) {
	const op = "storage.UpdateAppointmentStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE appointments
			  SET status = $1
			  WHERE id = $2 AND business_uid = $3`
	res, err := s.DB.ExecContext(ctx, query, status, id, businessUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(count), nil
}

// IssueConfirmationToken сохраняет токен подтверждения у записи и сразу
// помечает письмо отправленным. Условие confirmation_email_sent_at IS NULL
// гарантирует не более одной выдачи на запись, сколько бы раз ни запускался
// планировщик. Возвращает false, если токен уже выдавался.
func (s *Storage) IssueConfirmationToken(ctx context.Context, id int, token string, expiry time.Time) (bool, error) {
	const op = "storage.IssueConfirmationToken"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE appointments
			  SET confirmation_token = $1,
			      confirmation_token_expiry = $2,
			      confirmation_email_sent_at = now()
			  WHERE id = $3
			    AND status = $4
			    AND confirmation_email_sent_at IS NULL`
	res, err := s.DB.ExecContext(ctx, query, token, expiry, id, models.AppointmentStatusPending)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return count > 0, nil
}

// ConsumeConfirmationToken одним условным UPDATE гасит токен и переводит
// запись в новый статус. Два конкурентных запроса с одним токеном не могут
// оба увидеть успех: строка находится по ещё не очищенному токену.
// Возвращает ErrNotFound одинаково для истекшего, использованного и
// несуществующего токена.
func (s *Storage) ConsumeConfirmationToken(ctx context.Context, token, newStatus string, confirmedByClient bool) (*models.AppointmentSnapshot, error) {
	const op = "storage.ConsumeConfirmationToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `WITH updated AS (
			      UPDATE appointments
			      SET status = $2,
			          confirmed_by_client = $3,
			          confirmation_method = 'email',
			          confirmation_token = NULL,
			          confirmation_token_expiry = NULL
			      WHERE confirmation_token = $1
			        AND confirmation_token_expiry >= now()
			        AND status = $4
			      RETURNING id, status, date, service_id, employee_id, business_uid
			  )
			  SELECT u.id, u.status, u.date, s.name, COALESCE(e.name, ''), usr.business_name
			  FROM updated u
			  JOIN services s ON s.id = u.service_id
			  LEFT JOIN employees e ON e.id = u.employee_id
			  JOIN users usr ON usr.uid = u.business_uid`
	snapshot := &models.AppointmentSnapshot{}
	err := s.DB.QueryRowContext(ctx, query, token, newStatus, confirmedByClient,
		models.AppointmentStatusPending).Scan(&snapshot.ID, &snapshot.Status,
		&snapshot.Date, &snapshot.ServiceName, &snapshot.EmployeeName, &snapshot.BusinessName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return snapshot, nil
}

// FindAppointmentsPendingConfirmation возвращает pending-записи с датой
// визита в интервале [from, to), которым еще не отправлялось письмо
// подтверждения, вместе с данными для письма.
func (s *Storage) FindAppointmentsPendingConfirmation(ctx context.Context, from, to time.Time) ([]*models.PendingConfirmation, error) {
	const op = "storage.FindAppointmentsPendingConfirmation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT a.id, a.date, a.client_email, a.client_name,
			      s.name, COALESCE(e.name, ''), usr.business_name
			  FROM appointments a
			  JOIN services s ON s.id = a.service_id
			  LEFT JOIN employees e ON e.id = a.employee_id
			  JOIN users usr ON usr.uid = a.business_uid
			  WHERE a.status = $1
			    AND a.confirmation_email_sent_at IS NULL
			    AND a.date >= $2
			    AND a.date < $3`
	rows, err := s.DB.QueryContext(ctx, query, models.AppointmentStatusPending, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.PendingConfirmation
	for rows.Next() {
		p := &models.PendingConfirmation{}
		if err = rows.Scan(&p.AppointmentID, &p.Date, &p.ClientEmail, &p.ClientName,
			&p.ServiceName, &p.EmployeeName, &p.BusinessName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
