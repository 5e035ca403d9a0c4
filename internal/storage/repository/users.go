package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/salon-booking/internal/lib/trialperiod"
	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// RegisterUser сохраняет новый аккаунт в базу данных и возвращает его UID.
// Поля пробного периода не трогает: их выставляет InitializeTrial.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, username, password_hash, role, business_name, slug)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role, user.BusinessName,
		user.Slug).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

const userColumns = `uid, email, username, password_hash, role, business_name, slug,
			      trial_start_date, trial_end_date, is_trial_active,
			      trial_expiration_notified, subscription_status,
			      subscription_plan, subscription_billing`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var trialStartDate, trialEndDate sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.BusinessName, &u.Slug, &trialStartDate, &trialEndDate, &u.IsTrialActive,
		&u.TrialExpirationNotified, &u.SubscriptionStatus,
		&u.SubscriptionPlan, &u.SubscriptionBilling); err != nil {
		return nil, err
	}
	if trialStartDate.Valid {
		u.TrialStartDate = &trialStartDate.Time
	}
	if trialEndDate.Valid {
		u.TrialEndDate = &trialEndDate.Time
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// InitializeTrial выставляет даты пробного периода пользователю.
// Вызывается один раз при создании аккаунта.
func (s *Storage) InitializeTrial(ctx context.Context, userUID string, start, end time.Time) error {
	const op = "storage.InitializeTrial"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET trial_start_date = $1,
			      trial_end_date = $2,
			      is_trial_active = TRUE,
			      trial_expiration_notified = FALSE,
			      subscription_status = $3
			  WHERE uid = $4`
	res, err := s.DB.ExecContext(ctx, query, start, end, models.SubscriptionStatusTrial, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// MarkTrialNotified помечает, что уведомление об истечении отправлено.
// Повторный вызов ничего не меняет.
func (s *Storage) MarkTrialNotified(ctx context.Context, userUID string) error {
	const op = "storage.MarkTrialNotified"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET trial_expiration_notified = TRUE
			  WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindTrialExpiringTomorrow находит пользователей, у которых пробный период
// заканчивается завтра и которые еще не получали уведомление.
func (s *Storage) FindTrialExpiringTomorrow(ctx context.Context) ([]*models.User, error) {
	const op = "storage.FindTrialExpiringTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE trial_end_date::DATE = CURRENT_DATE + 1
			    AND trial_expiration_notified = FALSE;`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ApplyPaymentApproved проводит одобренный платеж одной транзакцией:
// записывает платеж, продлевает срок доступа и переводит подписку в active.
// Идемпотентность обеспечивается уникальностью provider_payment_id —
// повторная доставка вебхука возвращает ErrDuplicatePayment и не продлевает
// срок второй раз. Срок считается по правилу trialperiod.NextEndDate.
func (s *Storage) ApplyPaymentApproved(ctx context.Context, payment models.Payment, durationDays int) (time.Time, error) {
	const op = "storage.ApplyPaymentApproved"
	select {
	case <-ctx.Done():
		return time.Time{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var paymentID int
	insertQuery := `INSERT INTO payments (user_uid, provider_payment_id, plan, billing,
			    amount_value, amount_currency)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (provider_payment_id) DO NOTHING
			RETURNING id`
	err = tx.QueryRowContext(ctx, insertQuery, payment.UserUID, payment.ProviderPaymentID,
		payment.Plan, payment.Billing, payment.AmountValue, payment.AmountCurrency).Scan(&paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%s: %w", op, ErrDuplicatePayment)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	var currentEnd sql.NullTime
	selectQuery := `SELECT trial_end_date FROM users WHERE uid = $1 FOR UPDATE`
	if err = tx.QueryRowContext(ctx, selectQuery, payment.UserUID).Scan(&currentEnd); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	var currentEndPtr *time.Time
	if currentEnd.Valid {
		currentEndPtr = &currentEnd.Time
	}
	newEnd := trialperiod.NextEndDate(currentEndPtr, time.Now().UTC(), durationDays)

	updateQuery := `UPDATE users
			    SET trial_end_date = $1,
			        is_trial_active = TRUE,
			        trial_expiration_notified = FALSE,
			        subscription_status = $2,
			        subscription_plan = $3,
			        subscription_billing = $4
			    WHERE uid = $5`
	if _, err = tx.ExecContext(ctx, updateQuery, newEnd, models.SubscriptionStatusActive,
		payment.Plan, payment.Billing, payment.UserUID); err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return newEnd, nil
}
