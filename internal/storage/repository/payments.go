package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/salon-booking/internal/models"
)

// ListPayments возвращает историю платежей пользователя, новые первыми.
func (s *Storage) ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, provider_payment_id, plan, billing,
			      amount_value, amount_currency, created_at
			  FROM payments
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		if err = rows.Scan(&p.ID, &p.UserUID, &p.ProviderPaymentID, &p.Plan,
			&p.Billing, &p.AmountValue, &p.AmountCurrency, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
