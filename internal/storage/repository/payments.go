package repository

import (
	"context"
	"fmt"

	"github.com/worknowjob/worknow-api/internal/models"
)

// CreatePayment добавляет запись в локальную историю платежей и возвращает её ID.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO payments (clerk_user_id, month, amount, type, date)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		payment.ClerkUserID, payment.Month, payment.Amount, payment.Type,
		payment.Date).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPayments возвращает все платежи пользователя по дате в обратном порядке.
func (s *Storage) ListPayments(ctx context.Context, clerkUserID string) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, clerk_user_id, month, amount, type, date
			  FROM payments
			  WHERE clerk_user_id = $1
			  ORDER BY date DESC`
	rows, err := s.DB.QueryContext(ctx, query, clerkUserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		if err = rows.Scan(&p.ID, &p.ClerkUserID, &p.Month, &p.Amount,
			&p.Type, &p.Date); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
