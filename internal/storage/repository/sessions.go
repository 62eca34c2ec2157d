package repository

import (
	"context"
	"fmt"
)

// MarkSessionProcessed помечает checkout-сессию обработанной. Возвращает true,
// если сессия помечена впервые. Конфликт по первичному ключу сериализует
// конкурентные активации одной и той же сессии.
func (s *Storage) MarkSessionProcessed(ctx context.Context, sessionID, clerkUserID string) (bool, error) {
	const op = "storage.MarkSessionProcessed"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO processed_checkout_sessions (session_id, clerk_user_id)
			  VALUES ($1, $2)
			  ON CONFLICT (session_id) DO NOTHING`
	res, err := s.DB.ExecContext(ctx, query, sessionID, clerkUserID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return count == 1, nil
}

// UnmarkSessionProcessed снимает отметку об обработке сессии. Вызывается,
// когда активация не дошла до записи премиум-флагов, чтобы повтор мог
// обработать сессию заново.
func (s *Storage) UnmarkSessionProcessed(ctx context.Context, sessionID string) error {
	const op = "storage.UnmarkSessionProcessed"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM processed_checkout_sessions WHERE session_id = $1`
	if _, err := s.DB.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
