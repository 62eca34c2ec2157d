package repository

import (
	"context"
	"fmt"

	"github.com/worknowjob/worknow-api/internal/models"
)

// CreateMessage сохраняет системное сообщение пользователя и возвращает его ID.
func (s *Storage) CreateMessage(ctx context.Context, message models.Message) (int, error) {
	const op = "storage.CreateMessage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO messages (clerk_user_id, title, body, type)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		message.ClerkUserID, message.Title, message.Body,
		message.Type).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListMessages возвращает сообщения пользователя, новые первыми.
func (s *Storage) ListMessages(ctx context.Context, clerkUserID string) ([]*models.Message, error) {
	const op = "storage.ListMessages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, clerk_user_id, title, body, type, is_read, created_at
			  FROM messages
			  WHERE clerk_user_id = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, clerkUserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err = rows.Scan(&m.ID, &m.ClerkUserID, &m.Title, &m.Body,
			&m.Type, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
