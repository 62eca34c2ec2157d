package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/worknowjob/worknow-api/internal/models"
)

// GetUserByClerkID возвращает пользователя по его clerk_user_id.
// Если пользователь не найден, возвращается обёрнутый sql.ErrNoRows.
func (s *Storage) GetUserByClerkID(ctx context.Context, clerkUserID string) (*models.User, error) {
	const op = "storage.GetUserByClerkID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, clerk_user_id, email, first_name, last_name, image_url,
			      is_premium, premium_ends_at, is_auto_renewal,
			      stripe_subscription_id, stripe_customer_id, premium_deluxe, created_at
			  FROM users
			  WHERE clerk_user_id = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, clerkUserID)

	var premiumEndsAt sql.NullTime
	var subscriptionID, customerID sql.NullString
	if err := row.Scan(&u.ID, &u.ClerkUserID, &u.Email, &u.FirstName, &u.LastName,
		&u.ImageURL, &u.IsPremium, &premiumEndsAt, &u.IsAutoRenewal,
		&subscriptionID, &customerID, &u.PremiumDeluxe, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if premiumEndsAt.Valid {
		u.PremiumEndsAt = &premiumEndsAt.Time
	}
	if subscriptionID.Valid {
		u.StripeSubscriptionID = &subscriptionID.String
	}
	if customerID.Valid {
		u.StripeCustomerID = &customerID.String
	}
	return u, nil
}

// UpdatePremium выставляет премиум-флаги пользователя после оплаченной сессии.
func (s *Storage) UpdatePremium(ctx context.Context, clerkUserID string, premiumEndsAt time.Time,
	isAutoRenewal bool, stripeSubscriptionID *string, premiumDeluxe bool) error {
	const op = "storage.UpdatePremium"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_premium = TRUE,
			      premium_ends_at = $2,
			      is_auto_renewal = $3,
			      stripe_subscription_id = $4,
			      premium_deluxe = $5
			  WHERE clerk_user_id = $1`
	res, err := s.DB.ExecContext(ctx, query, clerkUserID, premiumEndsAt,
		isAutoRenewal, stripeSubscriptionID, premiumDeluxe)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}
	return nil
}

// SetAutoRenewal переключает локальный флаг автопродления.
func (s *Storage) SetAutoRenewal(ctx context.Context, clerkUserID string, enabled bool) error {
	const op = "storage.SetAutoRenewal"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET is_auto_renewal = $2 WHERE clerk_user_id = $1`
	if _, err := s.DB.ExecContext(ctx, query, clerkUserID, enabled); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateStripeCustomerID сохраняет найденный по email идентификатор клиента Stripe,
// чтобы не искать его повторно при следующих запросах истории.
func (s *Storage) UpdateStripeCustomerID(ctx context.Context, clerkUserID, customerID string) error {
	const op = "storage.UpdateStripeCustomerID"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET stripe_customer_id = $2 WHERE clerk_user_id = $1`
	if _, err := s.DB.ExecContext(ctx, query, clerkUserID, customerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
