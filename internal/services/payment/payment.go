// Package payment содержит бизнес-логику истории платежей: локальный журнал
// и чтение инвойсов из биллинг-провайдера.
package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/worknowjob/worknow-api/internal/billing"
	"github.com/worknowjob/worknow-api/internal/lib/sl"
	"github.com/worknowjob/worknow-api/internal/models"
)

// Тип записи по умолчанию для инвойса без описания строки.
const defaultStripePaymentType = "Premium"

// ErrUserNotFound возвращается, когда пользователь не найден в хранилище.
var ErrUserNotFound = errors.New("user not found")

// Storage определяет методы хранилища, нужные сервису платежей.
type Storage interface {
	GetUserByClerkID(ctx context.Context, clerkUserID string) (*models.User, error)
	CreatePayment(ctx context.Context, payment models.Payment) (int, error)
	ListPayments(ctx context.Context, clerkUserID string) ([]*models.Payment, error)
	UpdateStripeCustomerID(ctx context.Context, clerkUserID, customerID string) error
}

// Biller определяет чтение данных из биллинг-провайдера.
type Biller interface {
	FindCustomerByEmail(ctx context.Context, email string) (string, error)
	ListInvoices(ctx context.Context, customerID string, limit int64) ([]*billing.Invoice, error)
}

// Service реализует бизнес-логику истории платежей.
type Service struct {
	storage Storage
	biller  Biller
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(storage Storage, biller Biller, log *slog.Logger) *Service {
	return &Service{storage: storage, biller: biller, log: log}
}

// Add добавляет запись в локальный журнал платежей. Дата принимается
// в RFC3339 или как "2006-01-02".
func (s *Service) Add(ctx context.Context, req models.DummyPayment) (int, error) {
	const op = "payment.Add"

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return 0, fmt.Errorf("invalid date: %w", err)
		}
	}

	id, err := s.storage.CreatePayment(ctx, models.Payment{
		ClerkUserID: req.ClerkUserID,
		Month:       req.Month,
		Amount:      req.Amount,
		Type:        req.Type,
		Date:        date,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("payment recorded", slog.Int("id", id), slog.String("clerk_user_id", req.ClerkUserID))
	return id, nil
}

// List возвращает локальный журнал платежей пользователя, новые первыми.
func (s *Service) List(ctx context.Context, clerkUserID string) ([]*models.Payment, error) {
	const op = "payment.List"

	payments, err := s.storage.ListPayments(ctx, clerkUserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}

// StripeHistory возвращает последние инвойсы пользователя у биллинг-провайдера.
// Идентификатор клиента берётся из профиля, при его отсутствии ищется по email
// и сохраняется на будущее. Пользователь без клиента у провайдера получает
// пустую историю.
func (s *Service) StripeHistory(ctx context.Context, clerkUserID string, limit int64) ([]*models.StripePayment, error) {
	const op = "payment.StripeHistory"

	user, err := s.storage.GetUserByClerkID(ctx, clerkUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var customerID string
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		customerID = *user.StripeCustomerID
	} else {
		customerID, err = s.biller.FindCustomerByEmail(ctx, user.Email)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if customerID == "" {
			return []*models.StripePayment{}, nil
		}
		if err := s.storage.UpdateStripeCustomerID(ctx, clerkUserID, customerID); err != nil {
			s.log.Warn("failed to store stripe customer id", sl.Err(err))
		}
	}

	invoices, err := s.biller.ListInvoices(ctx, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*models.StripePayment, 0, len(invoices))
	for _, inv := range invoices {
		p := &models.StripePayment{
			ID:          inv.ID,
			Amount:      float64(inv.AmountPaid) / 100,
			Currency:    inv.Currency,
			Date:        time.Unix(inv.Created, 0),
			Status:      inv.Status,
			Description: inv.Description,
			Type:        defaultStripePaymentType,
		}
		if inv.PeriodStart > 0 {
			period := time.Unix(inv.PeriodStart, 0)
			p.Period = &period
		}
		if inv.LineDescription != "" {
			p.Type = inv.LineDescription
		}
		result = append(result, p)
	}
	return result, nil
}
