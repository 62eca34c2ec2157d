package payment_test

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worknowjob/worknow-api/internal/billing"
	"github.com/worknowjob/worknow-api/internal/models"
	"github.com/worknowjob/worknow-api/internal/services/payment"
)

type mockStorage struct {
	GetUserFunc        func(ctx context.Context, clerkUserID string) (*models.User, error)
	CreatePaymentFunc  func(ctx context.Context, p models.Payment) (int, error)
	ListPaymentsFunc   func(ctx context.Context, clerkUserID string) ([]*models.Payment, error)
	UpdateCustomerFunc func(ctx context.Context, clerkUserID, customerID string) error
}

func (m *mockStorage) GetUserByClerkID(ctx context.Context, clerkUserID string) (*models.User, error) {
	return m.GetUserFunc(ctx, clerkUserID)
}

func (m *mockStorage) CreatePayment(ctx context.Context, p models.Payment) (int, error) {
	return m.CreatePaymentFunc(ctx, p)
}

func (m *mockStorage) ListPayments(ctx context.Context, clerkUserID string) ([]*models.Payment, error) {
	return m.ListPaymentsFunc(ctx, clerkUserID)
}

func (m *mockStorage) UpdateStripeCustomerID(ctx context.Context, clerkUserID, customerID string) error {
	return m.UpdateCustomerFunc(ctx, clerkUserID, customerID)
}

type mockBiller struct {
	FindCustomerFunc func(ctx context.Context, email string) (string, error)
	ListInvoicesFunc func(ctx context.Context, customerID string, limit int64) ([]*billing.Invoice, error)
}

func (m *mockBiller) FindCustomerByEmail(ctx context.Context, email string) (string, error) {
	return m.FindCustomerFunc(ctx, email)
}

func (m *mockBiller) ListInvoices(ctx context.Context, customerID string, limit int64) ([]*billing.Invoice, error) {
	return m.ListInvoicesFunc(ctx, customerID, limit)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func TestAdd(t *testing.T) {
	t.Run("accepts RFC3339 date", func(t *testing.T) {
		var got models.Payment
		storage := &mockStorage{
			CreatePaymentFunc: func(_ context.Context, p models.Payment) (int, error) {
				got = p
				return 3, nil
			},
		}
		svc := payment.New(storage, &mockBiller{}, makeLogger())

		id, err := svc.Add(context.Background(), models.DummyPayment{
			ClerkUserID: "user_1",
			Month:       "Август 2026",
			Amount:      99,
			Type:        "Premium",
			Date:        "2026-08-01T10:00:00Z",
		})
		require.NoError(t, err)
		assert.Equal(t, 3, id)
		assert.Equal(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), got.Date)
	})

	t.Run("accepts plain date", func(t *testing.T) {
		storage := &mockStorage{
			CreatePaymentFunc: func(_ context.Context, p models.Payment) (int, error) {
				assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), p.Date)
				return 1, nil
			},
		}
		svc := payment.New(storage, &mockBiller{}, makeLogger())

		_, err := svc.Add(context.Background(), models.DummyPayment{
			ClerkUserID: "user_1", Month: "Август 2026", Amount: 99,
			Type: "Premium", Date: "2026-08-01",
		})
		require.NoError(t, err)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		storage := &mockStorage{
			CreatePaymentFunc: func(context.Context, models.Payment) (int, error) {
				t.Fatal("malformed date must not reach storage")
				return 0, nil
			},
		}
		svc := payment.New(storage, &mockBiller{}, makeLogger())

		_, err := svc.Add(context.Background(), models.DummyPayment{
			ClerkUserID: "user_1", Month: "Август 2026", Amount: 99,
			Type: "Premium", Date: "01.08.2026",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date")
	})
}

func TestStripeHistory(t *testing.T) {
	t.Run("user not found", func(t *testing.T) {
		storage := &mockStorage{
			GetUserFunc: func(context.Context, string) (*models.User, error) {
				return nil, fmt.Errorf("storage.GetUserByClerkID: %w", sql.ErrNoRows)
			},
		}
		svc := payment.New(storage, &mockBiller{}, makeLogger())

		_, err := svc.StripeHistory(context.Background(), "user_missing", 10)
		require.ErrorIs(t, err, payment.ErrUserNotFound)
	})

	t.Run("no stripe customer yields empty history", func(t *testing.T) {
		storage := &mockStorage{
			GetUserFunc: func(context.Context, string) (*models.User, error) {
				return &models.User{ClerkUserID: "user_1", Email: "ivan@example.com"}, nil
			},
		}
		biller := &mockBiller{
			FindCustomerFunc: func(_ context.Context, email string) (string, error) {
				assert.Equal(t, "ivan@example.com", email)
				return "", nil
			},
			ListInvoicesFunc: func(context.Context, string, int64) ([]*billing.Invoice, error) {
				t.Fatal("invoices must not be listed without a customer")
				return nil, nil
			},
		}
		svc := payment.New(storage, biller, makeLogger())

		history, err := svc.StripeHistory(context.Background(), "user_1", 10)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("found customer id is stored for reuse", func(t *testing.T) {
		storedID := ""
		storage := &mockStorage{
			GetUserFunc: func(context.Context, string) (*models.User, error) {
				return &models.User{ClerkUserID: "user_1", Email: "ivan@example.com"}, nil
			},
			UpdateCustomerFunc: func(_ context.Context, _ string, customerID string) error {
				storedID = customerID
				return nil
			},
		}
		biller := &mockBiller{
			FindCustomerFunc: func(context.Context, string) (string, error) {
				return "cus_42", nil
			},
			ListInvoicesFunc: func(_ context.Context, customerID string, limit int64) ([]*billing.Invoice, error) {
				assert.Equal(t, "cus_42", customerID)
				assert.Equal(t, int64(10), limit)
				return nil, nil
			},
		}
		svc := payment.New(storage, biller, makeLogger())

		_, err := svc.StripeHistory(context.Background(), "user_1", 10)
		require.NoError(t, err)
		assert.Equal(t, "cus_42", storedID)
	})

	t.Run("maps invoices to payments", func(t *testing.T) {
		customerID := "cus_42"
		storage := &mockStorage{
			GetUserFunc: func(context.Context, string) (*models.User, error) {
				return &models.User{ClerkUserID: "user_1", StripeCustomerID: &customerID}, nil
			},
		}
		created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		biller := &mockBiller{
			FindCustomerFunc: func(context.Context, string) (string, error) {
				t.Fatal("stored customer id must be reused")
				return "", nil
			},
			ListInvoicesFunc: func(context.Context, string, int64) ([]*billing.Invoice, error) {
				return []*billing.Invoice{
					{
						ID:              "in_1",
						AmountPaid:      9900,
						Currency:        "ils",
						Created:         created.Unix(),
						Status:          "paid",
						PeriodStart:     created.Unix(),
						LineDescription: "Premium Deluxe",
					},
					{ID: "in_2", AmountPaid: 4950, Currency: "ils", Created: created.Unix()},
				}, nil
			},
		}
		svc := payment.New(storage, biller, makeLogger())

		history, err := svc.StripeHistory(context.Background(), "user_1", 10)
		require.NoError(t, err)
		require.Len(t, history, 2)

		assert.Equal(t, 99.0, history[0].Amount)
		assert.Equal(t, "Premium Deluxe", history[0].Type)
		require.NotNil(t, history[0].Period)
		assert.Equal(t, created.Unix(), history[0].Period.Unix())

		assert.Equal(t, 49.5, history[1].Amount)
		assert.Equal(t, "Premium", history[1].Type)
		assert.Nil(t, history[1].Period)
	})
}
