package checkout_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worknowjob/worknow-api/internal/http/handlers/premium/checkout"
	"github.com/worknowjob/worknow-api/internal/services/premium"
)

type mockService struct {
	CreateFunc func(ctx context.Context, clerkUserID, priceID string) (string, error)
}

func (m *mockService) CreateCheckoutSession(ctx context.Context, clerkUserID, priceID string) (string, error) {
	return m.CreateFunc(ctx, clerkUserID, priceID)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func TestCheckoutHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &mockService{
			CreateFunc: func(_ context.Context, clerkUserID, priceID string) (string, error) {
				require.Equal(t, "user_1", clerkUserID)
				require.Equal(t, "price_deluxe", priceID)
				return "https://checkout.stripe.com/cs_1", nil
			},
		}

		body := []byte(`{"clerk_user_id":"user_1","price_id":"price_deluxe"}`)
		req := httptest.NewRequest(http.MethodPost, "/premium/checkout", bytes.NewReader(body))
		w := httptest.NewRecorder()

		checkout.New(makeLogger(), service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "https://checkout.stripe.com/cs_1")
	})

	t.Run("missing clerk_user_id", func(t *testing.T) {
		service := &mockService{
			CreateFunc: func(context.Context, string, string) (string, error) {
				t.Fatal("service must not be called without clerk_user_id")
				return "", nil
			},
		}

		body := []byte(`{"price_id":"price_deluxe"}`)
		req := httptest.NewRequest(http.MethodPost, "/premium/checkout", bytes.NewReader(body))
		w := httptest.NewRecorder()

		checkout.New(makeLogger(), service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "clerk_user_id is required")
	})

	t.Run("unknown user", func(t *testing.T) {
		service := &mockService{
			CreateFunc: func(context.Context, string, string) (string, error) {
				return "", premium.ErrUserNotFound
			},
		}

		body := []byte(`{"clerk_user_id":"user_missing"}`)
		req := httptest.NewRequest(http.MethodPost, "/premium/checkout", bytes.NewReader(body))
		w := httptest.NewRecorder()

		checkout.New(makeLogger(), service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "user not found")
	})

	t.Run("provider error", func(t *testing.T) {
		service := &mockService{
			CreateFunc: func(context.Context, string, string) (string, error) {
				return "", errors.New("stripe is down")
			},
		}

		body := []byte(`{"clerk_user_id":"user_1"}`)
		req := httptest.NewRequest(http.MethodPost, "/premium/checkout", bytes.NewReader(body))
		w := httptest.NewRecorder()

		checkout.New(makeLogger(), service).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
