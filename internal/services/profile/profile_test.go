package profile_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worknowjob/worknow-api/internal/identity"
	"github.com/worknowjob/worknow-api/internal/models"
	"github.com/worknowjob/worknow-api/internal/services/profile"
)

type mockStorage struct {
	GetUserFunc      func(ctx context.Context, clerkUserID string) (*models.User, error)
	ListMessagesFunc func(ctx context.Context, clerkUserID string) ([]*models.Message, error)
}

func (m *mockStorage) GetUserByClerkID(ctx context.Context, clerkUserID string) (*models.User, error) {
	return m.GetUserFunc(ctx, clerkUserID)
}

func (m *mockStorage) ListMessages(ctx context.Context, clerkUserID string) ([]*models.Message, error) {
	return m.ListMessagesFunc(ctx, clerkUserID)
}

type mockIdentity struct {
	GetUserFunc func(ctx context.Context, userID string) (*identity.ClerkUser, error)
}

func (m *mockIdentity) GetUser(ctx context.Context, userID string) (*identity.ClerkUser, error) {
	return m.GetUserFunc(ctx, userID)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func localUser() *models.User {
	return &models.User{
		ClerkUserID: "user_1",
		Email:       "ivan@example.com",
		FirstName:   "Иван",
		LastName:    "Петров",
		ImageURL:    "https://img.local/u.png",
		IsPremium:   true,
	}
}

func TestGet(t *testing.T) {
	t.Run("own profile merges identity data", func(t *testing.T) {
		storage := &mockStorage{
			GetUserFunc: func(context.Context, string) (*models.User, error) {
				return localUser(), nil
			},
		}
		id := &mockIdentity{
			GetUserFunc: func(_ context.Context, userID string) (*identity.ClerkUser, error) {
				require.Equal(t, "user_1", userID)
				return &identity.ClerkUser{
					ID:        "user_1",
					FirstName: "Ivan",
					LastName:  "Petrov",
					ImageURL:  "https://img.clerk.com/u.png",
				}, nil
			},
		}

		svc := profile.New(storage, id, makeLogger())

		p, err := svc.Get(context.Background(), "user_1", true)
		require.NoError(t, err)
		assert.Equal(t, "Ivan", p.FirstName)
		assert.Equal(t, "https://img.clerk.com/u.png", p.ImageURL)
		assert.True(t, p.IsPremium)
		assert.Equal(t, "ivan@example.com", p.Email)
	})

	t.Run("identity failure falls back to local data", func(t *testing.T) {
		storage := &mockStorage{
			GetUserFunc: func(context.Context, string) (*models.User, error) {
				return localUser(), nil
			},
		}
		id := &mockIdentity{
			GetUserFunc: func(context.Context, string) (*identity.ClerkUser, error) {
				return nil, errors.New("clerk is down")
			},
		}

		svc := profile.New(storage, id, makeLogger())

		p, err := svc.Get(context.Background(), "user_1", true)
		require.NoError(t, err)
		assert.Equal(t, "Иван", p.FirstName)
		assert.Equal(t, "https://img.local/u.png", p.ImageURL)
	})

	t.Run("foreign profile skips identity provider", func(t *testing.T) {
		storage := &mockStorage{
			GetUserFunc: func(context.Context, string) (*models.User, error) {
				return localUser(), nil
			},
		}
		id := &mockIdentity{
			GetUserFunc: func(context.Context, string) (*identity.ClerkUser, error) {
				t.Fatal("identity provider must not be called for foreign profiles")
				return nil, nil
			},
		}

		svc := profile.New(storage, id, makeLogger())

		p, err := svc.Get(context.Background(), "user_1", false)
		require.NoError(t, err)
		assert.Equal(t, "Иван", p.FirstName)
	})
}
