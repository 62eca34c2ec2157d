// Package profile собирает профиль пользователя из локальных премиум-флагов
// и свежих данных identity-провайдера, а также отдаёт системные сообщения.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/worknowjob/worknow-api/internal/identity"
	"github.com/worknowjob/worknow-api/internal/lib/sl"
	"github.com/worknowjob/worknow-api/internal/models"
)

// ErrUserNotFound возвращается, когда пользователь не найден в хранилище.
var ErrUserNotFound = errors.New("user not found")

// Storage определяет методы хранилища, нужные сервису профиля.
type Storage interface {
	GetUserByClerkID(ctx context.Context, clerkUserID string) (*models.User, error)
	ListMessages(ctx context.Context, clerkUserID string) ([]*models.Message, error)
}

// Identity определяет чтение пользователя из identity-провайдера.
type Identity interface {
	GetUser(ctx context.Context, userID string) (*identity.ClerkUser, error)
}

// Service реализует сборку профиля.
type Service struct {
	storage  Storage
	identity Identity
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(storage Storage, id Identity, log *slog.Logger) *Service {
	return &Service{storage: storage, identity: id, log: log}
}

// Get возвращает профиль пользователя. Для собственного профиля (own=true)
// имя, фамилия и аватар подтягиваются из identity-провайдера; при его
// недоступности используются локальные данные.
func (s *Service) Get(ctx context.Context, clerkUserID string, own bool) (*models.Profile, error) {
	const op = "profile.Get"

	user, err := s.storage.GetUserByClerkID(ctx, clerkUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p := &models.Profile{
		ClerkUserID:   user.ClerkUserID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		ImageURL:      user.ImageURL,
		IsPremium:     user.IsPremium,
		PremiumDeluxe: user.PremiumDeluxe,
		IsAutoRenewal: user.IsAutoRenewal,
		PremiumEndsAt: user.PremiumEndsAt,
	}

	if own && s.identity != nil {
		clerkUser, err := s.identity.GetUser(ctx, clerkUserID)
		if err != nil {
			s.log.Warn("failed to fetch fresh identity data, using local profile",
				slog.String("clerk_user_id", clerkUserID), sl.Err(err))
			return p, nil
		}
		p.FirstName = clerkUser.FirstName
		p.LastName = clerkUser.LastName
		p.ImageURL = clerkUser.ImageURL
		if email := clerkUser.Email(); email != "" {
			p.Email = email
		}
	}

	return p, nil
}

// Messages возвращает системные сообщения пользователя, новые первыми.
func (s *Service) Messages(ctx context.Context, clerkUserID string) ([]*models.Message, error) {
	const op = "profile.Messages"

	messages, err := s.storage.ListMessages(ctx, clerkUserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return messages, nil
}
