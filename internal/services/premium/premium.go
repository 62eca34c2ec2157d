// Package premium содержит бизнес-логику премиум-подписок: создание
// checkout-сессий, активацию после оплаты и переключение автопродления.
package premium

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

// Срок действия премиума после оплаты одной checkout-сессии.
const premiumPeriod = 30 * 24 * time.Hour

// Лимит вакансий пользователя в уведомлении об активации.
const notifyJobsLimit = 100

var (
	// ErrUserNotFound возвращается, когда пользователь не найден в хранилище.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotPaid возвращается при попытке активировать неоплаченную сессию.
	ErrNotPaid = errors.New("checkout session is not paid")
	// ErrAlreadyDisabled возвращается при отключении уже выключенного автопродления.
	ErrAlreadyDisabled = errors.New("auto-renewal is already disabled")
	// ErrAlreadyEnabled возвращается при включении уже активного автопродления.
	ErrAlreadyEnabled = errors.New("auto-renewal is already enabled")
)

// Storage определяет методы хранилища, нужные сервису премиума.
type Storage interface {
	// GetUserByClerkID возвращает пользователя по его clerk_user_id.
	GetUserByClerkID(ctx context.Context, clerkUserID string) (*models.User, error)
	// UpdatePremium выставляет премиум-флаги пользователя.
	UpdatePremium(ctx context.Context, clerkUserID string, premiumEndsAt time.Time,
		isAutoRenewal bool, stripeSubscriptionID *string, premiumDeluxe bool) error
	// SetAutoRenewal переключает локальный флаг автопродления.
	SetAutoRenewal(ctx context.Context, clerkUserID string, enabled bool) error
	// MarkSessionProcessed помечает сессию обработанной, true — если впервые.
	MarkSessionProcessed(ctx context.Context, sessionID, clerkUserID string) (bool, error)
	// UnmarkSessionProcessed снимает отметку после неудачной активации.
	UnmarkSessionProcessed(ctx context.Context, sessionID string) error
	// CreateMessage сохраняет системное сообщение пользователя.
	CreateMessage(ctx context.Context, message models.Message) (int, error)
	// ListJobsByUser возвращает вакансии пользователя с пагинацией.
	ListJobsByUser(ctx context.Context, clerkUserID string, limit, offset int) ([]*models.Job, int, error)
}

// Biller определяет вызовы к биллинг-провайдеру.
type Biller interface {
	// CreateCheckoutSession создаёт hosted checkout сессию в режиме подписки.
	CreateCheckoutSession(ctx context.Context, email, priceID, successURL, cancelURL string,
		metadata map[string]string) (*billing.CheckoutSession, error)
	// RetrieveCheckoutSession перечитывает состояние сессии у провайдера.
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (*billing.CheckoutSession, error)
	// CancelAtPeriodEnd выключает автопродление подписки у провайдера.
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error
	// Catalog возвращает каталог тарифов.
	Catalog() billing.Catalog
}

// Identity определяет зеркалирование премиум-статуса в identity-провайдер.
type Identity interface {
	// UpdatePublicMetadata обновляет public_metadata пользователя.
	UpdatePublicMetadata(ctx context.Context, userID string, metadata map[string]any) error
}

// Notifier определяет уведомления об активациях премиума.
type Notifier interface {
	// PremiumActivated шлёт уведомление о новой премиум-подписке.
	PremiumActivated(ctx context.Context, user *models.User, jobs []*models.Job) error
}

// EventPublisher определяет публикацию событий системных сообщений в брокер.
type EventPublisher interface {
	// PublishEmail публикует событие в очередь писем.
	PublishEmail(event any) error
}

// Service реализует бизнес-логику премиум-подписок.
type Service struct {
	storage     Storage
	biller      Biller
	identity    Identity
	notifier    Notifier
	publisher   EventPublisher
	frontendURL string
	log         *slog.Logger
}

// New создает новый экземпляр Service. Notifier и publisher могут быть nil —
// соответствующие побочные эффекты тогда пропускаются.
func New(storage Storage, biller Biller, identity Identity, notifier Notifier,
	publisher EventPublisher, frontendURL string, log *slog.Logger) *Service {
	return &Service{
		storage:     storage,
		biller:      biller,
		identity:    identity,
		notifier:    notifier,
		publisher:   publisher,
		frontendURL: frontendURL,
		log:         log,
	}
}

// CreateCheckoutSession создаёт hosted checkout сессию для пользователя
// и возвращает redirect URL. Пустой priceID означает тариф по умолчанию.
func (s *Service) CreateCheckoutSession(ctx context.Context, clerkUserID, priceID string) (string, error) {
	const op = "premium.CreateCheckoutSession"

	user, err := s.storage.GetUserByClerkID(ctx, clerkUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if priceID == "" {
		priceID = s.biller.Catalog().DefaultPriceID()
	}

	successURL := s.frontendURL + "/success?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := s.frontendURL + "/cancel"
	metadata := map[string]string{
		"clerkUserId": clerkUserID,
		"priceId":     priceID,
	}

	sess, err := s.biller.CreateCheckoutSession(ctx, user.Email, priceID, successURL, cancelURL, metadata)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("checkout session created",
		slog.String("clerk_user_id", clerkUserID),
		slog.String("session_id", sess.ID))
	return sess.URL, nil
}

// Activate проверяет оплату checkout-сессии и активирует премиум: 30 дней
// срока, тариф по priceId из метаданных, системное сообщение, письмо через
// брокер, зеркалирование в identity-провайдер и уведомление в Telegram.
// Возвращает alreadyProcessed=true, если сессия была обработана ранее.
func (s *Service) Activate(ctx context.Context, sessionID string) (bool, error) {
	const op = "premium.Activate"

	sess, err := s.biller.RetrieveCheckoutSession(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if sess.PaymentStatus != billing.PaymentStatusPaid {
		return false, ErrNotPaid
	}

	clerkUserID := sess.Metadata["clerkUserId"]
	if clerkUserID == "" {
		return false, fmt.Errorf("%s: session %s has no clerkUserId metadata", op, sessionID)
	}

	user, err := s.storage.GetUserByClerkID(ctx, clerkUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	first, err := s.storage.MarkSessionProcessed(ctx, sessionID, clerkUserID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !first {
		s.log.Info("checkout session already processed", slog.String("session_id", sessionID))
		return true, nil
	}

	tier := s.biller.Catalog().Resolve(sess.Metadata["priceId"])
	deluxe := tier == billing.TierDeluxe
	isAutoRenewal := sess.SubscriptionID != ""
	var subscriptionID *string
	if isAutoRenewal {
		subscriptionID = &sess.SubscriptionID
	}
	premiumEndsAt := time.Now().Add(premiumPeriod)

	if err := s.storage.UpdatePremium(ctx, clerkUserID, premiumEndsAt,
		isAutoRenewal, subscriptionID, deluxe); err != nil {
		// Снимаем отметку, иначе повтор после сбоя навсегда вернёт
		// already_processed и премиум не будет выдан.
		if unmarkErr := s.storage.UnmarkSessionProcessed(ctx, sessionID); unmarkErr != nil {
			s.log.Warn("failed to unmark checkout session after activation failure",
				slog.String("session_id", sessionID), sl.Err(unmarkErr))
		}
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	user.IsPremium = true
	user.PremiumEndsAt = &premiumEndsAt
	user.IsAutoRenewal = isAutoRenewal
	user.PremiumDeluxe = deluxe

	s.log.Info("premium activated",
		slog.String("clerk_user_id", clerkUserID),
		slog.String("session_id", sessionID),
		slog.String("tier", tier.String()),
		slog.Bool("auto_renewal", isAutoRenewal))

	title, body := welcomeMessage(deluxe)
	if _, err := s.storage.CreateMessage(ctx, models.Message{
		ClerkUserID: clerkUserID,
		Title:       title,
		Body:        body,
		Type:        models.MessageTypeSystem,
	}); err != nil {
		s.log.Warn("failed to create welcome message", sl.Err(err))
	}

	if s.publisher != nil {
		event := models.MessageEvent{Email: user.Email, Title: title, Body: body}
		if err := s.publisher.PublishEmail(event); err != nil {
			s.log.Warn("failed to publish welcome email event", sl.Err(err))
		}
	}

	if s.identity != nil {
		metadata := map[string]any{
			"is_premium":     true,
			"premium_deluxe": deluxe,
		}
		if err := s.identity.UpdatePublicMetadata(ctx, clerkUserID, metadata); err != nil {
			s.log.Warn("failed to mirror premium status to identity provider", sl.Err(err))
		}
	}

	if s.notifier != nil {
		jobs, _, err := s.storage.ListJobsByUser(ctx, clerkUserID, notifyJobsLimit, 0)
		if err != nil {
			s.log.Warn("failed to list user jobs for notification", sl.Err(err))
		}
		if err := s.notifier.PremiumActivated(ctx, user, jobs); err != nil {
			s.log.Warn("failed to send telegram notification", sl.Err(err))
		}
	}

	return false, nil
}

// CancelAutoRenewal выключает автопродление: сначала у провайдера, затем
// локально. Локальный флаг сбрасывается только после успешного ответа
// провайдера, иначе подписка продолжала бы продлеваться при флаге "выключено".
// Пользователь без идентификатора подписки отключается только локально.
func (s *Service) CancelAutoRenewal(ctx context.Context, clerkUserID string) error {
	const op = "premium.CancelAutoRenewal"

	user, err := s.storage.GetUserByClerkID(ctx, clerkUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsAutoRenewal {
		return ErrAlreadyDisabled
	}

	if user.StripeSubscriptionID != nil && *user.StripeSubscriptionID != "" {
		if err := s.biller.CancelAtPeriodEnd(ctx, *user.StripeSubscriptionID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.storage.SetAutoRenewal(ctx, clerkUserID, false); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("auto-renewal disabled", slog.String("clerk_user_id", clerkUserID))
	return nil
}

// RenewAutoRenewal включает локальный флаг автопродления. Подписка на стороне
// провайдера не перевзводится: следующее продление создаст новую сессию.
func (s *Service) RenewAutoRenewal(ctx context.Context, clerkUserID string) error {
	const op = "premium.RenewAutoRenewal"

	user, err := s.storage.GetUserByClerkID(ctx, clerkUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.IsAutoRenewal {
		return ErrAlreadyEnabled
	}

	if err := s.storage.SetAutoRenewal(ctx, clerkUserID, true); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("auto-renewal enabled", slog.String("clerk_user_id", clerkUserID))
	return nil
}

// welcomeMessage возвращает заголовок и HTML-тело приветственного сообщения
// в зависимости от тарифа.
func welcomeMessage(deluxe bool) (string, string) {
	if deluxe {
		return "Добро пожаловать в Premium Deluxe!",
			"Ваш тариф Premium Deluxe активирован. Теперь вам доступны все " +
				"premium-функции сайта и персональный менеджер. Напишите нам: " +
				`<a href="mailto:peterbaikov12@gmail.com">peterbaikov12@gmail.com</a>`
	}
	return "Спасибо за покупку премиум-подписки на WorkNow!",
		"Ваша премиум-подписка активирована на 30 дней. Ваши вакансии будут " +
			"автоматически подниматься в топ, а объявления получат приоритет в выдаче. " +
			"Управлять подпиской можно в личном кабинете."
}
