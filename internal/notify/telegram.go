// Package notify отправляет уведомления об активациях премиума в Telegram.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/worknowjob/worknow-api/internal/models"
)

// TelegramNotifier шлёт сообщение в служебный чат при покупке премиума.
type TelegramNotifier struct {
	bot    *tele.Bot
	chatID int64
	log    *slog.Logger
}

// NewTelegramNotifier создаёт бота и проверяет токен.
func NewTelegramNotifier(token string, chatID int64, log *slog.Logger) (*TelegramNotifier, error) {
	const op = "notify.NewTelegramNotifier"

	bot, err := tele.NewBot(tele.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		log:    log,
	}, nil
}

// PremiumActivated уведомляет служебный чат о новой премиум-подписке
// со списком вакансий пользователя.
func (n *TelegramNotifier) PremiumActivated(_ context.Context, user *models.User, jobs []*models.Job) error {
	const op = "notify.PremiumActivated"

	text := FormatPremiumActivated(user, jobs)
	if _, err := n.bot.Send(tele.ChatID(n.chatID), text, tele.ModeHTML); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n.log.Info("telegram notification sent", slog.String("clerk_user_id", user.ClerkUserID))
	return nil
}

// FormatPremiumActivated собирает HTML-текст уведомления.
func FormatPremiumActivated(user *models.User, jobs []*models.Job) string {
	var b strings.Builder

	b.WriteString("💎 <b>Новая премиум-подписка</b>\n")
	fmt.Fprintf(&b, "Пользователь: %s %s (%s)\n", user.FirstName, user.LastName, user.Email)
	if user.PremiumDeluxe {
		b.WriteString("Тариф: Premium Deluxe\n")
	} else {
		b.WriteString("Тариф: Premium\n")
	}

	if len(jobs) == 0 {
		b.WriteString("Объявлений нет")
		return b.String()
	}

	fmt.Fprintf(&b, "Объявления (%d):\n", len(jobs))
	for _, job := range jobs {
		fmt.Fprintf(&b, "• %s — %s, %d ₪\n", job.Title, job.CityName, job.Salary)
	}
	return strings.TrimRight(b.String(), "\n")
}
