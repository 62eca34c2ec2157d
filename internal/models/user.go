// Package models содержит доменные структуры WorkNow: пользователи, вакансии,
// платежи и системные сообщения, а также DTO для приёма данных из JSON-запросов.
package models

import "time"

// User представляет пользователя WorkNow. Учётная запись создаётся внешним
// identity-провайдером (Clerk), ClerkUserID — уникальный внешний ключ.
// Премиум-флаги мутируются обработчиками активации и автопродления.
type User struct {
	ID                   string     // Внутренний идентификатор (uuid)
	ClerkUserID          string     // Идентификатор у identity-провайдера (уникальный)
	Email                string     // Электронная почта
	FirstName            string     // Имя
	LastName             string     // Фамилия
	ImageURL             string     // Аватар из identity-провайдера
	IsPremium            bool       // Активна ли премиум-подписка
	PremiumEndsAt        *time.Time // Дата окончания премиума, nil если не покупался
	IsAutoRenewal        bool       // Включено ли автопродление
	StripeSubscriptionID *string    // Идентификатор подписки в Stripe
	StripeCustomerID     *string    // Идентификатор клиента в Stripe
	PremiumDeluxe        bool       // Тариф Deluxe
	CreatedAt            time.Time
}

// Profile — объединённый профиль для отдачи клиенту: локальные премиум-флаги
// плюс свежие данные identity-провайдера при просмотре собственного профиля.
type Profile struct {
	ClerkUserID   string     `json:"clerk_user_id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	ImageURL      string     `json:"image_url"`
	IsPremium     bool       `json:"is_premium"`
	PremiumDeluxe bool       `json:"premium_deluxe"`
	IsAutoRenewal bool       `json:"is_auto_renewal"`
	PremiumEndsAt *time.Time `json:"premium_ends_at,omitempty"`
}
