package models

import "time"

// Payment — запись локальной истории платежей. Журнал только пополняется,
// чтение идёт в обратном хронологическом порядке.
type Payment struct {
	ID          int       `json:"id"`
	ClerkUserID string    `json:"clerk_user_id"`
	Month       string    `json:"month"`
	Amount      int       `json:"amount"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
}

// DummyPayment используется для приёма платежа из JSON-запроса,
// дата приходит строкой и парсится вручную.
type DummyPayment struct {
	ClerkUserID string `json:"clerk_user_id" validate:"required"`
	Month       string `json:"month" validate:"required"`
	Amount      int    `json:"amount" validate:"required,gt=0"`
	Type        string `json:"type" validate:"required"`
	Date        string `json:"date" validate:"required"`
}

// StripePayment — упрощённое представление инвойса Stripe для истории платежей.
// Amount — в основных единицах валюты (инвойсы приходят в минорных).
type StripePayment struct {
	ID          string     `json:"id"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Date        time.Time  `json:"date"`
	Status      string     `json:"status"`
	Description string     `json:"description"`
	Period      *time.Time `json:"period,omitempty"`
	Type        string     `json:"type"`
}
