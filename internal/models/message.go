package models

import "time"

// MessageTypeSystem — тип системного сообщения, создаваемого сервером.
const MessageTypeSystem = "system"

// Message — сообщение в личном кабинете пользователя. Создаётся как побочный
// эффект активации премиума; тело хранится в HTML.
type Message struct {
	ID          int       `json:"id"`
	ClerkUserID string    `json:"clerk_user_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Type        string    `json:"type"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// MessageEvent — событие для очереди отправки писем: продублировать
// системное сообщение на почту пользователя.
type MessageEvent struct {
	Email string `json:"email"`
	Title string `json:"title"`
	Body  string `json:"body"`
}
