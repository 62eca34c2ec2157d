package models

import "time"

// Статусы вакансии.
const (
	JobStatusActive   = "ACTIVE"
	JobStatusInactive = "INACTIVE"
)

// Job представляет вакансию. CityName и CategoryName заполняются join-ом
// при чтении и не хранятся в таблице jobs.
type Job struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Salary       int        `json:"salary"`
	Phone        string     `json:"phone"`
	CityID       int        `json:"city_id"`
	CityName     string     `json:"city_name"`
	CategoryID   int        `json:"category_id"`
	CategoryName string     `json:"category_name"`
	UserID       string     `json:"-"`
	ClerkUserID  string     `json:"clerk_user_id"`
	Status       string     `json:"status"`
	ImageURL     *string    `json:"image_url,omitempty"`
	Shuttle      bool       `json:"shuttle"`
	Meals        bool       `json:"meals"`
	BoostedAt    *time.Time `json:"boosted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DummyJob используется для приёма данных вакансии из JSON-запроса.
// Числовые поля приходят строками (так их отправляет форма) и конвертируются
// вручную после валидации.
type DummyJob struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Salary      string `json:"salary" validate:"required,numeric"`
	CityID      string `json:"city_id" validate:"required,numeric"`
	CategoryID  string `json:"category_id" validate:"required,numeric"`
	Phone       string `json:"phone" validate:"required"`
	Shuttle     bool   `json:"shuttle"`
	Meals       bool   `json:"meals"`
	ImageURL    string `json:"image_url"`
}

// JobList — страница вакансий пользователя.
type JobList struct {
	Jobs        []*Job `json:"jobs"`
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	Total       int    `json:"total"`
}
