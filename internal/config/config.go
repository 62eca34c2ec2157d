// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек приложения.
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	FrontendURL             string `yaml:"frontend_url" env-default:"https://worknowjob.com"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	Stripe                  `yaml:"stripe"`
	Clerk                   `yaml:"clerk"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	Telegram                `yaml:"telegram"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// Stripe — настройки биллинг-провайдера. Идентификаторы цен задают каталог
// тарифов: DefaultPriceID — обычный премиум, DeluxePriceID — Premium Deluxe.
type Stripe struct {
	StripeSecretKey string `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	DefaultPriceID  string `yaml:"default_price_id"`
	DeluxePriceID   string `yaml:"deluxe_price_id"`
}

// Clerk — настройки identity-провайдера. JWTPublicKey — PEM-ключ инстанса
// для локальной проверки session-токенов.
type Clerk struct {
	ClerkAPIURL    string `yaml:"api_url" env-default:"https://api.clerk.com/v1"`
	ClerkSecretKey string `yaml:"secret_key" env:"CLERK_SECRET_KEY"`
	JWTPublicKey   string `yaml:"jwt_public_key" env:"CLERK_JWT_PUBLIC_KEY"`
}

// RabbitMQ структура для настройки подключения к брокеру сообщений.
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"3s"`
}

// SMTP структура для настройки почтового транспорта воркера рассылки.
type SMTP struct {
	SMTPHost     string `yaml:"host"`
	SMTPPort     string `yaml:"port"`
	SMTPUser     string `yaml:"user"`
	SMTPPassword string `yaml:"password" env:"SMTP_PASSWORD"`
}

// Telegram структура для уведомлений об активациях премиума.
type Telegram struct {
	TelegramToken  string `yaml:"token" env:"TELEGRAM_TOKEN"`
	TelegramChatID int64  `yaml:"chat_id"`
}

// MustLoad загружает конфиг из файла, указанного в CONFIG_PATH.
// Завершает процесс при любой ошибке загрузки.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
