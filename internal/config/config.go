// Package config читает настройки сервисов из переменных окружения.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultOffersURL — адрес облачной функции offers по умолчанию.
const DefaultOffersURL = "https://functions.poehali.dev/91b850a5-b60e-4115-8c7c-6741a57cceb9"

// Board — настройки веб-доски предложений (cmd/main.go).
type Board struct {
	Host string `env:"HOST" envDefault:"127.0.0.1"`
	Port string `env:"PORT" envDefault:"8080"`

	OffersURL     string        `env:"OFFERS_URL" envDefault:"https://functions.poehali.dev/91b850a5-b60e-4115-8c7c-6741a57cceb9"`
	OffersTimeout time.Duration `env:"OFFERS_TIMEOUT" envDefault:"15s"`

	// Пароль админки. Если задан ADMIN_PASSWORD_HASH (bcrypt), сравниваем с ним.
	AdminPassword     string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	// Значение X-Admin-Auth для эндпоинта; по умолчанию совпадает с паролем.
	AdminToken string `env:"OFFERS_ADMIN_TOKEN"`

	// Сколько помнить принятые токены форм (защита от повторной отправки).
	SubmissionTTL time.Duration `env:"SUBMISSION_TTL" envDefault:"10m"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"12h"`
	HTTPS         bool          `env:"APP_HTTPS"`

	DefaultLang string `env:"DEFAULT_LANG" envDefault:"ru"`
}

// Addr — host:port для ListenAndServe.
func (c Board) Addr() string { return c.Host + ":" + c.Port }

// SharedSecret — значение заголовка X-Admin-Auth.
func (c Board) SharedSecret() string {
	if c.AdminToken != "" {
		return c.AdminToken
	}
	return c.AdminPassword
}

// API — настройки эндпоинта offers (cmd/offersapi).
type API struct {
	Host string `env:"HOST" envDefault:"127.0.0.1"`
	Port string `env:"PORT" envDefault:"8081"`

	AdminToken string `env:"OFFERS_ADMIN_TOKEN" envDefault:"admin123"`

	Database Database
}

func (c API) Addr() string { return c.Host + ":" + c.Port }

// Database — подключение к БД.
// Приоритет: DATABASE_URL > POSTGRES_DSN > сборка из отдельных переменных.
type Database struct {
	Driver string `env:"DB_DRIVER" envDefault:"postgres"`

	URL string `env:"DATABASE_URL"`
	DSN string `env:"POSTGRES_DSN"`

	Host     string `env:"POSTGRES_HOST" envDefault:"127.0.0.1"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	Name     string `env:"POSTGRES_DB" envDefault:"offers"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Для DB_DRIVER=sqlite
	Path string `env:"SQLITE_PATH" envDefault:"offers.db"`
}

// ConnString собирает строку подключения для выбранного драйвера.
// Пароль в логи не печатаем — для логов есть Describe.
func (d Database) ConnString() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	if d.URL != "" {
		return d.URL
	}
	if d.DSN != "" {
		return d.DSN
	}
	// lib/pq key=value формат
	parts := []string{
		"host=" + d.Host,
		"port=" + d.Port,
		"user=" + d.User,
		"dbname=" + d.Name,
		"sslmode=" + d.SSLMode,
	}
	if d.Password != "" {
		parts = append(parts, "password="+d.Password)
	}
	return strings.Join(parts, " ")
}

// Describe — «куда» подключаемся, без секретов.
func (d Database) Describe() string {
	switch {
	case d.Driver == "sqlite":
		return "sqlite path=" + d.Path
	case d.URL != "":
		return "postgres (DATABASE_URL provided)"
	case d.DSN != "":
		return "postgres (POSTGRES_DSN provided)"
	}
	return fmt.Sprintf("postgres host=%s user=%s db=%s", d.Host, d.User, d.Name)
}

// Parse заполняет target из окружения.
func Parse(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadBoard читает настройки доски.
func LoadBoard() (Board, error) {
	var cfg Board
	if err := Parse(&cfg); err != nil {
		return Board{}, err
	}
	if cfg.OffersURL == "" {
		return Board{}, fmt.Errorf("OFFERS_URL is empty")
	}
	return cfg, nil
}

// LoadAPI читает настройки эндпоинта.
func LoadAPI() (API, error) {
	var cfg API
	if err := Parse(&cfg); err != nil {
		return API{}, err
	}
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return API{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	return cfg, nil
}
