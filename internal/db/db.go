package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"OfferBoard/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc регистрируется как "sqlite", sqlx про это имя может не знать
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Open подключается к БД выбранного драйвера и проверяет соединение.
func Open(ctx context.Context, cfg config.Database) (*sqlx.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "postgres"
	}

	db, err := sqlx.Open(driver, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", driver, err)
	}

	// Пул коннектов
	if driver == "sqlite" {
		// sqlite не любит параллельных писателей
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Ping с таймаутом (не вешаем процесс)
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	log.Printf("db: connected (%s)", cfg.Describe())
	return db, nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS offers (
	id SERIAL PRIMARY KEY,
	title TEXT,
	description TEXT,
	reward TEXT,
	telegram_link TEXT,
	views_count INTEGER NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS offers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT,
	description TEXT,
	reward TEXT,
	telegram_link TEXT,
	views_count INTEGER NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// EnsureSchema создаёт таблицу offers, если её ещё нет.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := postgresSchema
	if db.DriverName() == "sqlite" {
		schema = sqliteSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("db: schema: %w", err)
	}
	return nil
}
