package models

import (
	"database/sql"
	"strings"
)

// Offer — предложение заработка, как его отдаёт эндпоинт offers.
// ID и CreatedAt назначает хранилище, клиент их только показывает.
type Offer struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Reward       string `json:"reward"`
	TelegramLink string `json:"telegram_link"`
	ViewsCount   int    `json:"views_count"`
	CreatedAt    string `json:"created_at"`
}

// Draft — состояние формы нового предложения.
// Поля свободные: пустые строки и кривые ссылки не проверяем.
type Draft struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Reward       string `json:"reward"`
	TelegramLink string `json:"telegram_link"`
}

// IsZero — все поля пустые (форма в исходном состоянии).
func (d Draft) IsZero() bool {
	return d == Draft{}
}

// OfferList — тело ответа GET: {"offers": [...]}
type OfferList struct {
	Offers []Offer `json:"offers"`
}

// OfferRow — строка таблицы offers (sqlx).
type OfferRow struct {
	ID           int64          `db:"id"`
	Title        sql.NullString `db:"title"`
	Description  sql.NullString `db:"description"`
	Reward       sql.NullString `db:"reward"`
	TelegramLink sql.NullString `db:"telegram_link"`
	ViewsCount   sql.NullInt64  `db:"views_count"`
	IsActive     bool           `db:"is_active"`
	CreatedAt    sql.NullString `db:"created_at"`
}

// RowToOffer маппит строку из БД (с Null*) в ответ API.
func RowToOffer(r OfferRow) Offer {
	return Offer{
		ID:           r.ID,
		Title:        r.Title.String,
		Description:  r.Description.String,
		Reward:       r.Reward.String,
		TelegramLink: r.TelegramLink.String,
		ViewsCount:   int(r.ViewsCount.Int64),
		CreatedAt:    normalizeTimestamp(r.CreatedAt.String),
	}
}

// sqlite может отдать "2006-01-02 15:04:05", postgres через database/sql — RFC3339.
// Наружу всегда ISO-вид с "T".
func normalizeTimestamp(s string) string {
	if len(s) > 10 && s[10] == ' ' {
		return s[:10] + "T" + s[11:]
	}
	return strings.TrimSpace(s)
}
