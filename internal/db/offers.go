package db

import (
	"context"
	"fmt"

	"OfferBoard/internal/models"

	"github.com/jmoiron/sqlx"
)

// OfferStore — таблица offers. Запросы пишем с "?", Rebind подставляет
// плейсхолдеры нужного драйвера.
type OfferStore struct {
	db *sqlx.DB
}

func NewOfferStore(db *sqlx.DB) *OfferStore {
	return &OfferStore{db: db}
}

// ListActive — активные предложения, свежие сверху.
func (s *OfferStore) ListActive(ctx context.Context) ([]models.Offer, error) {
	var rows []models.OfferRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, title, description, reward, telegram_link, views_count, is_active, created_at
		FROM offers
		WHERE is_active = TRUE
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	out := make([]models.Offer, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.RowToOffer(r))
	}
	return out, nil
}

// Insert добавляет предложение и возвращает его id.
func (s *OfferStore) Insert(ctx context.Context, d models.Draft) (int64, error) {
	q := s.db.Rebind(`
		INSERT INTO offers (title, description, reward, telegram_link, views_count)
		VALUES (?, ?, ?, ?, 0)
		RETURNING id`)

	var id int64
	if err := s.db.QueryRowxContext(ctx, q, d.Title, d.Description, d.Reward, d.TelegramLink).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert offer: %w", err)
	}
	return id, nil
}

// IncrementViews — +1 к счётчику просмотров. Несуществующий id не ошибка.
func (s *OfferStore) IncrementViews(ctx context.Context, id int64) error {
	q := s.db.Rebind(`UPDATE offers SET views_count = views_count + 1 WHERE id = ?`)
	if _, err := s.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("count view %d: %w", id, err)
	}
	return nil
}

// Deactivate — мягкое удаление: строка остаётся, но из списка пропадает.
func (s *OfferStore) Deactivate(ctx context.Context, id int64) error {
	q := s.db.Rebind(`UPDATE offers SET is_active = FALSE WHERE id = ?`)
	if _, err := s.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("deactivate offer %d: %w", id, err)
	}
	return nil
}

// get — одна строка, включая неактивные.
func (s *OfferStore) get(ctx context.Context, id int64) (models.OfferRow, error) {
	var row models.OfferRow
	q := s.db.Rebind(`
		SELECT id, title, description, reward, telegram_link, views_count, is_active, created_at
		FROM offers WHERE id = ?`)
	if err := s.db.GetContext(ctx, &row, q, id); err != nil {
		return row, fmt.Errorf("get offer %d: %w", id, err)
	}
	return row, nil
}
