// Package board — логика доски предложений: загрузка списка, вход админа,
// создание и удаление предложений с пересинхронизацией после записи.
//
// Состояние страницы (State) создаётся на каждый запрос и принадлежит ему;
// Board хранит только общее: источник данных, проверку пароля,
// склейку параллельных загрузок и реестр токенов отправки.
package board

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"OfferBoard/internal/models"
	"OfferBoard/internal/offers"
)

var (
	ErrNotAdmin  = errors.New("board: admin session required")
	ErrDuplicate = errors.New("board: duplicate submission")
	ErrNotFound  = errors.New("board: offer not found")
	ErrBadLink   = errors.New("board: offer link is not an outbound url")
)

// Source — удалённый эндпоинт предложений (*offers.Client).
type Source interface {
	List(ctx context.Context) ([]models.Offer, error)
	Create(ctx context.Context, d models.Draft) (int64, error)
	Delete(ctx context.Context, id int64) error
	CountView(ctx context.Context, id int64) error
}

const loadKey = "offers"

// Board выполняет операции доски над State.
type Board struct {
	src     Source
	checker Checker
	loads   singleflight.Group
	subs    *submissions
}

// Option настраивает Board.
type Option func(*Board)

// WithSubmissionTTL — сколько помнить принятые токены форм (SUBMISSION_TTL, по умолчанию 10 минут).
func WithSubmissionTTL(d time.Duration) Option {
	return func(b *Board) {
		b.subs.ttl = d
	}
}

func New(src Source, checker Checker, opts ...Option) *Board {
	b := &Board{
		src:     src,
		checker: checker,
		subs:    newSubmissions(10 * time.Minute),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// LoadOffers читает список и целиком заменяет st.Offers.
// При ошибке список не трогаем, а ошибку кладём в st.LoadErr.
func (b *Board) LoadOffers(ctx context.Context, st *State) error {
	// Параллельные загрузки склеиваем в один запрос. Отмена одного клиента
	// не должна ронять остальных, поэтому отвязываемся от его отмены;
	// сверху запрос ограничен таймаутом http.Client.
	shared := context.WithoutCancel(ctx)
	v, err, _ := b.loads.Do(loadKey, func() (any, error) {
		return b.src.List(shared)
	})
	if err != nil {
		log.Printf("board: load offers: %v", err)
		st.LoadErr = fmt.Errorf("load offers: %w", err)
		return st.LoadErr
	}
	list := v.([]models.Offer)
	st.Offers = make([]models.Offer, len(list))
	copy(st.Offers, list)
	st.LoadErr = nil
	return nil
}

// resync перечитывает список после записи, не присоединяясь к загрузке,
// начатой до неё.
func (b *Board) resync(ctx context.Context, st *State) {
	b.loads.Forget(loadKey)
	_ = b.LoadOffers(ctx, st)
}

// Authenticate сверяет пароль. Совпал — st.IsAdmin = true и уведомление об успехе,
// нет — уведомление об ошибке, состояние не меняется.
func (b *Board) Authenticate(st *State, password string) bool {
	if b.checker != nil && b.checker.Check(password) {
		st.IsAdmin = true
		st.notify(models.NoticeSuccess, "notice.login.title", "notice.login.text", "")
		return true
	}
	st.failure("notice.login.failed", "")
	return false
}

// Logout возвращает сессию в анонимное состояние.
func (b *Board) Logout(st *State) {
	if !st.IsAdmin {
		return
	}
	st.IsAdmin = false
	st.Draft = models.Draft{}
	st.success("notice.logout")
}

// CreateOffer отправляет черновик. Успех: уведомление, черновик очищен, список
// перечитан. Неудача: уведомление с причиной, черновик остаётся в st.Draft.
func (b *Board) CreateOffer(ctx context.Context, st *State, token string, d models.Draft) error {
	if !st.IsAdmin {
		st.failure("notice.login.required", "")
		return ErrNotAdmin
	}
	if !b.subs.begin(token) {
		st.failure("notice.duplicate", "")
		return ErrDuplicate
	}

	id, err := b.src.Create(ctx, d)
	if err != nil {
		b.subs.abort(token)
		st.Draft = d
		b.reportWriteError(st, "notice.create.failed", err)
		return fmt.Errorf("create offer: %w", err)
	}
	log.Printf("board: offer created id=%d title=%q", id, d.Title)

	st.Draft = models.Draft{}
	st.success("notice.created")
	b.resync(ctx, st)
	return nil
}

// DeleteOffer удаляет предложение по id и перечитывает список.
func (b *Board) DeleteOffer(ctx context.Context, st *State, token string, id int64) error {
	if !st.IsAdmin {
		st.failure("notice.login.required", "")
		return ErrNotAdmin
	}
	if !b.subs.begin(token) {
		st.failure("notice.duplicate", "")
		return ErrDuplicate
	}

	if err := b.src.Delete(ctx, id); err != nil {
		b.subs.abort(token)
		b.reportWriteError(st, "notice.delete.failed", err)
		return fmt.Errorf("delete offer %d: %w", id, err)
	}
	log.Printf("board: offer deleted id=%d", id)

	st.success("notice.deleted")
	b.resync(ctx, st)
	return nil
}

// CountView засчитывает просмотр. Только по возможности: ошибка лишь логируется.
func (b *Board) CountView(ctx context.Context, id int64) {
	if err := b.src.CountView(ctx, id); err != nil {
		log.Printf("board: count view id=%d: %v", id, err)
	}
}

// Visit находит ссылку предложения и засчитывает просмотр.
func (b *Board) Visit(ctx context.Context, id int64) (string, error) {
	var st State
	if err := b.LoadOffers(ctx, &st); err != nil {
		return "", err
	}
	o, ok := st.find(id)
	if !ok {
		return "", ErrNotFound
	}
	link := OutboundURL(o.TelegramLink)
	if link == "" {
		return "", ErrBadLink
	}
	b.CountView(ctx, id)
	return link, nil
}

func (b *Board) reportWriteError(st *State, text string, err error) {
	log.Printf("board: %s: %v", text, err)
	code := offers.StatusCode(err)
	e, ok := offers.AsError(err)
	switch {
	case offers.IsUnauthorized(err):
		st.failure("notice.unauthorized", "")
	case offers.IsNetwork(err), ok && e.Retryable():
		st.failure("notice.unavailable", "")
	case code != 0:
		st.failure(text, fmt.Sprintf("HTTP %d", code))
	default:
		st.failure(text, "")
	}
}

// OutboundURL — ссылка, по которой можно уводить посетителя, или "".
// Пускаем http(s) с хостом и tg:. Ссылку без схемы ("t.me/foo") считаем https.
func OutboundURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "https", "http":
		if u.Host == "" {
			return ""
		}
		return raw
	case "tg":
		return raw
	case "":
		if strings.HasPrefix(raw, "/") {
			return ""
		}
		u, err = url.Parse("https://" + raw)
		if err != nil || !strings.Contains(u.Host, ".") {
			return ""
		}
		return "https://" + raw
	}
	return ""
}
