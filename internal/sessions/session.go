package sessions

import (
	"crypto/sha256"
	"encoding/gob"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"OfferBoard/internal/models"
)

const (
	sessionName = "board_session"

	keyAdmin = "is_admin"
	keyDraft = "draft"
)

func init() {
	// значения сессии кодируются gob-ом
	gob.Register(models.Notice{})
	gob.Register(models.Draft{})
}

// Manager — cookie-сессии доски: флаг админа, уведомления (flash) и черновик формы.
type Manager struct {
	store *sessions.CookieStore
}

// New создаёт менеджер. Пустой secret — ключи случайные, сессии не переживут рестарт.
func New(secret string, maxAge time.Duration, secure bool) *Manager {
	var hashKey, blockKey []byte
	if secret == "" {
		log.Println("sessions: SESSION_SECRET is empty, using random keys")
		hashKey = securecookie.GenerateRandomKey(32)
		blockKey = securecookie.GenerateRandomKey(32)
	} else {
		// 2 ключа: подпись + шифрование
		h := sha256.Sum256([]byte("auth:" + secret))
		e := sha256.Sum256([]byte("enc:" + secret))
		hashKey, blockKey = h[:], e[:]
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure, // локально false, за HTTPS-прокси — true
	}
	// MaxAge выставляет и куку, и проверку возраста в securecookie:
	// просроченная сессия читается как новая (анонимная).
	store.MaxAge(int(maxAge.Seconds()))

	return &Manager{store: store}
}

// Get возвращает сессию запроса. Битая или просроченная кука даёт новую сессию.
func (m *Manager) Get(r *http.Request) *sessions.Session {
	s, err := m.store.Get(r, sessionName)
	if err != nil {
		log.Printf("sessions: discard cookie: %v", err)
	}
	return s
}

// Save пишет Set-Cookie. Если не влезли (длинный черновик), пробуем без черновика.
func (m *Manager) Save(w http.ResponseWriter, r *http.Request, s *sessions.Session) error {
	err := s.Save(r, w)
	if err == nil {
		return nil
	}
	if _, ok := s.Values[keyDraft]; ok {
		log.Printf("sessions: save failed, dropping draft: %v", err)
		delete(s.Values, keyDraft)
		return s.Save(r, w)
	}
	return err
}

// IsAdmin — флаг админа в сессии.
func IsAdmin(s *sessions.Session) bool {
	v, _ := s.Values[keyAdmin].(bool)
	return v
}

// SetAdmin меняет флаг. При выходе сессию обнуляем целиком.
func SetAdmin(s *sessions.Session, admin bool) {
	if admin {
		s.Values[keyAdmin] = true
		return
	}
	delete(s.Values, keyAdmin)
	delete(s.Values, keyDraft)
}

// AddNotices складывает уведомления до следующего показа страницы.
func AddNotices(s *sessions.Session, notices []models.Notice) {
	for _, n := range notices {
		s.AddFlash(n)
	}
}

// TakeNotices забирает накопленные уведомления (после этого нужен Save).
func TakeNotices(s *sessions.Session) []models.Notice {
	var out []models.Notice
	for _, f := range s.Flashes() {
		if n, ok := f.(models.Notice); ok {
			out = append(out, n)
		}
	}
	return out
}

// KeepDraft сохраняет черновик неудачной отправки; пустой — удаляет.
func KeepDraft(s *sessions.Session, d models.Draft) {
	if d.IsZero() {
		delete(s.Values, keyDraft)
		return
	}
	s.Values[keyDraft] = d
}

// TakeDraft забирает сохранённый черновик.
func TakeDraft(s *sessions.Session) models.Draft {
	d, ok := s.Values[keyDraft].(models.Draft)
	if !ok {
		return models.Draft{}
	}
	delete(s.Values, keyDraft)
	return d
}
