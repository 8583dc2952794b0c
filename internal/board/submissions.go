package board

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// submissions помнит токены форм, которые уже в работе или приняты.
// Повторная отправка той же формы (двойной клик, повтор POST) отсекается.
type submissions struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

func newSubmissions(ttl time.Duration) *submissions {
	return &submissions{
		ttl:  ttl,
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

// NewToken — новый токен отправки для формы.
func NewToken() string {
	return uuid.NewString()
}

// begin занимает токен. false — токен уже занят и не истёк.
// Пустой токен не охраняется (запросы API без формы).
func (s *submissions) begin(token string) bool {
	if token == "" {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.prune(now)
	if _, ok := s.seen[token]; ok {
		return false
	}
	s.seen[token] = now
	return true
}

// abort освобождает токен после неудачи, чтобы форму можно было отправить снова.
func (s *submissions) abort(token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	delete(s.seen, token)
	s.mu.Unlock()
}

func (s *submissions) prune(now time.Time) {
	for t, at := range s.seen {
		if now.Sub(at) > s.ttl {
			delete(s.seen, t)
		}
	}
}

func (s *submissions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
