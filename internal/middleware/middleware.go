package middleware

import (
	"net/http"
	"strings"

	"github.com/unrolled/secure"

	"OfferBoard/internal/models"
	"OfferBoard/internal/sessions"
)

// AdminOnly пропускает только админскую сессию.
// HTML-формы возвращаем на главную с уведомлением, скриптам — 401 JSON.
func AdminOnly(sm *sessions.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := sm.Get(r)
			if sessions.IsAdmin(s) {
				next.ServeHTTP(w, r)
				return
			}
			if r.Method != http.MethodPost || WantsJSON(r) {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
				return
			}
			sessions.AddNotices(s, []models.Notice{{
				Level: models.NoticeError,
				Title: "notice.error",
				Text:  "notice.login.required",
			}})
			_ = sm.Save(w, r, s)
			http.Redirect(w, r, "/", http.StatusSeeOther)
		})
	}
}

// WantsJSON — запрос от скрипта, а не от HTML-формы.
func WantsJSON(r *http.Request) bool {
	return r.Method == http.MethodDelete ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// Secure — заголовки безопасности. HSTS и редирект на https только если
// TLS на самом приложении, а не на прокси перед ним.
func Secure(https, dev bool) func(http.Handler) http.Handler {
	cfg := secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		IsDevelopment:      dev,
	}
	if https {
		cfg.SSLRedirect = true
		cfg.STSSeconds = 31536000
		cfg.STSIncludeSubdomains = true
	}
	return secure.New(cfg).Handler
}
