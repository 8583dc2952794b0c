package handlers

import (
	"bytes"
	"encoding/json"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"OfferBoard/internal/board"
	"OfferBoard/internal/i18n"
	mw "OfferBoard/internal/middleware"
	"OfferBoard/internal/models"
	"OfferBoard/internal/sessions"
)

// Handler — HTTP-обработчики доски.
type Handler struct {
	board     *board.Board
	sessions  *sessions.Manager
	templates fs.FS
	lang      language.Tag
}

func New(b *board.Board, sm *sessions.Manager, templates fs.FS, defaultLang language.Tag) *Handler {
	return &Handler{
		board:     b,
		sessions:  sm,
		templates: templates,
		lang:      defaultLang,
	}
}

// Register вешает маршруты доски на роутер.
func (h *Handler) Register(r chi.Router) {
	// ---------- Публичная страница ----------
	r.Get("/", h.ShowIndexPage)
	r.Get("/go/{id}", h.VisitOffer)
	r.Post("/offers/{id}/view", h.CountView)
	r.Get("/api/offers", h.GetOffers)

	// ---------- Вход / выход ----------
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	// ---------- Действия администратора ----------
	r.Group(func(g chi.Router) {
		g.Use(mw.AdminOnly(h.sessions))

		g.Post("/offers", h.CreateOffer)
		// HTML-формы не умеют DELETE — отдельный POST
		g.Post("/offers/{id}/delete", h.DeleteOffer)
		g.Delete("/offers/{id}", h.DeleteOffer)
	})
}

/* ========= ВСПОМОГАТЕЛЬНОЕ ========= */

// pageData — то, что видит шаблон.
type pageData struct {
	Lang      string
	Languages []string
	State     *board.State
	Notices   []models.Notice
}

// render собирает base + страницу с переводчиком t для выбранного языка.
// Пишем через буфер: ошибка шаблона не оставит полстраницы.
func (h *Handler) render(w http.ResponseWriter, tag language.Tag, page string, st *board.State) {
	p := i18n.Printer(tag)
	funcs := template.FuncMap{
		"t": func(key string, args ...any) string {
			return p.Sprintf(key, args...)
		},
		// схема уже проверена в OutboundURL, tg: иначе html/template вырежет
		"link": func(raw string) template.URL {
			return template.URL(board.OutboundURL(raw))
		},
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(h.templates, "base.html", page)
	if err != nil {
		log.Printf("handlers: parse templates: %v", err)
		http.Error(w, "Ошибка шаблона", http.StatusInternalServerError)
		return
	}

	langs := make([]string, 0, 2)
	for _, l := range i18n.Supported() {
		langs = append(langs, l.String())
	}
	data := pageData{
		Lang:      tag.String(),
		Languages: langs,
		State:     st,
		Notices:   st.Notices,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		log.Printf("handlers: execute %s: %v", page, err)
		http.Error(w, "Ошибка шаблона", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"error": msg,
	})
}
