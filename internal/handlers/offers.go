package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	gsessions "github.com/gorilla/sessions"

	"OfferBoard/internal/board"
	"OfferBoard/internal/i18n"
	mw "OfferBoard/internal/middleware"
	"OfferBoard/internal/models"
	"OfferBoard/internal/sessions"
)

/* ========= ПУБЛИЧНОЕ ========= */

// ShowIndexPage — главная: список предложений и форма входа или создания.
func (h *Handler) ShowIndexPage(w http.ResponseWriter, r *http.Request) {
	tag, persist := i18n.Resolve(r, h.lang)
	if persist {
		i18n.SetCookie(w, tag)
	}

	s := h.sessions.Get(r)
	st := &board.State{
		IsAdmin: sessions.IsAdmin(s),
		Notices: sessions.TakeNotices(s),
		Draft:   sessions.TakeDraft(s),
		Token:   board.NewToken(),
	}
	_ = h.board.LoadOffers(r.Context(), st)

	if err := h.sessions.Save(w, r, s); err != nil {
		log.Printf("handlers: session save: %v", err)
	}
	h.render(w, tag, "index.html", st)
}

// GetOffers — тот же список в JSON.
func (h *Handler) GetOffers(w http.ResponseWriter, r *http.Request) {
	var st board.State
	if err := h.board.LoadOffers(r.Context(), &st); err != nil {
		jsonError(w, http.StatusBadGateway, "Не удалось загрузить предложения")
		return
	}
	writeJSON(w, http.StatusOK, models.OfferList{Offers: st.Offers})
}

// VisitOffer засчитывает просмотр и уводит на ссылку Telegram.
func (h *Handler) VisitOffer(w http.ResponseWriter, r *http.Request) {
	id, err := offerID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	link, err := h.board.Visit(r.Context(), id)
	switch {
	case errors.Is(err, board.ErrNotFound), errors.Is(err, board.ErrBadLink):
		http.NotFound(w, r)
		return
	case err != nil:
		http.Error(w, "Сервис предложений недоступен", http.StatusBadGateway)
		return
	}
	http.Redirect(w, r, link, http.StatusFound)
}

// CountView — фоновый запрос со страницы при переходе по ссылке карточки.
func (h *Handler) CountView(w http.ResponseWriter, r *http.Request) {
	id, err := offerID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	h.board.CountView(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

/* ========= ВХОД / ВЫХОД ========= */

// HandleLogin — проверка пароля. Итог всегда виден как уведомление на главной.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r)
	st := &board.State{IsAdmin: sessions.IsAdmin(s)}

	if err := r.ParseForm(); err != nil {
		st.Notices = append(st.Notices, badRequest())
	} else if h.board.Authenticate(st, r.FormValue("password")) {
		sessions.SetAdmin(s, true)
	}

	h.finish(w, r, s, st)
}

// HandleLogout сбрасывает флаг админа.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r)
	st := &board.State{IsAdmin: sessions.IsAdmin(s)}
	h.board.Logout(st)
	sessions.SetAdmin(s, false)
	h.finish(w, r, s, st)
}

/* ========= АДМИН ========= */

// CreateOffer — отправка формы нового предложения.
func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r)
	st := &board.State{IsAdmin: sessions.IsAdmin(s)}

	if err := r.ParseForm(); err != nil {
		h.fail(w, r, s, st, http.StatusBadRequest, badRequest())
		return
	}
	draft := models.Draft{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		Reward:       r.FormValue("reward"),
		TelegramLink: r.FormValue("telegram_link"),
	}

	err := h.board.CreateOffer(r.Context(), st, r.FormValue("token"), draft)
	sessions.KeepDraft(s, st.Draft)
	if mw.WantsJSON(r) {
		h.respondJSON(w, r, s, st, err, http.StatusCreated)
		return
	}
	h.finish(w, r, s, st)
}

// DeleteOffer — удаление по id из пути.
func (h *Handler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(r)
	st := &board.State{IsAdmin: sessions.IsAdmin(s)}

	id, err := offerID(r)
	if err != nil {
		h.fail(w, r, s, st, http.StatusBadRequest, badRequest())
		return
	}

	err = h.board.DeleteOffer(r.Context(), st, r.FormValue("token"), id)
	if mw.WantsJSON(r) {
		h.respondJSON(w, r, s, st, err, http.StatusOK)
		return
	}
	h.finish(w, r, s, st)
}

/* ========= ВСПОМОГАТЕЛЬНОЕ ========= */

// finish — post/redirect/get: уведомления в flash, редирект на главную.
func (h *Handler) finish(w http.ResponseWriter, r *http.Request, s *gsessions.Session, st *board.State) {
	sessions.AddNotices(s, st.Notices)
	if err := h.sessions.Save(w, r, s); err != nil {
		log.Printf("handlers: session save: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, s *gsessions.Session, st *board.State, code int, n models.Notice) {
	if mw.WantsJSON(r) {
		jsonError(w, code, "Некорректный запрос")
		return
	}
	st.Notices = append(st.Notices, n)
	h.finish(w, r, s, st)
}

// writeResult — ответ скрипту после записи. LoadError заполнен, если запись
// прошла, а перечитать список не удалось: offers тогда пустой, но неизвестный.
type writeResult struct {
	Offers    []models.Offer `json:"offers"`
	LoadError string         `json:"load_error,omitempty"`
}

// respondJSON — ответ скрипту: свежий список или ошибка.
func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, s *gsessions.Session, st *board.State, err error, okCode int) {
	if serr := h.sessions.Save(w, r, s); serr != nil {
		log.Printf("handlers: session save: %v", serr)
	}
	switch {
	case err == nil:
		res := writeResult{Offers: st.Offers}
		if res.Offers == nil {
			res.Offers = []models.Offer{}
		}
		if st.LoadErr != nil {
			res.LoadError = "Не удалось загрузить предложения"
		}
		writeJSON(w, okCode, res)
	case errors.Is(err, board.ErrNotAdmin):
		jsonError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, board.ErrDuplicate):
		jsonError(w, http.StatusConflict, "Этот запрос уже отправлен")
	default:
		jsonError(w, http.StatusBadGateway, err.Error())
	}
}

func offerID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func badRequest() models.Notice {
	return models.Notice{Level: models.NoticeError, Title: "notice.error", Text: "notice.bad.request"}
}
