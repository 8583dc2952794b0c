// Package endpoint — эндпоинт offers: один URL, поведение зависит от метода.
//
//	OPTIONS  CORS preflight
//	GET      активные предложения
//	POST     создать (X-Admin-Auth)
//	PUT      ?id= засчитать просмотр
//	DELETE   ?id= мягко удалить (X-Admin-Auth)
package endpoint

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"OfferBoard/internal/models"
	"OfferBoard/internal/offers"
)

// Store — хранилище предложений (db.OfferStore).
type Store interface {
	ListActive(ctx context.Context) ([]models.Offer, error)
	Insert(ctx context.Context, d models.Draft) (int64, error)
	IncrementViews(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
}

const maxBody = 1 << 20

type Handler struct {
	store Store
	token string
}

// New — token сверяется с X-Admin-Auth. Пустой token закрывает запись совсем.
func New(store Store, token string) *Handler {
	return &Handler{store: store, token: token}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	switch r.Method {
	case http.MethodOptions:
		h.preflight(w)
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodPut:
		// без id PUT не поддерживается
		if r.URL.Query().Get("id") == "" {
			methodNotAllowed(w)
			return
		}
		h.countView(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) preflight(w http.ResponseWriter) {
	hdr := w.Header()
	hdr.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	hdr.Set("Access-Control-Allow-Headers", "Content-Type, "+offers.AdminHeader)
	hdr.Set("Access-Control-Max-Age", "86400")
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListActive(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.OfferList{Offers: list})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		jsonError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var d models.Draft
	err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&d)
	if err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := h.store.Insert(r.Context(), d)
	if err != nil {
		internalError(w, err)
		return
	}
	log.Printf("offers: created id=%d", id)
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "message": "Offer created"})
}

func (h *Handler) countView(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r)
	if !ok {
		return
	}
	if err := h.store.IncrementViews(r.Context(), id); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "View counted"})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		jsonError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, ok := queryID(w, r)
	if !ok {
		return
	}
	if err := h.store.Deactivate(r.Context(), id); err != nil {
		internalError(w, err)
		return
	}
	log.Printf("offers: deactivated id=%d", id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Offer deleted"})
}

func (h *Handler) authorized(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := r.Header.Get(offers.AdminHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}

func queryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func methodNotAllowed(w http.ResponseWriter) {
	jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func internalError(w http.ResponseWriter, err error) {
	log.Printf("offers: %v", err)
	jsonError(w, http.StatusInternalServerError, "Internal server error")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
