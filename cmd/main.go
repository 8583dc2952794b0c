package main

import (
	"OfferBoard/internal/board"
	"OfferBoard/internal/config"
	"OfferBoard/internal/handlers"
	"OfferBoard/internal/i18n"
	mw "OfferBoard/internal/middleware"
	"OfferBoard/internal/offers"
	"OfferBoard/internal/sessions"
	"OfferBoard/web"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/text/language"
)

func main() {
	cfg, err := config.LoadBoard()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lang, ok := i18n.Parse(cfg.DefaultLang)
	if !ok {
		log.Printf("config: unsupported DEFAULT_LANG %q, using ru", cfg.DefaultLang)
		lang = language.Russian
	}

	client := offers.NewClient(cfg.OffersURL,
		offers.WithTimeout(cfg.OffersTimeout),
		offers.WithAdminToken(cfg.SharedSecret()),
	)
	b := board.New(client,
		board.NewChecker(cfg.AdminPassword, cfg.AdminPasswordHash),
		board.WithSubmissionTTL(cfg.SubmissionTTL),
	)
	sm := sessions.New(cfg.SessionSecret, cfg.SessionMaxAge, cfg.HTTPS)

	r := chi.NewRouter()

	// базовые middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.RedirectSlashes) // /path/ -> /path
	r.Use(mw.Secure(cfg.HTTPS, false))

	// статика (вшита в бинарник)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	handlers.New(b, sm, web.Templates(), lang).Register(r)

	log.Printf("offers endpoint: %s (timeout %s)", client.Endpoint(), cfg.OffersTimeout)
	log.Printf("listening on %s", cfg.Addr())
	if err := http.ListenAndServe(cfg.Addr(), r); err != nil {
		log.Fatal(err)
	}
}
