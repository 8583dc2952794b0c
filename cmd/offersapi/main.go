// offersapi — эндпоинт предложений поверх PostgreSQL или SQLite.
package main

import (
	"OfferBoard/internal/config"
	"OfferBoard/internal/db"
	"OfferBoard/internal/endpoint"
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := db.EnsureSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// весь API висит на одном URL, метод решает всё
	r.Handle("/", endpoint.New(db.NewOfferStore(conn), cfg.AdminToken))

	log.Printf("listening on %s", cfg.Addr())
	if err := http.ListenAndServe(cfg.Addr(), r); err != nil {
		log.Fatal(err)
	}
}
