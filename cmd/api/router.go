package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crucial707/monster-mashup/internal/auth"
	"github.com/crucial707/monster-mashup/internal/config"
	"github.com/crucial707/monster-mashup/internal/handlers"
	"github.com/crucial707/monster-mashup/internal/middleware"
	"github.com/crucial707/monster-mashup/internal/repo"
	"github.com/crucial707/monster-mashup/internal/session"
)

// app is the wired HTTP surface plus the pieces main schedules jobs on.
type app struct {
	router   chi.Router
	sessions *session.Manager
	limiter  *middleware.IPRateLimiter
}

// newApp wires repos, services and handlers onto a chi router.
func newApp(db *sql.DB, cfg config.Config, store session.Store, lookup handlers.SpeciesLookup) *app {
	userRepo := repo.NewUserRepo(db)
	historyRepo := repo.NewHistoryRepo(db)

	sessions := session.NewManager(store, userRepo, cfg.SessionSecret, cfg.IsProd())
	authHandler := &handlers.AuthHandler{
		Auth:     auth.NewService(userRepo, cfg.BcryptCost),
		Sessions: sessions,
	}
	searchHandler := &handlers.SearchHandler{Species: lookup, History: historyRepo}
	historyHandler := &handlers.HistoryHandler{Repo: historyRepo}
	limiter := middleware.AuthRateLimiter()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
	r.Use(middleware.LoadSession(sessions))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// ==========================
	// Ops
	// ==========================
	r.Get("/", handlers.Index)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("not ready"))
			return
		}
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// ==========================
	// Public auth
	// ==========================
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})
	r.Get("/check-session", authHandler.CheckSession)
	r.Get("/verify-session", authHandler.CheckSession)
	r.Get("/logout", authHandler.Logout)
	r.Get("/end-session", authHandler.Logout)

	// ==========================
	// Protected
	// ==========================
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/user", authHandler.Me)
		r.Get("/search/pokemon", searchHandler.Pokemon)
		r.Get("/search/digimon", searchHandler.Digimon)
		r.Get("/history", historyHandler.ListHistory)
		r.Post("/update-password", authHandler.UpdatePassword)
	})

	return &app{router: r, sessions: sessions, limiter: limiter}
}

// newRouter returns just the handler; tests drive it through httptest.
func newRouter(db *sql.DB, cfg config.Config, store session.Store, lookup handlers.SpeciesLookup) http.Handler {
	return newApp(db, cfg, store, lookup).router
}
