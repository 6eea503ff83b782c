package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/monster-mashup/internal/config"
	"github.com/crucial707/monster-mashup/internal/db"
	"github.com/crucial707/monster-mashup/internal/repo"
	"github.com/crucial707/monster-mashup/internal/scheduler"
	"github.com/crucial707/monster-mashup/internal/session"
	"github.com/crucial707/monster-mashup/internal/species"
)

const shutdownTimeout = 10 * time.Second

var _ session.Store = (*repo.SessionRepo)(nil)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg := config.Load()
	setupLogging(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.SessionSecretGenerated {
		slog.Warn("SESSION_SECRET not set; generated a per-process secret, sessions will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database FIRST
	database, err := db.Connect(ctx, cfg.PostgresURL(), cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()
	slog.Info("connected to database")

	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	store, closeStore, err := newSessionStore(ctx, cfg, database)
	if err != nil {
		return err
	}
	defer closeStore()

	lookup := species.NewClient(cfg.PokeAPIURL, cfg.DigiAPIURL, cfg.UpstreamTimeout)
	a := newApp(database, cfg, store, lookup)

	jobs, err := scheduler.Start(ctx,
		scheduler.Job{
			Name: "purge-sessions",
			Spec: cfg.SessionPurgeCron,
			Run:  scheduler.PurgeSessions(a.sessions.Purge),
		},
		scheduler.Job{
			Name: "sweep-rate-limiter",
			Spec: "@every 10m",
			Run: func(context.Context) error {
				a.limiter.Sweep(time.Now())
				return nil
			},
		},
	)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Digimon lookups make two upstream calls.
		WriteTimeout: 2*cfg.UpstreamTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		tls := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""
		slog.Info("starting server", "addr", srv.Addr, "env", cfg.Env, "tls", tls, "session_store", cfg.SessionStore)
		if tls {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	select {
	case <-jobs.Stop().Done():
	case <-shutdownCtx.Done():
		slog.Warn("scheduler jobs still running at exit")
	}
	return nil
}

// newSessionStore picks the session backend named by SESSION_STORE.
func newSessionStore(ctx context.Context, cfg config.Config, database *sql.DB) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		rdb, err := session.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("session store: redis", "addr", cfg.RedisAddr)
		return session.NewRedisStore(rdb), func() { rdb.Close() }, nil
	case config.SessionStoreMemory:
		slog.Warn("session store: memory; sessions are lost on restart and not shared between instances")
		return session.NewMemoryStore(), func() {}, nil
	default:
		return repo.NewSessionRepo(database), func() {}, nil
	}
}

// setupLogging installs the default slog handler.
func setupLogging(format string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
