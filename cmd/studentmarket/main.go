// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/studentmarket-go/internal/auth"
	"github.com/olegiv/studentmarket-go/internal/cache"
	"github.com/olegiv/studentmarket-go/internal/config"
	"github.com/olegiv/studentmarket-go/internal/handler"
	"github.com/olegiv/studentmarket-go/internal/logging"
	"github.com/olegiv/studentmarket-go/internal/mailer"
	"github.com/olegiv/studentmarket-go/internal/middleware"
	"github.com/olegiv/studentmarket-go/internal/scheduler"
	"github.com/olegiv/studentmarket-go/internal/service"
	"github.com/olegiv/studentmarket-go/internal/session"
	"github.com/olegiv/studentmarket-go/internal/store"
	"github.com/olegiv/studentmarket-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func buildInfo() version.Info {
	return version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
}

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "StudentMarket - Campus Classifieds Marketplace\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SM_SECRET           Signing secret for sessions and tokens (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SM_DB_PATH          SQLite database path (default: ./data/studentmarket.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SM_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SM_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SM_BASE_URL         Public origin used in verification links\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SM_ADMIN_EMAIL      Bootstrap admin email (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SM_ADMIN_PASSWORD   Bootstrap admin password (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SM_MAILGUN_DOMAIN   Mailgun domain for verification mail (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SM_REDIS_URL        Redis URL for the listing cache (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Println(buildInfo())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Setup(cfg.LogLevel, cfg.IsDevelopment())

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Bootstrap admin account. A failure here is logged, not fatal: the
	// marketplace works without an admin.
	if err := store.Seed(context.Background(), db, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
	}

	listingCache, err := cache.New(cfg.RedisURL, cfg.CachePrefix)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}

	var mail mailer.Mailer = mailer.LogMailer{}
	if cfg.MailEnabled() {
		mail = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailSender)
		slog.Info("mailgun delivery enabled", "domain", cfg.MailgunDomain)
	} else {
		slog.Info("mail delivery disabled, verification links will be logged")
	}

	users := store.NewUserStore(db)
	ads := store.NewAdStore(db)
	tokens := auth.NewTokenIssuer([]byte(cfg.Secret))
	market := service.NewMarket(users, ads, tokens, mail, listingCache, cfg.BaseURL)

	sessionManager := session.New(db, cfg.IsDevelopment())

	sched := scheduler.New(ads, slog.Default())
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	authHandler := handler.NewAuthHandler(market, sessionManager)
	adHandler := handler.NewAdHandler(market, cfg.PageSize)
	healthHandler := handler.NewHealthHandler(db, buildInfo())

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.Secret), cfg.IsDevelopment())))
	r.Use(middleware.LoadUser(sessionManager, users))

	r.Get("/healthz", healthHandler.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/verify", authHandler.Verify)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(sessionManager))
			r.Get("/profile", authHandler.Profile)
			r.Put("/profile", authHandler.UpdateProfile)
			r.Delete("/account", authHandler.DeleteAccount)
			r.Post("/verify/resend", authHandler.ResendVerification)
		})
	})

	// Admin-only in effect: the service rejects non-admin actors.
	r.With(middleware.RequireUser(sessionManager)).Delete("/users/{id}", authHandler.DeleteUser)

	r.Route("/ads", func(r chi.Router) {
		r.Get("/", adHandler.List)
		r.Get("/categories", adHandler.Categories)
		r.Get("/{id}", adHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(sessionManager))
			r.Get("/mine", adHandler.Mine)
			r.Post("/", adHandler.Create)
			r.Put("/{id}", adHandler.Update)
			r.Delete("/{id}", adHandler.Delete)
		})
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
