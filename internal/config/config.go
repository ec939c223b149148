// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// MinSecretLength is the minimum required length for the signing secret,
// which protects both sessions and email verification tokens.
const MinSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"SM_DB_PATH" envDefault:"./data/studentmarket.db"`
	Secret     string `env:"SM_SECRET,required"`
	ServerHost string `env:"SM_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"SM_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"SM_ENV" envDefault:"development"`
	LogLevel   string `env:"SM_LOG_LEVEL" envDefault:"info"`

	// BaseURL is the externally reachable origin used in verification links.
	BaseURL string `env:"SM_BASE_URL" envDefault:"http://localhost:8080"`

	// PageSize is the number of ads per listing page.
	PageSize int `env:"SM_PAGE_SIZE" envDefault:"12"`

	// Admin bootstrap account, created idempotently at startup. Bootstrap is
	// skipped unless both email and password are set.
	AdminName     string `env:"SM_ADMIN_NAME" envDefault:"Admin"`
	AdminEmail    string `env:"SM_ADMIN_EMAIL"`
	AdminPassword string `env:"SM_ADMIN_PASSWORD"`

	// Mailgun credentials; verification mail is logged instead of sent when
	// these are unset.
	MailgunDomain string `env:"SM_MAILGUN_DOMAIN"`
	MailgunAPIKey string `env:"SM_MAILGUN_API_KEY"`
	MailSender    string `env:"SM_MAIL_SENDER" envDefault:"noreply@studentmarket.local"`

	// Cache configuration
	RedisURL    string `env:"SM_REDIS_URL"` // Optional Redis URL for the listing cache
	CachePrefix string `env:"SM_CACHE_PREFIX" envDefault:"sm:"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MailEnabled returns true if Mailgun delivery is configured.
func (c Config) MailEnabled() bool {
	return c.MailgunDomain != "" && c.MailgunAPIKey != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("SM_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSecretLength, len(cfg.Secret))
	}

	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("SM_PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}

	return cfg, nil
}
