// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "SM_SECRET", "test-secret-key-32-bytes-long!!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/studentmarket.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/studentmarket.db")
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr = %q, want %q", cfg.ServerAddr(), "localhost:8080")
	}
	if cfg.PageSize != 12 {
		t.Errorf("PageSize = %d, want 12", cfg.PageSize)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment = false for default env")
	}
	if cfg.MailEnabled() {
		t.Error("MailEnabled = true without Mailgun credentials")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "SM_SECRET", "custom-secret-key-32-bytes-long!")
	setEnv(t, "SM_DB_PATH", "/custom/path.db")
	setEnv(t, "SM_SERVER_HOST", "0.0.0.0")
	setEnv(t, "SM_SERVER_PORT", "3000")
	setEnv(t, "SM_ENV", "production")
	setEnv(t, "SM_PAGE_SIZE", "24")
	setEnv(t, "SM_MAILGUN_DOMAIN", "mg.example.com")
	setEnv(t, "SM_MAILGUN_API_KEY", "key-xxx")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment = true for production env")
	}
	if cfg.PageSize != 24 {
		t.Errorf("PageSize = %d", cfg.PageSize)
	}
	if !cfg.MailEnabled() {
		t.Error("MailEnabled = false with Mailgun credentials set")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted a missing secret")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "SM_SECRET", "too-short")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted a short secret")
	}
}

func TestLoad_BadPageSize(t *testing.T) {
	os.Clearenv()
	setEnv(t, "SM_SECRET", "test-secret-key-32-bytes-long!!!")
	setEnv(t, "SM_PAGE_SIZE", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted page size 0")
	}
}
