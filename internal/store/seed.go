package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed creates the bootstrap administrator from configuration. It is
// idempotent: an existing user under the configured email is left untouched.
// Bootstrap is optional; with no admin email or password configured it is
// skipped entirely.
func Seed(ctx context.Context, db *sql.DB, name, email, password string) error {
	if email == "" || password == "" {
		slog.Info("admin bootstrap not configured, skipping seed")
		return nil
	}
	if name == "" {
		name = "Admin"
	}

	users := NewUserStore(db)
	if err := users.EnsureAdmin(ctx, name, email, password); err != nil {
		return fmt.Errorf("ensuring admin user: %w", err)
	}

	slog.Info("admin user ensured", "email", email)
	return nil
}
