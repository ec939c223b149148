// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store persists Users and Ads in SQLite and implements the
// repository contracts of the domain layer: CRUD, case-folded email lookup,
// the filtered/paginated ad listing query, and the user-delete cascade.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/studentmarket-go/internal/auth"
	"github.com/olegiv/studentmarket-go/internal/model"
)

const userColumns = `id, name, email, password_hash, is_email_verified, is_admin, date_of_birth, description, created_at`

// UserStore handles persistence for users.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a UserStore backed by db.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// normalizeEmail folds an email address for storage and lookup. Uniqueness
// is case-insensitive, so folding happens here at the repository boundary
// and nowhere else.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a new user, assigning its id and creation time. The email
// is stored lowercased; a duplicate registration returns ErrEmailTaken.
func (s *UserStore) Create(ctx context.Context, u model.User) (model.User, error) {
	u.ID = uuid.NewString()
	u.Email = normalizeEmail(u.Email)
	u.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash,
		u.IsEmailVerified, u.IsAdmin, nullableTime(u.DateOfBirth), u.Description, u.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("inserting user: %w", err)
	}

	return u, nil
}

// GetByID returns the user with the given id, or ErrNotFound. A malformed id
// simply matches nothing.
func (s *UserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail returns the user registered under email, matched
// case-insensitively, or ErrNotFound.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, normalizeEmail(email)))
}

// UpdateProfile updates the mutable profile fields of a user. The id and
// email never change after creation.
func (s *UserStore) UpdateProfile(ctx context.Context, id, name string, dateOfBirth *time.Time, description string) error {
	const query = `
		UPDATE users
		SET name = ?, date_of_birth = ?, description = ?
		WHERE id = ?`
	res, err := s.db.ExecContext(ctx, query, name, nullableTime(dateOfBirth), description, id)
	if err != nil {
		return fmt.Errorf("updating user %s: %w", id, err)
	}
	return requireRow(res)
}

// SetEmailVerified marks the user's email address as verified. Verifying an
// already-verified user is a no-op success.
func (s *UserStore) SetEmailVerified(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET is_email_verified = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking user %s verified: %w", id, err)
	}
	return requireRow(res)
}

// Delete removes a user together with every ad it owns. The cascade runs in
// one transaction, owned ads first, so an orphaned ad can never outlive a
// completed delete. Returns false when no such user exists.
func (s *UserStore) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning delete of user %s: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ads WHERE created_by = ?`, id); err != nil {
		return false, fmt.Errorf("deleting ads of user %s: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting user %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing delete of user %s: %w", id, err)
	}

	return affected > 0, nil
}

// EnsureAdmin creates the bootstrap administrator account unless a user with
// that email already exists. The admin is created verified. Idempotent.
func (s *UserStore) EnsureAdmin(ctx context.Context, name, email, password string) error {
	_, err := s.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	_, err = s.Create(ctx, model.User{
		Name:            name,
		Email:           email,
		PasswordHash:    passwordHash,
		IsAdmin:         true,
		IsEmailVerified: true,
	})
	if errors.Is(err, ErrEmailTaken) {
		// Lost a race against a concurrent bootstrap; the admin exists.
		return nil
	}
	return err
}

func (s *UserStore) scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var dob sql.NullTime
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.IsEmailVerified, &u.IsAdmin, &dob, &u.Description, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("scanning user: %w", err)
	}
	if dob.Valid {
		t := dob.Time
		u.DateOfBirth = &t
	}
	return u, nil
}

// nullableTime converts an optional time into its SQL representation.
func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// requireRow converts a zero-row update into ErrNotFound.
func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
