// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service composes the stores, the credential and token modules, and
// the mail collaborator into the application-level marketplace operations.
// Handlers talk to this package only; raw store errors never cross it
// untranslated.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/studentmarket-go/internal/auth"
	"github.com/olegiv/studentmarket-go/internal/cache"
	"github.com/olegiv/studentmarket-go/internal/mailer"
	"github.com/olegiv/studentmarket-go/internal/model"
	"github.com/olegiv/studentmarket-go/internal/store"
)

var (
	// ErrForbidden is returned when the acting user lacks permission for the
	// requested mutation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials is returned on login for unknown emails and wrong
	// passwords alike, so the two cases cannot be told apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Market is the domain facade over users, ads, tokens, mail, and the
// listing cache.
type Market struct {
	users   *store.UserStore
	ads     *store.AdStore
	tokens  *auth.TokenIssuer
	mail    mailer.Mailer
	cache   cache.Cache
	baseURL string
}

// NewMarket creates the facade. baseURL is the externally reachable origin
// used to build verification links, e.g. "https://market.example.edu".
func NewMarket(users *store.UserStore, ads *store.AdStore, tokens *auth.TokenIssuer, mail mailer.Mailer, c cache.Cache, baseURL string) *Market {
	return &Market{
		users:   users,
		ads:     ads,
		tokens:  tokens,
		mail:    mail,
		cache:   c,
		baseURL: baseURL,
	}
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	DateOfBirth *time.Time
	Description string
}

func (in RegisterInput) validate() error {
	if err := model.ValidateName(in.Name); err != nil {
		return err
	}
	if err := model.ValidateEmail(in.Email); err != nil {
		return err
	}
	if err := model.ValidatePassword(in.Password); err != nil {
		return err
	}
	return model.ValidateUserDescription(in.Description)
}

// Register creates a new account and sends the verification email. The mail
// is fire-and-forget: a delivery failure is logged and never rolls back the
// created user. Returns store.ErrEmailTaken for duplicate registrations.
func (m *Market) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	if err := in.validate(); err != nil {
		return model.User{}, err
	}

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := m.users.Create(ctx, model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: passwordHash,
		DateOfBirth:  in.DateOfBirth,
		Description:  in.Description,
	})
	if err != nil {
		return model.User{}, err
	}

	if err := m.SendVerificationEmail(ctx, user); err != nil {
		slog.Error("sending verification email failed", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// Login authenticates an email/password pair and returns the account.
func (m *Market) Login(ctx context.Context, email, password string) (model.User, error) {
	user, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return model.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	Name        string
	DateOfBirth *time.Time
	Description string
}

// EditProfile updates a user's own profile fields and returns the updated
// record. Email and id are immutable.
func (m *Market) EditProfile(ctx context.Context, userID string, in ProfileInput) (model.User, error) {
	if err := model.ValidateName(in.Name); err != nil {
		return model.User{}, err
	}
	if err := model.ValidateUserDescription(in.Description); err != nil {
		return model.User{}, err
	}

	if err := m.users.UpdateProfile(ctx, userID, in.Name, in.DateOfBirth, in.Description); err != nil {
		return model.User{}, err
	}

	return m.users.GetByID(ctx, userID)
}

// GetUser returns the user with the given id.
func (m *Market) GetUser(ctx context.Context, id string) (model.User, error) {
	return m.users.GetByID(ctx, id)
}

// DeleteUser removes target's account and every ad it owns. Users may delete
// themselves; admins may delete anyone.
func (m *Market) DeleteUser(ctx context.Context, actorID, targetID string) error {
	actor, err := m.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.CanModify(targetID) {
		return ErrForbidden
	}

	ok, err := m.users.Delete(ctx, targetID)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}

	// The cascade removed the target's ads.
	m.invalidateListings(ctx)
	return nil
}

// SendVerificationEmail issues a fresh token for user and mails the
// verification link. Already-verified accounts are skipped.
func (m *Market) SendVerificationEmail(ctx context.Context, user model.User) error {
	if user.IsEmailVerified {
		return nil
	}

	token, err := m.tokens.Issue(user.ID)
	if err != nil {
		return fmt.Errorf("issuing verification token: %w", err)
	}

	link := m.baseURL + "/auth/verify?token=" + token
	text := fmt.Sprintf(
		"Hi %s,\n\nPlease confirm your email address by opening the link below within one hour:\n\n%s\n\nIf you did not register, ignore this message.\n",
		user.Name, link,
	)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Please confirm your email address by clicking <a href=%q>this link</a> within one hour.</p><p>If you did not register, ignore this message.</p>`,
		user.Name, link,
	)

	return m.mail.Send(ctx, user.Email, "Confirm your email address", text, html)
}

// VerifyEmail redeems a verification token and marks the account verified.
// Redeeming a token for an already-verified account is a no-op success, which
// makes the operation idempotent without any replay store.
func (m *Market) VerifyEmail(ctx context.Context, token string) (model.User, error) {
	userID, err := m.tokens.Redeem(token)
	if err != nil {
		return model.User{}, err
	}

	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if user.IsEmailVerified {
		return user, nil
	}

	if err := m.users.SetEmailVerified(ctx, user.ID); err != nil {
		return model.User{}, err
	}
	user.IsEmailVerified = true

	return user, nil
}
