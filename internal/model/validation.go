// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Field length limits, counted in characters (not bytes).
const (
	NameMinLen     = 2
	NameMaxLen     = 100
	PasswordMinLen = 6
	UserDescMaxLen = 500
	TitleMinLen    = 3
	TitleMaxLen    = 200
	AdDescMinLen   = 10
	AdDescMaxLen   = 5000
)

// ValidationError reports a caller-supplied field that violates its
// constraints. Handlers surface it to the end user as a form error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateName checks a user display name (2-100 characters).
func ValidateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < NameMinLen || n > NameMaxLen {
		return invalid("name", "must be between %d and %d characters", NameMinLen, NameMaxLen)
	}
	return nil
}

// ValidateEmail checks that email parses as a bare address.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "invalid email address")
	}
	return nil
}

// ValidatePassword checks a raw registration password.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < PasswordMinLen {
		return invalid("password", "must be at least %d characters", PasswordMinLen)
	}
	return nil
}

// ValidateUserDescription checks the optional profile free text.
func ValidateUserDescription(description string) error {
	if utf8.RuneCountInString(description) > UserDescMaxLen {
		return invalid("description", "must be at most %d characters", UserDescMaxLen)
	}
	return nil
}

// ValidateAdTitle checks an ad title (3-200 characters).
func ValidateAdTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < TitleMinLen || n > TitleMaxLen {
		return invalid("title", "must be between %d and %d characters", TitleMinLen, TitleMaxLen)
	}
	return nil
}

// ValidateAdDescription checks the markdown source of an ad (10-5000 characters).
func ValidateAdDescription(description string) error {
	n := utf8.RuneCountInString(description)
	if n < AdDescMinLen || n > AdDescMaxLen {
		return invalid("description", "must be between %d and %d characters", AdDescMinLen, AdDescMaxLen)
	}
	return nil
}

// ValidateCategory checks a storable ad category.
func ValidateCategory(category string) error {
	if !IsValidCategory(category) {
		return invalid("category", "unknown category %q", category)
	}
	return nil
}
