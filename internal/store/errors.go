// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "errors"

var (
	// ErrNotFound is returned when a record does not exist. Lookups with a
	// malformed id resolve to ErrNotFound as well, never to a parse error.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when creating a user with an email address
	// that is already registered (case-insensitively).
	ErrEmailTaken = errors.New("email already registered")
)
