// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain records of the marketplace: User, Ad,
// and the field validation rules applied at the service boundary.
package model

import (
	"time"
)

// User represents a marketplace account.
type User struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"` // Never expose in JSON
	IsEmailVerified bool       `json:"is_email_verified"`
	IsAdmin         bool       `json:"is_admin"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	Description     string     `json:"description,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CanModify reports whether the user may edit or delete a resource owned by
// ownerID. Owners may modify their own resources; admins may modify any.
func (u *User) CanModify(ownerID string) bool {
	return u.IsAdmin || u.ID == ownerID
}
