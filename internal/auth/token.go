// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued verification token stays redeemable.
const TokenTTL = time.Hour

// Token redemption failures.
var (
	// ErrTokenInvalid means the token is malformed, carries a bad signature,
	// or was signed with an unexpected algorithm.
	ErrTokenInvalid = errors.New("verification token is invalid")
	// ErrTokenExpired means the signature checks out but the token's
	// lifetime has elapsed.
	ErrTokenExpired = errors.New("verification token has expired")
)

// TokenIssuer issues and redeems email verification tokens. Tokens are HS256
// JWTs carrying the user id as subject; no server-side state is kept, so
// rotating the secret invalidates every outstanding token.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer signing with secret. The clock
// defaults to time.Now; override it with WithClock in tests.
func NewTokenIssuer(secret []byte) *TokenIssuer {
	return &TokenIssuer{
		secret: secret,
		ttl:    TokenTTL,
		now:    time.Now,
	}
}

// WithClock returns a copy of the issuer that reads time from now.
func (ti *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	return &TokenIssuer{secret: ti.secret, ttl: ti.ttl, now: now}
}

// Issue produces a signed token for userID expiring after the TTL.
func (ti *TokenIssuer) Issue(userID string) (string, error) {
	now := ti.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
	})
	return token.SignedString(ti.secret)
}

// Redeem validates tokenString and returns the embedded user id.
// Returns ErrTokenExpired for a well-signed but stale token and
// ErrTokenInvalid for everything else.
func (ti *TokenIssuer) Redeem(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return ti.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}
