// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/studentmarket-go/internal/middleware"
	"github.com/olegiv/studentmarket-go/internal/service"
)

// dateOnly is the wire format for date_of_birth fields.
const dateOnly = "2006-01-02"

// AuthHandler handles registration, login, and account routes.
type AuthHandler struct {
	market         *service.Market
	sessionManager *scs.SessionManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(market *service.Market, sm *scs.SessionManager) *AuthHandler {
	return &AuthHandler{
		market:         market,
		sessionManager: sm,
	}
}

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Description string `json:"description,omitempty"`
}

// Register creates a new account and starts a session for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "date_of_birth must be in YYYY-MM-DD format")
		return
	}

	user, err := h.market.Register(r.Context(), service.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		DateOfBirth: dob,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and starts a session.
// The session token is renewed on every successful login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.market.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	writeJSONSuccess(w, map[string]any{"user": user})
}

// Logout destroys the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, nil)
}

// Profile returns the authenticated user's account.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSONSuccess(w, map[string]any{"user": user})
}

type profileRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateProfile edits the authenticated user's profile fields.
// Email and id cannot be changed through this endpoint.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "date_of_birth must be in YYYY-MM-DD format")
		return
	}

	updated, err := h.market.EditProfile(r.Context(), user.ID, service.ProfileInput{
		Name:        req.Name,
		DateOfBirth: dob,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONSuccess(w, map[string]any{"user": updated})
}

// DeleteAccount removes the authenticated user's account together with all
// their ads, then destroys the session.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.market.DeleteUser(r.Context(), user.ID, user.ID); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, nil)
}

// DeleteUser removes another user's account. Admin only, enforced by the
// service authorization check.
func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	targetID := chi.URLParam(r, "id")
	if err := h.market.DeleteUser(r.Context(), actor.ID, targetID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, nil)
}

// Verify redeems an email verification token delivered by link.
// Redeeming a token for an already-verified account succeeds quietly.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSONError(w, http.StatusBadRequest, "missing token")
		return
	}

	user, err := h.market.VerifyEmail(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSONSuccess(w, map[string]any{"user": user})
}

// ResendVerification sends a fresh verification email to the authenticated
// user. Already-verified accounts are a no-op.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.market.SendVerificationEmail(r.Context(), *user); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONSuccess(w, nil)
}

// parseDateOfBirth parses an optional YYYY-MM-DD date. Empty input means
// the field was omitted and returns nil.
func parseDateOfBirth(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
