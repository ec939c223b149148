// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/studentmarket-go/internal/auth"
	"github.com/olegiv/studentmarket-go/internal/model"
	"github.com/olegiv/studentmarket-go/internal/service"
	"github.com/olegiv/studentmarket-go/internal/store"
)

// assertJSONResponse validates common JSON response properties.
func assertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantSuccess bool) map[string]any {
	t.Helper()

	if w.Code != wantStatus {
		t.Errorf("status code = %d, want %d", w.Code, wantStatus)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if success, ok := resp["success"].(bool); !ok || success != wantSuccess {
		t.Errorf("success = %v, want %v", resp["success"], wantSuccess)
	}

	return resp
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSONError(w, http.StatusBadRequest, "Invalid input")

	resp := assertJSONResponse(t, w, http.StatusBadRequest, false)
	if resp["error"] != "Invalid input" {
		t.Errorf("error = %v", resp["error"])
	}
}

func TestWriteJSONSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSONSuccess(w, map[string]any{"value": "x"})

	resp := assertJSONResponse(t, w, http.StatusOK, true)
	if resp["value"] != "x" {
		t.Errorf("value = %v", resp["value"])
	}
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", &model.ValidationError{Field: "title", Message: "too short"}, http.StatusBadRequest},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"email taken", store.ErrEmailTaken, http.StatusConflict},
		{"token expired", auth.ErrTokenExpired, http.StatusUnprocessableEntity},
		{"token invalid", auth.ErrTokenInvalid, http.StatusUnprocessableEntity},
		{"unknown", errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeServiceError(w, tt.err)
			assertJSONResponse(t, w, tt.wantStatus, false)
		})
	}
}

func TestWriteServiceError_NoLeak(t *testing.T) {
	w := httptest.NewRecorder()
	writeServiceError(w, errors.New("dsn user=admin password=hunter2"))

	resp := assertJSONResponse(t, w, http.StatusInternalServerError, false)
	if resp["error"] != "internal server error" {
		t.Errorf("internal error detail leaked: %v", resp["error"])
	}
}
