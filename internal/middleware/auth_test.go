// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/studentmarket-go/internal/model"
	"github.com/olegiv/studentmarket-go/internal/store"
	"github.com/olegiv/studentmarket-go/internal/testutil"
)

func TestRequireUser_Unauthenticated(t *testing.T) {
	sm := scs.New()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	h := sm.LoadAndSave(RequireUser(sm)(next))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/users/me", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if called {
		t.Error("next handler ran without a session")
	}
}

func TestRequireUser_Authenticated(t *testing.T) {
	sm := scs.New()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	// Establish the session inside the request, then run the guarded chain
	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), SessionKeyUserID, "user-1")
		RequireUser(sm)(next).ServeHTTP(w, r)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/users/me", nil))

	if !called {
		t.Error("next handler did not run for an authenticated session")
	}
}

func TestLoadUser(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	users := store.NewUserStore(db)
	created, err := users.Create(context.Background(), model.User{
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sm := scs.New()

	var got *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
	})

	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), SessionKeyUserID, created.ID)
		LoadUser(sm, users)(next).ServeHTTP(w, r)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/users/me", nil))

	if got == nil {
		t.Fatal("user missing from context")
	}
	if got.ID != created.ID {
		t.Errorf("context user = %s, want %s", got.ID, created.ID)
	}
}

func TestLoadUser_DeletedAccount(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	users := store.NewUserStore(db)
	sm := scs.New()

	var got *model.User
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = UserFromContext(r.Context())
	})

	// Session points at a user that no longer exists
	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), SessionKeyUserID, "deleted-user-id")
		LoadUser(sm, users)(next).ServeHTTP(w, r)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/users/me", nil))

	if ok || got != nil {
		t.Error("stale session still resolved to a user")
	}
}
