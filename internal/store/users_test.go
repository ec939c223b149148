package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateUser(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	users := NewUserStore(db)
	user := createUser(t, users, "test@example.com")

	if user.ID == "" {
		t.Error("user.ID should not be empty")
	}
	if user.Email != "test@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "test@example.com")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestCreateUser_EmailLowercased(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	users := NewUserStore(db)
	user := createUser(t, users, "Student@Campus.EDU")

	if user.Email != "student@campus.edu" {
		t.Errorf("Email = %q, want lowercased", user.Email)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	users := NewUserStore(db)
	createUser(t, users, "dupe@example.com")

	if _, err := users.Create(context.Background(), newTestUser("dupe@example.com")); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate Create error = %v, want ErrEmailTaken", err)
	}
	// Case variants collide too
	if _, err := users.Create(context.Background(), newTestUser("DUPE@example.com")); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("case-variant Create error = %v, want ErrEmailTaken", err)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	users := NewUserStore(db)
	created := createUser(t, users, "student@campus.edu")

	got, err := users.GetByEmail(context.Background(), "STUDENT@Campus.edu")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByEmail returned user %s, want %s", got.ID, created.ID)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	users := NewUserStore(db)

	if _, err := users.GetByID(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID error = %v, want ErrNotFound", err)
	}
	if _, err := users.GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByEmail error = %v, want ErrNotFound", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	users := NewUserStore(db)
	user := createUser(t, users, "edit@example.com")

	dob := time.Date(2004, 5, 17, 0, 0, 0, 0, time.UTC)
	if err := users.UpdateProfile(context.Background(), user.ID, "New Name", &dob, "About me"); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	got, err := users.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "New Name" {
		t.Errorf("Name = %q, want %q", got.Name, "New Name")
	}
	if got.DateOfBirth == nil || !got.DateOfBirth.Equal(dob) {
		t.Errorf("DateOfBirth = %v, want %v", got.DateOfBirth, dob)
	}
	if got.Email != "edit@example.com" {
		t.Errorf("Email changed to %q", got.Email)
	}
}

func TestUpdateProfile_NotFound(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	users := NewUserStore(db)
	if err := users.UpdateProfile(context.Background(), "no-such-id", "Name", nil, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateProfile error = %v, want ErrNotFound", err)
	}
}

func TestSetEmailVerified(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	users := NewUserStore(db)
	user := createUser(t, users, "verify@example.com")

	if err := users.SetEmailVerified(context.Background(), user.ID); err != nil {
		t.Fatalf("SetEmailVerified: %v", err)
	}
	// Verifying twice is a no-op success
	if err := users.SetEmailVerified(context.Background(), user.ID); err != nil {
		t.Fatalf("second SetEmailVerified: %v", err)
	}

	got, err := users.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.IsEmailVerified {
		t.Error("IsEmailVerified = false after SetEmailVerified")
	}
}

func TestDeleteUser_CascadesAds(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	users := NewUserStore(db)
	ads := NewAdStore(db)

	owner := createUser(t, users, "owner@example.com")
	other := createUser(t, users, "other@example.com")

	createAd(t, ads, owner.ID, "Owner ad one")
	createAd(t, ads, owner.ID, "Owner ad two")
	createAd(t, ads, owner.ID, "Owner ad three")
	kept := createAd(t, ads, other.ID, "Other user ad")

	deleted, err := users.Delete(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("Delete returned false for an existing user")
	}

	if _, err := users.GetByID(ctx, owner.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted user still readable: %v", err)
	}

	_, total, err := ads.List(ctx, AdFilter{OwnerID: owner.ID}, 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 {
		t.Errorf("deleted user still owns %d ads", total)
	}

	if _, err := ads.GetByID(ctx, kept.ID); err != nil {
		t.Errorf("unrelated ad was deleted: %v", err)
	}
}

func TestDeleteUser_Missing(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	users := NewUserStore(db)
	deleted, err := users.Delete(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted {
		t.Error("Delete returned true for a missing user")
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	users := NewUserStore(db)

	if err := users.EnsureAdmin(ctx, "Admin", "admin@campus.edu", "changeme"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if err := users.EnsureAdmin(ctx, "Admin", "admin@campus.edu", "different-password"); err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}

	admin, err := users.GetByEmail(ctx, "admin@campus.edu")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if !admin.IsAdmin {
		t.Error("bootstrap user is not an admin")
	}
	if !admin.IsEmailVerified {
		t.Error("bootstrap admin is not verified")
	}
}
