package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/olegiv/studentmarket-go/internal/model"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "studentmarket-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

// newTestUser builds an unsaved user record for email.
func newTestUser(email string) model.User {
	return model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashed-password",
	}
}

// createUser inserts a user with sane defaults and returns it.
func createUser(t *testing.T, s *UserStore, email string) model.User {
	t.Helper()

	user, err := s.Create(context.Background(), newTestUser(email))
	if err != nil {
		t.Fatalf("Create(%s): %v", email, err)
	}
	return user
}

// createAd inserts an ad owned by ownerID and returns it.
func createAd(t *testing.T, s *AdStore, ownerID, title string) model.Ad {
	t.Helper()

	ad := model.Ad{
		Title:       title,
		Description: "A perfectly good description.",
		Category:    model.CategoryBooks,
		CreatedBy:   ownerID,
	}
	if err := s.Save(context.Background(), &ad); err != nil {
		t.Fatalf("Save(%s): %v", title, err)
	}
	return ad
}
