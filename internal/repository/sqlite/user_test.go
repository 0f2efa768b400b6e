package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/campus-clubs/internal/apperror"
	"github.com/sakif/campus-clubs/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// Using ":memory:" creates a fresh database that exists only during the test.
// Benefits:
// - Fast: no disk I/O
// - Isolated: each test gets its own database
// - Clean: automatically destroyed when the connection closes
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, name string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		PasswordHash: "$2a$04$notarealhashbutlookslikeone",
		Role:         role,
		Email:        name + "@campus.edu",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Name:         "ann",
		PasswordHash: "hash",
		Role:         model.RoleStudent,
		Email:        "ann@campus.edu",
	}

	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	// The struct is modified in-place (pointer receiver).
	if user.ID == "" {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set user.CreatedAt")
	}
}

func TestCreateUser_DuplicateName(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "chess-club", model.RoleClub)

	dup := &model.User{
		Name:         "chess-club",
		PasswordHash: "other-hash",
		Role:         model.RoleClub,
	}

	err := db.CreateUser(context.Background(), dup)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("CreateUser() error = %v, want ErrConflict", err)
	}
}

func TestGetUserByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "ann", model.RoleStudent)

	got, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}

	if got.Name != "ann" {
		t.Errorf("Name = %q, want %q", got.Name, "ann")
	}
	if got.Role != model.RoleStudent {
		t.Errorf("Role = %q, want %q", got.Role, model.RoleStudent)
	}
	if got.Email != "ann@campus.edu" {
		t.Errorf("Email = %q, want %q", got.Email, "ann@campus.edu")
	}
	if got.PasswordHash != created.PasswordHash {
		t.Error("PasswordHash did not round-trip")
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetUserByID() error = %v, want ErrNotFound", err)
	}
}

func TestGetUserByName(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "dean", model.RoleAuthority)

	got, err := db.GetUserByName(context.Background(), "dean")
	if err != nil {
		t.Fatalf("GetUserByName() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}
}

func TestGetUserByName_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByName(context.Background(), "ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetUserByName() error = %v, want ErrNotFound", err)
	}
}
