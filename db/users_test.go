// ABOUTME: Tests for the user existence lookup
// ABOUTME: Covers empty databases, per-table ownership, and token-only users
package db

import (
	"testing"

	"github.com/harperreed/daydash/models"
)

func TestUserExistsEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)

	exists, err := UserExists(db, "nobody")
	if err != nil {
		t.Fatalf("UserExists failed: %v", err)
	}
	if exists {
		t.Error("Expected no user in an empty database")
	}
}

func TestUserExistsWithTask(t *testing.T) {
	db := setupTestDB(t)

	task := &models.Task{UserID: "user-1", Title: "Write report"}
	if err := CreateTask(db, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	exists, err := UserExists(db, "user-1")
	if err != nil {
		t.Fatalf("UserExists failed: %v", err)
	}
	if !exists {
		t.Error("Expected user with a task to exist")
	}

	exists, err = UserExists(db, "user-2")
	if err != nil {
		t.Fatalf("UserExists failed: %v", err)
	}
	if exists {
		t.Error("Expected unknown user to not exist")
	}
}

func TestUserExistsWithTokenOnly(t *testing.T) {
	db := setupTestDB(t)

	store := NewTokenStore(db)
	err := store.Upsert("reconnecter", &models.TokenRecord{
		AccessToken: "access",
		TokenType:   "Bearer",
	})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	exists, err := UserExists(db, "reconnecter")
	if err != nil {
		t.Fatalf("UserExists failed: %v", err)
	}
	if !exists {
		t.Error("Expected user with a stored token to exist")
	}
}
