// ABOUTME: Tests for journal entry database operations
// ABOUTME: Covers per-day lookup and mood score persistence
package db

import (
	"testing"
	"time"

	"github.com/harperreed/daydash/models"
)

func TestJournalEntryForDay(t *testing.T) {
	db := setupTestDB(t)
	loc := time.UTC

	entry := &models.JournalEntry{
		UserID:    "user-1",
		Content:   "Productive morning",
		Mood:      "good",
		MoodValue: models.MoodValues["good"],
	}
	if err := CreateJournalEntry(db, entry); err != nil {
		t.Fatalf("CreateJournalEntry failed: %v", err)
	}

	found, err := GetJournalEntryForDay(db, "user-1", time.Now(), loc)
	if err != nil {
		t.Fatalf("GetJournalEntryForDay failed: %v", err)
	}
	if found == nil {
		t.Fatal("Expected entry for today")
	}
	if found.MoodValue != 3 {
		t.Errorf("Expected mood value 3, got %d", found.MoodValue)
	}

	// No entry for a different day
	found, err = GetJournalEntryForDay(db, "user-1", time.Now().AddDate(0, 0, -1), loc)
	if err != nil {
		t.Fatalf("GetJournalEntryForDay failed: %v", err)
	}
	if found != nil {
		t.Error("Expected no entry for yesterday")
	}
}

func TestUpdateJournalEntry(t *testing.T) {
	db := setupTestDB(t)

	entry := &models.JournalEntry{UserID: "user-1", Content: "draft", Mood: "okay"}
	if err := CreateJournalEntry(db, entry); err != nil {
		t.Fatalf("CreateJournalEntry failed: %v", err)
	}

	entry.Content = "revised"
	entry.Mood = "awesome"
	entry.MoodValue = models.MoodValues["awesome"]
	if err := UpdateJournalEntry(db, entry); err != nil {
		t.Fatalf("UpdateJournalEntry failed: %v", err)
	}

	entries, err := FindJournalEntries(db, "user-1", 10)
	if err != nil {
		t.Fatalf("FindJournalEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Content != "revised" || entries[0].MoodValue != 5 {
		t.Errorf("Update not persisted: %+v", entries[0])
	}
}
