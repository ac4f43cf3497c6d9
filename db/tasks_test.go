// ABOUTME: Tests for task database operations
// ABOUTME: Covers CRUD, day-window queries, and schedule write-back
package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/daydash/models"
)

func TestCreateTask(t *testing.T) {
	db := setupTestDB(t)

	task := &models.Task{
		UserID: "user-1",
		Title:  "Write report",
	}

	if err := CreateTask(db, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Task ID was not set")
	}
	if task.Status != models.TaskStatusPending {
		t.Errorf("Expected default status pending, got %s", task.Status)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("Expected default priority medium, got %s", task.Priority)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	db := setupTestDB(t)

	task, err := GetTask(db, uuid.New())
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if task != nil {
		t.Error("Expected nil for missing task")
	}
}

func TestFindTasksForDay(t *testing.T) {
	db := setupTestDB(t)
	loc := time.UTC

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	onDay := day.Add(9 * time.Hour)
	offDay := day.AddDate(0, 0, 1).Add(9 * time.Hour)

	for _, task := range []*models.Task{
		{UserID: "user-1", Title: "scheduled", DueDate: &onDay},
		{UserID: "user-1", Title: "tomorrow", DueDate: &offDay},
		{UserID: "user-1", Title: "unscheduled"},
		{UserID: "user-2", Title: "someone else", DueDate: &onDay},
	} {
		if err := CreateTask(db, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	tasks, err := FindTasksForDay(db, "user-1", day, loc)
	if err != nil {
		t.Fatalf("FindTasksForDay failed: %v", err)
	}

	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "scheduled" {
		t.Errorf("Expected scheduled task, got %s", tasks[0].Title)
	}
}

func TestUpdateTaskSchedule(t *testing.T) {
	db := setupTestDB(t)

	due := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	task := &models.Task{UserID: "user-1", Title: "movable", DueDate: &due}
	if err := CreateTask(db, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 14, 45, 0, 0, time.UTC)

	if err := UpdateTaskSchedule(db, task.ID, start, end, 45); err != nil {
		t.Fatalf("UpdateTaskSchedule failed: %v", err)
	}

	found, err := GetTask(db, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}

	if found.DueDate == nil || !found.DueDate.Equal(start) {
		t.Errorf("Expected due date %v, got %v", start, found.DueDate)
	}
	if found.CompletedAt == nil || !found.CompletedAt.Equal(end) {
		t.Errorf("Expected completed at %v, got %v", end, found.CompletedAt)
	}
	if found.EstimatedDurationMinutes != 45 {
		t.Errorf("Expected 45 minute estimate, got %d", found.EstimatedDurationMinutes)
	}
}

func TestUpdateAndDeleteTask(t *testing.T) {
	db := setupTestDB(t)

	task := &models.Task{UserID: "user-1", Title: "original"}
	if err := CreateTask(db, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	task.Title = "renamed"
	task.Status = models.TaskStatusCompleted
	now := time.Now()
	task.CompletedAt = &now

	if err := UpdateTask(db, task); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	found, err := GetTask(db, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if found.Title != "renamed" {
		t.Errorf("Expected renamed title, got %s", found.Title)
	}
	if found.Status != models.TaskStatusCompleted {
		t.Errorf("Expected completed status, got %s", found.Status)
	}

	if err := DeleteTask(db, task.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	found, err = GetTask(db, task.ID)
	if err != nil {
		t.Fatalf("GetTask after delete failed: %v", err)
	}
	if found != nil {
		t.Error("Expected task to be deleted")
	}
}
