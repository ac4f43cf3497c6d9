// ABOUTME: Tests for the task time accessors
// ABOUTME: Guards the dual meaning of the CompletedAt field
package models

import (
	"testing"
	"time"
)

func TestCompletionTimeRequiresCompletedStatus(t *testing.T) {
	end := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	task := &Task{Status: TaskStatusPending, CompletedAt: &end}

	// A pending task's CompletedAt is a block end, not a completion time
	if task.CompletionTime() != nil {
		t.Error("pending task must not report a completion time")
	}

	task.Status = TaskStatusCompleted
	got := task.CompletionTime()
	if got == nil || !got.Equal(end) {
		t.Errorf("completed task should report %v, got %v", end, got)
	}
}

func TestScheduledEndTimePriority(t *testing.T) {
	due := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	stored := due.Add(45 * time.Minute)

	cases := []struct {
		name string
		task Task
		want *time.Time
	}{
		{"unscheduled", Task{}, nil},
		{"stored block end wins", Task{DueDate: &due, CompletedAt: &stored, EstimatedDurationMinutes: 90}, &stored},
		{"estimate", Task{DueDate: &due, EstimatedDurationMinutes: 90}, timePtr(due.Add(90 * time.Minute))},
		{"thirty minute default", Task{DueDate: &due}, timePtr(due.Add(30 * time.Minute))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.task.ScheduledEndTime()
			if tc.want == nil {
				if got != nil {
					t.Errorf("expected nil end, got %v", got)
				}
				return
			}
			if got == nil || !got.Equal(*tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestTokenRecordExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	rec := &TokenRecord{}
	if rec.Expired(now) {
		t.Error("record without expiry should never be expired")
	}

	past := now.Add(-time.Minute)
	rec.ExpiresAt = &past
	if !rec.Expired(now) {
		t.Error("past expiry should read as expired")
	}

	future := now.Add(time.Minute)
	rec.ExpiresAt = &future
	if rec.Expired(now) {
		t.Error("future expiry should not read as expired")
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
