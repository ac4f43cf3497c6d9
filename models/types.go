// ABOUTME: Data models for dashboard entities
// ABOUTME: Defines Task, Goal, Habit, JournalEntry, QuickNote, and TokenRecord structs
package models

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	// CompletedAt carries two meanings: the completion timestamp when the
	// task is done, and the end instant of the scheduled time-block when the
	// task has a DueDate. Read it through CompletionTime or ScheduledEndTime
	// rather than directly.
	CompletedAt              *time.Time `json:"completed_at,omitempty"`
	EstimatedDurationMinutes int        `json:"estimated_duration_minutes,omitempty"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

// CompletionTime returns when the task was finished, or nil if it isn't
// completed. Guards the CompletedAt overload against block-end reads.
func (t *Task) CompletionTime() *time.Time {
	if t.Status != TaskStatusCompleted {
		return nil
	}
	return t.CompletedAt
}

// ScheduledEndTime returns the end instant of the task's time-block.
// Priority: explicit CompletedAt, then DueDate plus the estimated duration,
// then DueDate plus a 30 minute default. Nil when the task is unscheduled.
func (t *Task) ScheduledEndTime() *time.Time {
	if t.DueDate == nil {
		return nil
	}
	if t.CompletedAt != nil {
		return t.CompletedAt
	}
	minutes := t.EstimatedDurationMinutes
	if minutes <= 0 {
		minutes = 30
	}
	end := t.DueDate.Add(time.Duration(minutes) * time.Minute)
	return &end
}

// Goal statuses.
const (
	GoalOnTrack  = "on_track"
	GoalAtRisk   = "at_risk"
	GoalAchieved = "achieved"
)

type Goal struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Timeframe  string    `json:"timeframe"`
	Status     string    `json:"status"`
	IsPriority bool      `json:"is_priority"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Habit struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	CurrentStreak int       `json:"current_streak"`
	LongestStreak int       `json:"longest_streak"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type HabitLog struct {
	ID          uuid.UUID `json:"id"`
	HabitID     uuid.UUID `json:"habit_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// MoodValues maps journal moods to their numeric score.
var MoodValues = map[string]int{
	"bad":     -3,
	"okay":    0,
	"good":    3,
	"awesome": 5,
}

type JournalEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood"`
	MoodValue int       `json:"mood_value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type QuickNote struct {
	ID        uuid.UUID  `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags"`
	GoalID    *uuid.UUID `json:"goal_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TokenRecord holds one user's OAuth credentials for the calendar provider.
// At most one record exists per user; it is replaced wholesale on refresh.
type TokenRecord struct {
	UserID       string     `json:"user_id"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	TokenType    string     `json:"token_type"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Scope        string     `json:"scope,omitempty"`
}

// Expired reports whether the access token's expiry has passed. Records
// without an expiry are treated as still valid.
func (r *TokenRecord) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}
