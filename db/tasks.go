// ABOUTME: Task database operations
// ABOUTME: Handles CRUD, day-window queries, and schedule write-back for tasks
package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/daydash/models"
)

const taskColumns = `id, user_id, title, description, status, priority,
	due_date, completed_at, estimated_duration_minutes, created_at, updated_at`

func CreateTask(db *sql.DB, task *models.Task) error {
	task.ID = uuid.New()
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	_, err := db.Exec(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID.String(), task.UserID, task.Title, task.Description, task.Status,
		task.Priority, task.DueDate, task.CompletedAt, task.EstimatedDurationMinutes,
		task.CreatedAt, task.UpdatedAt)

	return err
}

func GetTask(db *sql.DB, id uuid.UUID) (*models.Task, error) {
	row := db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id.String())
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// FindTasksForDay returns the user's tasks whose due date falls on the given
// calendar day in loc, newest first. Tasks without a due date are excluded.
func FindTasksForDay(db *sql.DB, userID string, day time.Time, loc *time.Location) ([]models.Task, error) {
	start := time.Date(day.In(loc).Year(), day.In(loc).Month(), day.In(loc).Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	rows, err := db.Query(`
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND due_date >= ? AND due_date < ?
		ORDER BY due_date ASC
	`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTasks(rows)
}

func FindTasks(db *sql.DB, userID string, limit int) ([]models.Task, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Query(`
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTasks(rows)
}

func UpdateTask(db *sql.DB, task *models.Task) error {
	task.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?,
			due_date = ?, completed_at = ?, estimated_duration_minutes = ?, updated_at = ?
		WHERE id = ?
	`, task.Title, task.Description, task.Status, task.Priority, task.DueDate,
		task.CompletedAt, task.EstimatedDurationMinutes, task.UpdatedAt, task.ID.String())

	return err
}

// UpdateTaskSchedule commits a moved or resized time-block: due_date becomes
// the block start, completed_at the block end, and the estimate its length.
func UpdateTaskSchedule(db *sql.DB, id uuid.UUID, start, end time.Time, durationMinutes int) error {
	_, err := db.Exec(`
		UPDATE tasks SET due_date = ?, completed_at = ?,
			estimated_duration_minutes = ?, updated_at = ?
		WHERE id = ?
	`, start, end, durationMinutes, time.Now(), id.String())

	return err
}

func DeleteTask(db *sql.DB, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM tasks WHERE id = ?`, id.String())
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var description sql.NullString

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.CompletedAt,
		&task.EstimatedDurationMinutes,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	return task, nil
}

func collectTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}
