package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cloudtask/cloudtask/internal/model"
)

// Common errors for task repository operations.
var (
	ErrTaskExists = errors.New("task id already exists")

	// ErrTaskNotOwned is returned when a conditional mutation matches no row.
	// A missing task and a task owned by someone else are deliberately
	// indistinguishable so callers cannot probe for other users' tasks.
	ErrTaskNotOwned = errors.New("task not found or not owned by caller")
)

// CreateTask inserts a new task into the database.
func (r *Repository) CreateTask(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (id, title, completed, owner_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Completed,
		task.OwnerEmail,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrTaskExists
		}
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// ListTasksByOwner retrieves all tasks belonging to the given owner,
// newest first. Served by the owner_email index.
func (r *Repository) ListTasksByOwner(ctx context.Context, ownerEmail string) ([]*model.Task, error) {
	query := `
		SELECT id, title, completed, owner_email, created_at, updated_at
		FROM tasks
		WHERE owner_email = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// DeleteTaskOwned deletes the task with the given id only if it belongs to
// ownerEmail. The ownership check and the delete are a single statement, so
// concurrent requests can never remove another owner's record.
func (r *Repository) DeleteTaskOwned(ctx context.Context, id, ownerEmail string) error {
	query := `
		DELETE FROM tasks
		WHERE id = $1 AND owner_email = $2
	`

	result, err := r.pool.Exec(ctx, query, id, ownerEmail)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTaskNotOwned
	}

	return nil
}

// UpdateTaskCompleted sets the completed flag on a task owned by ownerEmail
// and returns the updated record. Same atomic conditional shape as delete.
func (r *Repository) UpdateTaskCompleted(ctx context.Context, id string, completed bool, ownerEmail string) (*model.Task, error) {
	query := `
		UPDATE tasks
		SET completed = $3, updated_at = NOW()
		WHERE id = $1 AND owner_email = $2
		RETURNING id, title, completed, owner_email, created_at, updated_at
	`

	task, err := scanTask(r.pool.QueryRow(ctx, query, id, ownerEmail, completed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotOwned
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// scanTask scans a single row into a Task model.
func scanTask(row pgx.Row) (*model.Task, error) {
	var task model.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Completed,
		&task.OwnerEmail,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	return &task, err
}
