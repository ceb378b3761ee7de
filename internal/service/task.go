package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cloudtask/cloudtask/internal/metrics"
	"github.com/cloudtask/cloudtask/internal/model"
	"github.com/cloudtask/cloudtask/internal/repository"
)

// Task service errors.
var (
	ErrInvalidTitle  = errors.New("title is required")
	ErrInvalidTaskID = errors.New("invalid task id format")
	ErrTaskExists    = errors.New("task id already exists")

	// ErrForbidden covers both "task missing" and "task owned by someone
	// else" so the API never leaks whether another user's task exists.
	ErrForbidden = errors.New("task not found or not owned by caller")
)

const maxTitleLength = 500

// taskIDRegex constrains caller-suggested ids. Generated ids are ULIDs and
// always match.
var taskIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// TaskStore is the persistence surface TaskService needs. Conditional
// mutations must evaluate the ownership check atomically at the storage layer.
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	ListTasksByOwner(ctx context.Context, ownerEmail string) ([]*model.Task, error)
	DeleteTaskOwned(ctx context.Context, id, ownerEmail string) error
	UpdateTaskCompleted(ctx context.Context, id string, completed bool, ownerEmail string) (*model.Task, error)
}

// TaskService handles task business logic.
type TaskService struct {
	store   TaskStore
	metrics metrics.Recorder
}

// NewTaskService creates a new TaskService.
func NewTaskService(store TaskStore, recorder metrics.Recorder) *TaskService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskService{
		store:   store,
		metrics: recorder,
	}
}

// CreateTaskInput defines input for creating a task.
type CreateTaskInput struct {
	// SuggestedID is honored when present and well-formed; uniqueness is
	// enforced by the store's primary key, not trusted from the caller.
	SuggestedID string
	Title       string
	Completed   bool
	OwnerEmail  string
}

// CreateTask creates a task stamped with its owner.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*model.Task, error) {
	if input.Title == "" || len(input.Title) > maxTitleLength {
		return nil, ErrInvalidTitle
	}

	id := input.SuggestedID
	if id != "" {
		if !taskIDRegex.MatchString(id) {
			return nil, ErrInvalidTaskID
		}
	} else {
		id = ulid.Make().String()
	}

	now := time.Now().UTC()
	task := &model.Task{
		ID:         id,
		Title:      input.Title,
		Completed:  input.Completed,
		OwnerEmail: input.OwnerEmail,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		if errors.Is(err, repository.ErrTaskExists) {
			return nil, ErrTaskExists
		}
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.metrics.IncTaskCreated()

	return task, nil
}

// ListTasks returns the caller's tasks, newest first. Listing is always
// owner-scoped; there is no way to enumerate other users' tasks.
func (s *TaskService) ListTasks(ctx context.Context, ownerEmail string) ([]*model.Task, error) {
	tasks, err := s.store.ListTasksByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// DeleteTask deletes a task if and only if the caller owns it.
// The failure is idempotent: retrying yields the same result.
func (s *TaskService) DeleteTask(ctx context.Context, id, ownerEmail string) error {
	if err := s.store.DeleteTaskOwned(ctx, id, ownerEmail); err != nil {
		if errors.Is(err, repository.ErrTaskNotOwned) {
			s.metrics.IncTaskDeleteForbidden()
			return ErrForbidden
		}
		return fmt.Errorf("delete task: %w", err)
	}

	s.metrics.IncTaskDeleted()

	return nil
}

// UpdateTaskCompleted sets the completion flag on a task the caller owns.
// The operation is idempotent; applying the same flag twice is a no-op.
func (s *TaskService) UpdateTaskCompleted(ctx context.Context, id string, completed bool, ownerEmail string) (*model.Task, error) {
	task, err := s.store.UpdateTaskCompleted(ctx, id, completed, ownerEmail)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotOwned) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.metrics.IncTaskUpdated()

	return task, nil
}
