package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudtask/cloudtask/internal/metrics"
	"github.com/cloudtask/cloudtask/internal/model"
	"github.com/cloudtask/cloudtask/internal/repository"
)

// fakeTaskStore is an in-memory TaskStore keyed by task id. Its conditional
// mutations mirror the SQL semantics: ownership is checked in the same step
// as the write.
type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[string]*model.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[string]*model.Task)}
}

func (s *fakeTaskStore) CreateTask(_ context.Context, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tasks[task.ID]; exists {
		return repository.ErrTaskExists
	}
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *fakeTaskStore) ListTasksByOwner(_ context.Context, ownerEmail string) ([]*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*model.Task
	for _, task := range s.tasks {
		if task.OwnerEmail == ownerEmail {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *fakeTaskStore) DeleteTaskOwned(_ context.Context, id, ownerEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || task.OwnerEmail != ownerEmail {
		return repository.ErrTaskNotOwned
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeTaskStore) UpdateTaskCompleted(_ context.Context, id string, completed bool, ownerEmail string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || task.OwnerEmail != ownerEmail {
		return nil, repository.ErrTaskNotOwned
	}
	task.Completed = completed
	task.UpdatedAt = time.Now().UTC()
	copied := *task
	return &copied, nil
}

func newTestTaskService() (*TaskService, *fakeTaskStore, *metrics.InMemoryRecorder) {
	store := newFakeTaskStore()
	recorder := metrics.NewInMemory()
	return NewTaskService(store, recorder), store, recorder
}

func TestTaskService_CreateTask_GeneratedID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, recorder := newTestTaskService()

	task, err := svc.CreateTask(ctx, CreateTaskInput{
		Title:      "Write report",
		OwnerEmail: "alice@example.com",
	})
	require.NoError(t, err)

	// Generated ids are ULIDs: 26 chars of Crockford base32.
	assert.Len(t, task.ID, 26)
	assert.Equal(t, "Write report", task.Title)
	assert.False(t, task.Completed)
	assert.Equal(t, "alice@example.com", task.OwnerEmail)
	assert.False(t, task.CreatedAt.IsZero())

	assert.Equal(t, uint64(1), recorder.Snapshot().TasksCreated)
}

func TestTaskService_CreateTask_SuggestedID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := newTestTaskService()

	task, err := svc.CreateTask(ctx, CreateTaskInput{
		SuggestedID: "my-task_01",
		Title:       "Write report",
		Completed:   true,
		OwnerEmail:  "alice@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "my-task_01", task.ID)
	assert.True(t, task.Completed)
}

func TestTaskService_CreateTask_InvalidInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := newTestTaskService()

	tests := []struct {
		name    string
		input   CreateTaskInput
		wantErr error
	}{
		{"empty title", CreateTaskInput{OwnerEmail: "a@b.com"}, ErrInvalidTitle},
		{"title too long", CreateTaskInput{Title: strings.Repeat("x", 501), OwnerEmail: "a@b.com"}, ErrInvalidTitle},
		{"id with spaces", CreateTaskInput{SuggestedID: "bad id", Title: "t", OwnerEmail: "a@b.com"}, ErrInvalidTaskID},
		{"id with slash", CreateTaskInput{SuggestedID: "a/b", Title: "t", OwnerEmail: "a@b.com"}, ErrInvalidTaskID},
		{"id too long", CreateTaskInput{SuggestedID: strings.Repeat("a", 65), Title: "t", OwnerEmail: "a@b.com"}, ErrInvalidTaskID},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.CreateTask(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTaskService_CreateTask_DuplicateID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := newTestTaskService()

	input := CreateTaskInput{SuggestedID: "task-1", Title: "First", OwnerEmail: "alice@example.com"}

	_, err := svc.CreateTask(ctx, input)
	require.NoError(t, err)

	_, err = svc.CreateTask(ctx, input)
	assert.ErrorIs(t, err, ErrTaskExists)
}

func TestTaskService_ListTasks_OwnerScoped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := newTestTaskService()

	_, err := svc.CreateTask(ctx, CreateTaskInput{Title: "Alice task", OwnerEmail: "alice@example.com"})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, CreateTaskInput{Title: "Bob task", OwnerEmail: "bob@example.com"})
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx, "alice@example.com")
	require.NoError(t, err)

	require.Len(t, tasks, 1)
	assert.Equal(t, "Alice task", tasks[0].Title)
}

func TestTaskService_DeleteTask(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store, recorder := newTestTaskService()

	task, err := svc.CreateTask(ctx, CreateTaskInput{Title: "Doomed", OwnerEmail: "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, task.ID, "alice@example.com"))
	assert.Equal(t, uint64(1), recorder.Snapshot().TasksDeleted)

	store.mu.Lock()
	_, exists := store.tasks[task.ID]
	store.mu.Unlock()
	assert.False(t, exists)
}

func TestTaskService_DeleteTask_Forbidden(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, recorder := newTestTaskService()

	task, err := svc.CreateTask(ctx, CreateTaskInput{Title: "Alice's", OwnerEmail: "alice@example.com"})
	require.NoError(t, err)

	// Another user's delete and a delete of a missing task are
	// indistinguishable to the caller.
	err = svc.DeleteTask(ctx, task.ID, "bob@example.com")
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.DeleteTask(ctx, "no-such-task", "bob@example.com")
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Equal(t, uint64(2), recorder.Snapshot().TaskDeletesForbidden)
	assert.Equal(t, uint64(0), recorder.Snapshot().TasksDeleted)
}

func TestTaskService_UpdateTaskCompleted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, recorder := newTestTaskService()

	task, err := svc.CreateTask(ctx, CreateTaskInput{Title: "Toggle me", OwnerEmail: "alice@example.com"})
	require.NoError(t, err)

	updated, err := svc.UpdateTaskCompleted(ctx, task.ID, true, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	// Idempotent: applying the same flag again succeeds.
	updated, err = svc.UpdateTaskCompleted(ctx, task.ID, true, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	assert.Equal(t, uint64(2), recorder.Snapshot().TasksUpdated)
}

func TestTaskService_UpdateTaskCompleted_Forbidden(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, _ := newTestTaskService()

	task, err := svc.CreateTask(ctx, CreateTaskInput{Title: "Alice's", OwnerEmail: "alice@example.com"})
	require.NoError(t, err)

	_, err = svc.UpdateTaskCompleted(ctx, task.ID, true, "bob@example.com")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateTaskCompleted(ctx, "no-such-task", true, "alice@example.com")
	assert.ErrorIs(t, err, ErrForbidden)
}
