package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered       uint64
	LoginsSucceeded       uint64
	LoginsFailed          uint64
	TasksCreated          uint64
	TasksUpdated          uint64
	TasksDeleted          uint64
	TaskDeletesForbidden  uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersRegistered      uint64
	loginsSucceeded      uint64
	loginsFailed         uint64
	tasksCreated         uint64
	tasksUpdated         uint64
	tasksDeleted         uint64
	taskDeletesForbidden uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:      atomic.LoadUint64(&m.usersRegistered),
		LoginsSucceeded:      atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:         atomic.LoadUint64(&m.loginsFailed),
		TasksCreated:         atomic.LoadUint64(&m.tasksCreated),
		TasksUpdated:         atomic.LoadUint64(&m.tasksUpdated),
		TasksDeleted:         atomic.LoadUint64(&m.tasksDeleted),
		TaskDeletesForbidden: atomic.LoadUint64(&m.taskDeletesForbidden),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLogin increments the login counter for the given status.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == "success" {
		atomic.AddUint64(&m.loginsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncTaskCreated increments the task created counter.
func (m *InMemoryRecorder) IncTaskCreated() {
	atomic.AddUint64(&m.tasksCreated, 1)
}

// IncTaskUpdated increments the task updated counter.
func (m *InMemoryRecorder) IncTaskUpdated() {
	atomic.AddUint64(&m.tasksUpdated, 1)
}

// IncTaskDeleted increments the task deleted counter.
func (m *InMemoryRecorder) IncTaskDeleted() {
	atomic.AddUint64(&m.tasksDeleted, 1)
}

// IncTaskDeleteForbidden increments the rejected-delete counter.
func (m *InMemoryRecorder) IncTaskDeleteForbidden() {
	atomic.AddUint64(&m.taskDeletesForbidden, 1)
}
