package model

import "time"

// Task represents a unit of work tracked by a user.
// OwnerEmail is set once at creation and never reassigned; it determines
// who may update or delete the task.
type Task struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Completed  bool      `json:"completed"`
	OwnerEmail string    `json:"owner_email"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether the task belongs to the given owner.
func (t *Task) IsOwnedBy(email string) bool {
	return t.OwnerEmail == email
}
