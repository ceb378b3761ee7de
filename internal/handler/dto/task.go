// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/cloudtask/cloudtask/internal/model"
)

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// MessageResponse is a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// MeResponse echoes the verified identity from the presented token.
type MeResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// CreateTaskRequest represents the request body for creating a task.
// ID is an optional caller-suggested identifier.
type CreateTaskRequest struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	Completed bool   `json:"completed,omitempty"`
}

// UpdateTaskRequest represents the request body for updating a task.
type UpdateTaskRequest struct {
	Completed *bool `json:"completed"`
}

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Completed  bool      `json:"completed"`
	OwnerEmail string    `json:"owner_email"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateTaskResponse confirms creation and returns the stored record,
// including the server-assigned id.
type CreateTaskResponse struct {
	Message string       `json:"message"`
	Task    TaskResponse `json:"task"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToTaskResponse converts a Task model to TaskResponse DTO.
func ToTaskResponse(task *model.Task) TaskResponse {
	return TaskResponse{
		ID:         task.ID,
		Title:      task.Title,
		Completed:  task.Completed,
		OwnerEmail: task.OwnerEmail,
		CreatedAt:  task.CreatedAt,
		UpdatedAt:  task.UpdatedAt,
	}
}

// ToTaskListResponse converts a slice of Task models to response DTOs.
// Always returns a non-nil slice so the empty list encodes as [].
func ToTaskListResponse(tasks []*model.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = ToTaskResponse(task)
	}
	return responses
}
