package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloudtask/cloudtask/internal/auth"
	"github.com/cloudtask/cloudtask/internal/handler/dto"
	"github.com/cloudtask/cloudtask/internal/service"
)

// TaskHandler handles HTTP requests for task operations.
// All routes require the auth middleware; the owner is always taken from the
// verified token claims, never from the request body.
type TaskHandler struct {
	svc    *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustClaimsFromContext(r.Context())

	tasks, err := h.svc.ListTasks(r.Context(), claims.Email)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTaskListResponse(tasks))
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustClaimsFromContext(r.Context())

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	task, err := h.svc.CreateTask(r.Context(), service.CreateTaskInput{
		SuggestedID: req.ID,
		Title:       req.Title,
		Completed:   req.Completed,
		OwnerEmail:  claims.Email,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("task_created",
		"task_id", task.ID,
		"owner", task.OwnerEmail,
		"has_suggested_id", req.ID != "",
	)

	writeJSON(w, http.StatusCreated, dto.CreateTaskResponse{
		Message: "Task created successfully",
		Task:    dto.ToTaskResponse(task),
	})
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustClaimsFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Task ID is required")
		return
	}

	if err := h.svc.DeleteTask(r.Context(), id, claims.Email); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("task_deleted", "task_id", id, "owner", claims.Email)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

// Update handles PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustClaimsFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Task ID is required")
		return
	}

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if req.Completed == nil {
		h.writeError(w, http.StatusBadRequest, "MISSING_FIELD", "completed is required")
		return
	}

	task, err := h.svc.UpdateTaskCompleted(r.Context(), id, *req.Completed, claims.Email)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("task_updated",
		"task_id", task.ID,
		"completed", task.Completed,
	)

	writeJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// handleServiceError maps task service errors to HTTP responses.
func (h *TaskHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTitle):
		h.writeError(w, http.StatusBadRequest, "INVALID_TITLE", "Title is required")
	case errors.Is(err, service.ErrInvalidTaskID):
		h.writeError(w, http.StatusBadRequest, "INVALID_TASK_ID", "Invalid task id format")
	case errors.Is(err, service.ErrTaskExists):
		h.writeError(w, http.StatusConflict, "TASK_ID_TAKEN", "Task id already exists")
	case errors.Is(err, service.ErrForbidden):
		// Missing task and foreign-owned task produce the same response.
		h.writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not have permission to modify this task")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *TaskHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
