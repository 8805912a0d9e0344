package api

import (
	"time"

	"github.com/example/todo-api-demo/modules/tasks"
)

// CreateTaskRequest represents a task creation request body.
// Fields outside the schema are ignored, not rejected.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// UpdateTaskRequest represents a partial task update body.
// Every field is optional; omitted fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// TaskResponse is the wire representation of a task.
type TaskResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ErrorResponse represents a single-cause error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ValidationErrorResponse reports every field violation found in a payload.
type ValidationErrorResponse struct {
	Error      string                 `json:"error"`
	Message    string                 `json:"message"`
	Violations []tasks.FieldViolation `json:"violations"`
}

// toTaskResponse converts service task data to the wire representation.
func toTaskResponse(t *tasks.TaskData) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
