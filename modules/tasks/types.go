package tasks

import "time"

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// ListTasksRequest represents a request for all tasks owned by a user.
type ListTasksRequest struct {
	UserID string `json:"user_id"`
}

// GetTaskRequest represents a single-task lookup request.
type GetTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// UpdateTaskRequest represents a partial task update. Nil fields are left
// untouched; only supplied fields are validated and applied.
type UpdateTaskRequest struct {
	UserID      string  `json:"user_id"`
	TaskID      string  `json:"task_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// CompleteTaskRequest represents a request to mark a task completed.
type CompleteTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// DeleteTaskRequest represents a permanent task deletion request.
type DeleteTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// TaskData is the wire representation of a task shared by all responses.
type TaskData struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FieldViolation reports a single validation failure on a named field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// TaskResponse represents the outcome of a single-task operation.
// Domain failures (not-found, validation) travel in the response body;
// the error return is reserved for infrastructure failures.
type TaskResponse struct {
	Task       *TaskData        `json:"task,omitempty"`
	NotFound   bool             `json:"not_found,omitempty"`
	Violations []FieldViolation `json:"violations,omitempty"`
}

// ListTasksResponse represents a task listing.
type ListTasksResponse struct {
	Tasks []TaskData `json:"tasks"`
	Total int        `json:"total"`
}

// DeleteTaskResponse represents the outcome of a deletion.
type DeleteTaskResponse struct {
	Deleted  bool `json:"deleted"`
	NotFound bool `json:"not_found,omitempty"`
}
