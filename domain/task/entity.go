package task

import (
	"time"
)

// Status is the completion status of a task.
type Status string

const (
	// StatusPending is the default status for newly created tasks.
	StatusPending Status = "pending"
	// StatusCompleted marks a task as done.
	StatusCompleted Status = "completed"
)

// IsValid reports whether s is one of the two persisted status values.
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Task represents a todo task owned by a single user.
//
// The owner (UserID) is bound once at creation from the caller's verified
// identity and never reassigned. Description is a pointer so that "no
// description" stays distinct from an empty string.
type Task struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;not null;index" json:"user_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"size:1000" json:"description"`
	Status      Status    `gorm:"size:50;not null;default:pending" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
