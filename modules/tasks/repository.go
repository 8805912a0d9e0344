package tasks

import (
	"errors"
	"fmt"

	domain "github.com/example/todo-api-demo/domain/task"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a task does not exist for the given owner.
// An existing task owned by someone else is reported identically, so callers
// cannot probe for other users' task ids.
var ErrNotFound = errors.New("task not found")

// Repository provides owner-scoped access to task storage.
//
// Every method takes the owner id as a mandatory parameter: there is no way
// to read or write a row without it, which makes cross-tenant access
// structurally impossible rather than a matter of discipline.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new task to the database.
func (r *Repository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByOwner retrieves all tasks owned by userID, oldest first.
// An owner with no tasks yields an empty slice, not an error.
func (r *Repository) FindByOwner(userID string) ([]*domain.Task, error) {
	var found []*domain.Task
	if err := r.db.Where("user_id = ?", userID).Order("created_at").Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return found, nil
}

// FindByID retrieves a task only if both the id and the owner match.
func (r *Repository) FindByID(userID, taskID string) (*domain.Task, error) {
	var found domain.Task
	err := r.db.Where("id = ? AND user_id = ?", taskID, userID).First(&found).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &found, nil
}

// Update persists the mutable fields of a task. The statement is scoped to
// the owner, and id, user_id and created_at are never written.
func (r *Repository) Update(task *domain.Task) error {
	result := r.db.Model(&domain.Task{}).
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		Select("title", "description", "status", "updated_at").
		Updates(task)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete permanently removes a task owned by userID. Deleting an id that is
// already gone (or never belonged to the owner) returns ErrNotFound.
func (r *Repository) Delete(userID, taskID string) error {
	result := r.db.Where("id = ? AND user_id = ?", taskID, userID).Delete(&domain.Task{})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
