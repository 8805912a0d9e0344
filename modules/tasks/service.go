package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/todo-api-demo/domain/task"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// createTask handles the task.create service request.
// Creation always succeeds for an authenticated caller once validation
// passes; duplicate titles are allowed.
func (m *TasksModule) createTask(_ context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.UserID == "" {
		return TaskResponse{}, fmt.Errorf("user id is required")
	}

	title, violations := validateCreate(&req)
	if len(violations) > 0 {
		return TaskResponse{Violations: violations}, nil
	}

	now := time.Now()
	created := &domain.Task{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		Title:       title,
		Description: req.Description,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.repo.Create(created); err != nil {
		return TaskResponse{}, fmt.Errorf("failed to save task: %w", err)
	}

	return TaskResponse{Task: toTaskData(created)}, nil
}

// listTasks handles the task.list service request.
func (m *TasksModule) listTasks(_ context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	if req.UserID == "" {
		return ListTasksResponse{}, fmt.Errorf("user id is required")
	}

	found, err := m.repo.FindByOwner(req.UserID)
	if err != nil {
		return ListTasksResponse{}, err
	}

	response := ListTasksResponse{
		Tasks: make([]TaskData, 0, len(found)),
		Total: len(found),
	}
	for _, t := range found {
		response.Tasks = append(response.Tasks, *toTaskData(t))
	}

	return response, nil
}

// getTask handles the task.get service request.
func (m *TasksModule) getTask(_ context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.UserID == "" {
		return TaskResponse{}, fmt.Errorf("user id is required")
	}
	if req.TaskID == "" {
		return TaskResponse{}, fmt.Errorf("task id is required")
	}

	found, err := m.repo.FindByID(req.UserID, req.TaskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TaskResponse{NotFound: true}, nil
		}
		return TaskResponse{}, err
	}

	return TaskResponse{Task: toTaskData(found)}, nil
}

// updateTask handles the task.update service request.
// Only supplied fields are applied. An empty field set is a no-op success:
// the task comes back unchanged and updated_at is not refreshed, since no
// mutation was accepted.
func (m *TasksModule) updateTask(_ context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.UserID == "" {
		return TaskResponse{}, fmt.Errorf("user id is required")
	}
	if req.TaskID == "" {
		return TaskResponse{}, fmt.Errorf("task id is required")
	}

	title, violations := validateUpdate(&req)
	if len(violations) > 0 {
		return TaskResponse{Violations: violations}, nil
	}

	found, err := m.repo.FindByID(req.UserID, req.TaskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TaskResponse{NotFound: true}, nil
		}
		return TaskResponse{}, err
	}

	if title == nil && req.Description == nil && req.Status == nil {
		return TaskResponse{Task: toTaskData(found)}, nil
	}

	if title != nil {
		found.Title = *title
	}
	if req.Description != nil {
		found.Description = req.Description
	}
	if req.Status != nil {
		found.Status = domain.Status(*req.Status)
	}
	found.UpdatedAt = time.Now()

	if err := m.repo.Update(found); err != nil {
		if errors.Is(err, ErrNotFound) {
			return TaskResponse{NotFound: true}, nil
		}
		return TaskResponse{}, fmt.Errorf("failed to update task: %w", err)
	}

	return TaskResponse{Task: toTaskData(found)}, nil
}

// completeTask handles the task.complete service request.
// Idempotent: completing an already-completed task succeeds and republishes
// the same state with a refreshed updated_at.
func (m *TasksModule) completeTask(_ context.Context, req CompleteTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.UserID == "" {
		return TaskResponse{}, fmt.Errorf("user id is required")
	}
	if req.TaskID == "" {
		return TaskResponse{}, fmt.Errorf("task id is required")
	}

	found, err := m.repo.FindByID(req.UserID, req.TaskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TaskResponse{NotFound: true}, nil
		}
		return TaskResponse{}, err
	}

	found.Status = domain.StatusCompleted
	found.UpdatedAt = time.Now()

	if err := m.repo.Update(found); err != nil {
		if errors.Is(err, ErrNotFound) {
			return TaskResponse{NotFound: true}, nil
		}
		return TaskResponse{}, fmt.Errorf("failed to complete task: %w", err)
	}

	return TaskResponse{Task: toTaskData(found)}, nil
}

// deleteTask handles the task.delete service request.
// Deletion is permanent; a second delete of the same id reports not-found.
func (m *TasksModule) deleteTask(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if req.UserID == "" {
		return DeleteTaskResponse{}, fmt.Errorf("user id is required")
	}
	if req.TaskID == "" {
		return DeleteTaskResponse{}, fmt.Errorf("task id is required")
	}

	if err := m.repo.Delete(req.UserID, req.TaskID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return DeleteTaskResponse{NotFound: true}, nil
		}
		return DeleteTaskResponse{}, err
	}

	return DeleteTaskResponse{Deleted: true}, nil
}

// toTaskData converts a task entity to its wire representation.
func toTaskData(t *domain.Task) *TaskData {
	return &TaskData{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
