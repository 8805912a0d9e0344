package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the interface for task operations.
// This is the port that other modules use to access task functionality.
type TaskPort interface {
	Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error)
	List(ctx context.Context, req ListTasksRequest) (*ListTasksResponse, error)
	Get(ctx context.Context, req GetTaskRequest) (*TaskResponse, error)
	Update(ctx context.Context, req UpdateTaskRequest) (*TaskResponse, error)
	Complete(ctx context.Context, req CompleteTaskRequest) (*TaskResponse, error)
	Delete(ctx context.Context, req DeleteTaskRequest) (*DeleteTaskResponse, error)
}

// TaskAdapter implements TaskPort using the service container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	return &TaskAdapter{
		container: container,
	}
}

// call invokes a task service over the container.
func call[Req, Resp any](a *TaskAdapter, ctx context.Context, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// Create creates a task for the authenticated owner.
func (a *TaskAdapter) Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(a, ctx, svcCreate, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns every task owned by the caller, oldest first.
func (a *TaskAdapter) List(ctx context.Context, req ListTasksRequest) (*ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := call(a, ctx, svcList, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get returns a single task if the caller owns it.
func (a *TaskAdapter) Get(ctx context.Context, req GetTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(a, ctx, svcGet, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update applies the supplied fields to a task owned by the caller.
func (a *TaskAdapter) Update(ctx context.Context, req UpdateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(a, ctx, svcUpdate, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Complete marks a task owned by the caller as completed.
func (a *TaskAdapter) Complete(ctx context.Context, req CompleteTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := call(a, ctx, svcComplete, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete permanently removes a task owned by the caller.
func (a *TaskAdapter) Delete(ctx context.Context, req DeleteTaskRequest) (*DeleteTaskResponse, error) {
	var resp DeleteTaskResponse
	if err := call(a, ctx, svcDelete, &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
