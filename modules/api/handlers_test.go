package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "github.com/example/todo-api-demo/domain/user"
	"github.com/example/todo-api-demo/modules/tasks"
	"github.com/gofiber/fiber/v2"
)

// mockTaskPort implements tasks.TaskPort for testing
type mockTaskPort struct {
	createFunc   func(ctx context.Context, req tasks.CreateTaskRequest) (*tasks.TaskResponse, error)
	listFunc     func(ctx context.Context, req tasks.ListTasksRequest) (*tasks.ListTasksResponse, error)
	getFunc      func(ctx context.Context, req tasks.GetTaskRequest) (*tasks.TaskResponse, error)
	updateFunc   func(ctx context.Context, req tasks.UpdateTaskRequest) (*tasks.TaskResponse, error)
	completeFunc func(ctx context.Context, req tasks.CompleteTaskRequest) (*tasks.TaskResponse, error)
	deleteFunc   func(ctx context.Context, req tasks.DeleteTaskRequest) (*tasks.DeleteTaskResponse, error)
}

func (m *mockTaskPort) Create(ctx context.Context, req tasks.CreateTaskRequest) (*tasks.TaskResponse, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) List(ctx context.Context, req tasks.ListTasksRequest) (*tasks.ListTasksResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) Get(ctx context.Context, req tasks.GetTaskRequest) (*tasks.TaskResponse, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) Update(ctx context.Context, req tasks.UpdateTaskRequest) (*tasks.TaskResponse, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) Complete(ctx context.Context, req tasks.CompleteTaskRequest) (*tasks.TaskResponse, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) Delete(ctx context.Context, req tasks.DeleteTaskRequest) (*tasks.DeleteTaskResponse, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

// setupTestApp builds a Fiber app with the task routes, authenticating
// "Bearer valid-token" as user-1 and rejecting everything else.
func setupTestApp(taskPort tasks.TaskPort) *fiber.App {
	mockAuth := &mockAuthPort{
		validateTokenFunc: func(_ context.Context, token string) (*domain.Claims, error) {
			if token == "valid-token" {
				return &domain.Claims{UserID: "user-1"}, nil
			}
			return nil, errors.New("invalid token")
		},
	}

	app := fiber.New()
	handlers := NewHandlers(taskPort)

	taskRoutes := app.Group("/api/tasks")
	taskRoutes.Use(AuthMiddleware(mockAuth))
	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Get("/:id", handlers.GetTask)
	taskRoutes.Put("/:id", handlers.UpdateTask)
	taskRoutes.Delete("/:id", handlers.DeleteTask)
	taskRoutes.Patch("/:id/complete", handlers.CompleteTask)

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any, authed bool) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer valid-token")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func sampleTask(id string) *tasks.TaskData {
	now := time.Now()
	return &tasks.TaskData{
		ID:        id,
		UserID:    "user-1",
		Title:     "Buy milk",
		Status:    "pending",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestHandlers_ListTasks(t *testing.T) {
	t.Run("empty list is an empty array", func(t *testing.T) {
		app := setupTestApp(&mockTaskPort{
			listFunc: func(_ context.Context, req tasks.ListTasksRequest) (*tasks.ListTasksResponse, error) {
				if req.UserID != "user-1" {
					t.Errorf("list called for %q, want %q", req.UserID, "user-1")
				}
				return &tasks.ListTasksResponse{Tasks: []tasks.TaskData{}}, nil
			},
		})

		resp := doRequest(t, app, http.MethodGet, "/api/tasks/", nil, true)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var result []TaskResponse
		decodeBody(t, resp, &result)
		if result == nil {
			t.Error("expected a JSON array, got null")
		}
		if len(result) != 0 {
			t.Errorf("expected empty array, got %d items", len(result))
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		app := setupTestApp(&mockTaskPort{})
		resp := doRequest(t, app, http.MethodGet, "/api/tasks/", nil, false)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
		}
	})

	t.Run("store failure is a generic 500", func(t *testing.T) {
		app := setupTestApp(&mockTaskPort{
			listFunc: func(_ context.Context, _ tasks.ListTasksRequest) (*tasks.ListTasksResponse, error) {
				return nil, errors.New("database gone")
			},
		})

		resp := doRequest(t, app, http.MethodGet, "/api/tasks/", nil, true)
		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
		}

		var body ErrorResponse
		decodeBody(t, resp, &body)
		if body.Message == "database gone" {
			t.Error("internal error details must not leak to the client")
		}
	})
}

func TestHandlers_CreateTask(t *testing.T) {
	t.Run("created task comes back with 201", func(t *testing.T) {
		app := setupTestApp(&mockTaskPort{
			createFunc: func(_ context.Context, req tasks.CreateTaskRequest) (*tasks.TaskResponse, error) {
				if req.UserID != "user-1" {
					t.Errorf("create called for %q, want %q", req.UserID, "user-1")
				}
				created := sampleTask("task-1")
				created.Title = req.Title
				return &tasks.TaskResponse{Task: created}, nil
			},
		})

		resp := doRequest(t, app, http.MethodPost, "/api/tasks/", CreateTaskRequest{Title: "Buy milk"}, true)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}

		var result TaskResponse
		decodeBody(t, resp, &result)
		if result.ID == "" {
			t.Error("expected a task id")
		}
		if result.UserID != "user-1" {
			t.Errorf("owner = %q, want %q", result.UserID, "user-1")
		}
		if result.Status != "pending" {
			t.Errorf("status = %q, want %q", result.Status, "pending")
		}
	})

	t.Run("validation failure is a 422 with violations", func(t *testing.T) {
		app := setupTestApp(&mockTaskPort{
			createFunc: func(_ context.Context, _ tasks.CreateTaskRequest) (*tasks.TaskResponse, error) {
				return &tasks.TaskResponse{Violations: []tasks.FieldViolation{
					{Field: "title", Message: "Title cannot be empty or whitespace only"},
				}}, nil
			},
		})

		resp := doRequest(t, app, http.MethodPost, "/api/tasks/", CreateTaskRequest{Title: "   "}, true)
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
		}

		var body ValidationErrorResponse
		decodeBody(t, resp, &body)
		if len(body.Violations) != 1 || body.Violations[0].Field != "title" {
			t.Errorf("expected a title violation, got %v", body.Violations)
		}
	})

	t.Run("malformed body is a 422", func(t *testing.T) {
		app := setupTestApp(&mockTaskPort{})

		req := httptest.NewRequest(http.MethodPost, "/api/tasks/", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer valid-token")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
		}
	})
}

func TestHandlers_GetTask(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		app := setupTestApp(&mockTaskPort{
			getFunc: func(_ context.Context, req tasks.GetTaskRequest) (*tasks.TaskResponse, error) {
				return &tasks.TaskResponse{Task: sampleTask(req.TaskID)}, nil
			},
		})

		resp := doRequest(t, app, http.MethodGet, "/api/tasks/task-1", nil, true)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var result TaskResponse
		decodeBody(t, resp, &result)
		if result.ID != "task-1" {
			t.Errorf("id = %q, want %q", result.ID, "task-1")
		}
	})

	t.Run("not found is a 404, never a 403", func(t *testing.T) {
		app := setupTestApp(&mockTaskPort{
			getFunc: func(_ context.Context, _ tasks.GetTaskRequest) (*tasks.TaskResponse, error) {
				return &tasks.TaskResponse{NotFound: true}, nil
			},
		})

		resp := doRequest(t, app, http.MethodGet, "/api/tasks/task-1", nil, true)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
		}
	})
}

func TestHandlers_UpdateTask(t *testing.T) {
	t.Run("status update succeeds", func(t *testing.T) {
		app := setupTestApp(&mockTaskPort{
			updateFunc: func(_ context.Context, req tasks.UpdateTaskRequest) (*tasks.TaskResponse, error) {
				if req.Status == nil || *req.Status != "completed" {
					t.Errorf("expected status %q to be forwarded", "completed")
				}
				updated := sampleTask(req.TaskID)
				updated.Status = "completed"
				return &tasks.TaskResponse{Task: updated}, nil
			},
		})

		status := "completed"
		resp := doRequest(t, app, http.MethodPut, "/api/tasks/task-1", UpdateTaskRequest{Status: &status}, true)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var result TaskResponse
		decodeBody(t, resp, &result)
		if result.Status != "completed" {
			t.Errorf("status = %q, want %q", result.Status, "completed")
		}
	})

	t.Run("unknown status is a 422", func(t *testing.T) {
		app := setupTestApp(&mockTaskPort{
			updateFunc: func(_ context.Context, _ tasks.UpdateTaskRequest) (*tasks.TaskResponse, error) {
				return &tasks.TaskResponse{Violations: []tasks.FieldViolation{
					{Field: "status", Message: "Status must be either 'pending' or 'completed'"},
				}}, nil
			},
		})

		status := "archived"
		resp := doRequest(t, app, http.MethodPut, "/api/tasks/task-1", UpdateTaskRequest{Status: &status}, true)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
		}
	})

	t.Run("not found is a 404", func(t *testing.T) {
		app := setupTestApp(&mockTaskPort{
			updateFunc: func(_ context.Context, _ tasks.UpdateTaskRequest) (*tasks.TaskResponse, error) {
				return &tasks.TaskResponse{NotFound: true}, nil
			},
		})

		title := "New title"
		resp := doRequest(t, app, http.MethodPut, "/api/tasks/task-1", UpdateTaskRequest{Title: &title}, true)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
		}
	})
}

func TestHandlers_DeleteTask(t *testing.T) {
	t.Run("delete then delete again", func(t *testing.T) {
		deleted := false
		app := setupTestApp(&mockTaskPort{
			deleteFunc: func(_ context.Context, _ tasks.DeleteTaskRequest) (*tasks.DeleteTaskResponse, error) {
				if deleted {
					return &tasks.DeleteTaskResponse{NotFound: true}, nil
				}
				deleted = true
				return &tasks.DeleteTaskResponse{Deleted: true}, nil
			},
		})

		first := doRequest(t, app, http.MethodDelete, "/api/tasks/task-1", nil, true)
		defer first.Body.Close()
		if first.StatusCode != http.StatusNoContent {
			t.Errorf("first delete status = %d, want %d", first.StatusCode, http.StatusNoContent)
		}

		second := doRequest(t, app, http.MethodDelete, "/api/tasks/task-1", nil, true)
		defer second.Body.Close()
		if second.StatusCode != http.StatusNotFound {
			t.Errorf("second delete status = %d, want %d", second.StatusCode, http.StatusNotFound)
		}
	})
}

func TestHandlers_CompleteTask(t *testing.T) {
	t.Run("completion returns the updated task", func(t *testing.T) {
		app := setupTestApp(&mockTaskPort{
			completeFunc: func(_ context.Context, req tasks.CompleteTaskRequest) (*tasks.TaskResponse, error) {
				completed := sampleTask(req.TaskID)
				completed.Status = "completed"
				return &tasks.TaskResponse{Task: completed}, nil
			},
		})

		resp := doRequest(t, app, http.MethodPatch, "/api/tasks/task-1/complete", nil, true)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var result TaskResponse
		decodeBody(t, resp, &result)
		if result.Status != "completed" {
			t.Errorf("status = %q, want %q", result.Status, "completed")
		}
	})

	t.Run("not found is a 404", func(t *testing.T) {
		app := setupTestApp(&mockTaskPort{
			completeFunc: func(_ context.Context, _ tasks.CompleteTaskRequest) (*tasks.TaskResponse, error) {
				return &tasks.TaskResponse{NotFound: true}, nil
			},
		})

		resp := doRequest(t, app, http.MethodPatch, "/api/tasks/task-1/complete", nil, true)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
		}
	})
}
