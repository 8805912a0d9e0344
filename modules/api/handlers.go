package api

import (
	"log"

	domain "github.com/example/todo-api-demo/domain/user"
	"github.com/example/todo-api-demo/modules/tasks"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the task API.
type Handlers struct {
	tasksAdapter tasks.TaskPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(tasksAdapter tasks.TaskPort) *Handlers {
	return &Handlers{
		tasksAdapter: tasksAdapter,
	}
}

// ListTasks handles GET /api/tasks.
// Returns the caller's complete task set, oldest first; an empty array when
// the caller has no tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, err := currentClaims(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.tasksAdapter.List(c.UserContext(), tasks.ListTasksRequest{
		UserID: claims.UserID,
	})
	if err != nil {
		return internalError(c, err)
	}

	result := make([]TaskResponse, 0, len(resp.Tasks))
	for i := range resp.Tasks {
		result = append(result, toTaskResponse(&resp.Tasks[i]))
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// GetTask handles GET /api/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims, err := currentClaims(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.tasksAdapter.Get(c.UserContext(), tasks.GetTaskRequest{
		UserID: claims.UserID,
		TaskID: c.Params("id"),
	})
	if err != nil {
		return internalError(c, err)
	}

	if resp.NotFound {
		return taskNotFound(c)
	}

	return c.Status(fiber.StatusOK).JSON(toTaskResponse(resp.Task))
}

// CreateTask handles POST /api/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, err := currentClaims(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.tasksAdapter.Create(c.UserContext(), tasks.CreateTaskRequest{
		UserID:      claims.UserID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return internalError(c, err)
	}

	if len(resp.Violations) > 0 {
		return validationFailed(c, resp.Violations)
	}

	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(resp.Task))
}

// UpdateTask handles PUT /api/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, err := currentClaims(c)
	if err != nil {
		return unauthorized(c)
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.tasksAdapter.Update(c.UserContext(), tasks.UpdateTaskRequest{
		UserID:      claims.UserID,
		TaskID:      c.Params("id"),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return internalError(c, err)
	}

	if len(resp.Violations) > 0 {
		return validationFailed(c, resp.Violations)
	}
	if resp.NotFound {
		return taskNotFound(c)
	}

	return c.Status(fiber.StatusOK).JSON(toTaskResponse(resp.Task))
}

// DeleteTask handles DELETE /api/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, err := currentClaims(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.tasksAdapter.Delete(c.UserContext(), tasks.DeleteTaskRequest{
		UserID: claims.UserID,
		TaskID: c.Params("id"),
	})
	if err != nil {
		return internalError(c, err)
	}

	if resp.NotFound {
		return taskNotFound(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CompleteTask handles PATCH /api/tasks/:id/complete.
func (h *Handlers) CompleteTask(c *fiber.Ctx) error {
	claims, err := currentClaims(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.tasksAdapter.Complete(c.UserContext(), tasks.CompleteTaskRequest{
		UserID: claims.UserID,
		TaskID: c.Params("id"),
	})
	if err != nil {
		return internalError(c, err)
	}

	if resp.NotFound {
		return taskNotFound(c)
	}

	return c.Status(fiber.StatusOK).JSON(toTaskResponse(resp.Task))
}

// currentClaims returns the claims stored by the auth middleware.
func currentClaims(c *fiber.Ctx) (*domain.Claims, error) {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	if !ok || claims.UserID == "" {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// taskNotFound sends the uniform not-found response. Ownership mismatch and
// true absence are reported identically.
func taskNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error:   "not_found",
		Message: "Task not found",
	})
}

// invalidBody rejects an unparseable request body.
func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Error:   "unprocessable_entity",
		Message: "Invalid request body",
	})
}

// validationFailed reports every field violation at once.
func validationFailed(c *fiber.Ctx, violations []tasks.FieldViolation) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationErrorResponse{
		Error:      "validation_error",
		Message:    "Request validation failed",
		Violations: violations,
	})
}

// internalError logs the actual error but never exposes it to the client.
func internalError(c *fiber.Ctx, err error) error {
	log.Printf("[api] Internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
