package api

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/todo-api-demo/modules/auth"
	"github.com/example/todo-api-demo/modules/ratelimit"
	"github.com/example/todo-api-demo/modules/tasks"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

// APIModule is the HTTP API module.
type APIModule struct {
	app            *fiber.App
	authContainer  mono.ServiceContainer
	tasksContainer mono.ServiceContainer
	authAdapter    auth.AuthPort
	tasksAdapter   tasks.TaskPort
	redisClient    *redis.Client
	port           string
	corsOrigins    string
	redisAddr      string
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
//
// API_PORT sets the listen port, CORS_ORIGINS the comma-separated allowed
// origins, and RATE_LIMIT_REDIS_URL enables Redis-backed rate limiting.
func NewModule() *APIModule {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8000"
	}

	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	return &APIModule{
		port:        port,
		corsOrigins: corsOrigins,
		redisAddr:   os.Getenv("RATE_LIMIT_REDIS_URL"),
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "tasks"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.authAdapter = auth.NewAuthAdapter(container)
	case "tasks":
		m.tasksContainer = container
		m.tasksAdapter = tasks.NewTaskAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(ctx context.Context) error {
	if m.authContainer == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.tasksContainer == nil {
		return fmt.Errorf("tasks dependency not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New(cors.Config{
		AllowOrigins: m.corsOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	if err := m.setupRoutes(ctx); err != nil {
		return err
	}

	go func() {
		if err := m.app.Listen(":" + m.port); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%s", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.redisClient != nil {
		m.redisClient.Close()
	}
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes(ctx context.Context) error {
	handlers := NewHandlers(m.tasksAdapter)

	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	// All task routes require a verified bearer token. The IP limiter sits
	// ahead of authentication so that token guessing is throttled too; the
	// user limiter sits behind it, once the caller's identity is known.
	taskRoutes := m.app.Group("/api/tasks")

	var limiter *ratelimit.Middleware
	if m.redisAddr != "" {
		m.redisClient = redis.NewClient(&redis.Options{Addr: m.redisAddr})
		if err := m.redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis at %s: %w", m.redisAddr, err)
		}
		limiter = ratelimit.NewMiddleware(m.redisClient, ratelimit.DefaultMiddlewareConfig())
		taskRoutes.Use(limiter.IPRateLimit())
		log.Printf("[api] Rate limiting enabled (redis: %s)", m.redisAddr)
	}

	taskRoutes.Use(AuthMiddleware(m.authAdapter))

	if limiter != nil {
		taskRoutes.Use(limiter.UserRateLimit())
	}

	taskRoutes.Get("/", handlers.ListTasks)
	taskRoutes.Post("/", handlers.CreateTask)
	taskRoutes.Get("/:id", handlers.GetTask)
	taskRoutes.Put("/:id", handlers.UpdateTask)
	taskRoutes.Delete("/:id", handlers.DeleteTask)
	taskRoutes.Patch("/:id/complete", handlers.CompleteTask)

	return nil
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
