package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	domain "github.com/example/todo-api-demo/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TasksModule provides owner-scoped task CRUD services.
type TasksModule struct {
	db       *gorm.DB
	repo     *Repository
	dbDriver string
	dbDSN    string
}

// Compile-time interface checks.
var _ mono.Module = (*TasksModule)(nil)
var _ mono.ServiceProviderModule = (*TasksModule)(nil)
var _ mono.HealthCheckableModule = (*TasksModule)(nil)

// NewModule creates a new TasksModule.
//
// TASKS_DB_DRIVER selects the backend ("sqlite" by default, or "postgres"),
// TASKS_DB_DSN is the connection string (for sqlite, the database file path).
func NewModule() *TasksModule {
	driver := os.Getenv("TASKS_DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}

	dsn := os.Getenv("TASKS_DB_DSN")
	if dsn == "" && driver == "sqlite" {
		dsn = "todo_tasks.db"
	}

	return &TasksModule{
		dbDriver: driver,
		dbDSN:    dsn,
	}
}

// Name returns the module name.
func (m *TasksModule) Name() string {
	return "tasks"
}

// Start opens the database and initializes the repository.
func (m *TasksModule) Start(_ context.Context) error {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	var dialector gorm.Dialector
	switch m.dbDriver {
	case "sqlite":
		dialector = sqlite.Open(m.dbDSN)
	case "postgres":
		if m.dbDSN == "" {
			return fmt.Errorf("TASKS_DB_DSN is required for the postgres driver")
		}
		dialector = postgres.Open(m.dbDSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", m.dbDriver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.repo = NewRepository(db)

	log.Printf("[tasks] Module started (driver: %s)", m.dbDriver)
	return nil
}

// Stop closes the database connection.
func (m *TasksModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[tasks] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TasksModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": m.dbDriver,
		},
	}
}

// Service names shared by RegisterServices and the TaskAdapter; both sides
// must use the same name or the request-reply call has no subscriber.
const (
	svcCreate   = "task.create"
	svcList     = "task.list"
	svcGet      = "task.get"
	svcUpdate   = "task.update"
	svcComplete = "task.complete"
	svcDelete   = "task.delete"
)

// RegisterServices registers the six task operations in the service container.
func (m *TasksModule) RegisterServices(container mono.ServiceContainer) error {
	services := []struct {
		name     string
		register func() error
	}{
		{svcCreate, func() error {
			return helper.RegisterTypedRequestReplyService(container, svcCreate, json.Unmarshal, json.Marshal, m.createTask)
		}},
		{svcList, func() error {
			return helper.RegisterTypedRequestReplyService(container, svcList, json.Unmarshal, json.Marshal, m.listTasks)
		}},
		{svcGet, func() error {
			return helper.RegisterTypedRequestReplyService(container, svcGet, json.Unmarshal, json.Marshal, m.getTask)
		}},
		{svcUpdate, func() error {
			return helper.RegisterTypedRequestReplyService(container, svcUpdate, json.Unmarshal, json.Marshal, m.updateTask)
		}},
		{svcComplete, func() error {
			return helper.RegisterTypedRequestReplyService(container, svcComplete, json.Unmarshal, json.Marshal, m.completeTask)
		}},
		{svcDelete, func() error {
			return helper.RegisterTypedRequestReplyService(container, svcDelete, json.Unmarshal, json.Marshal, m.deleteTask)
		}},
	}

	for _, svc := range services {
		if err := svc.register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", svc.name, err)
		}
	}

	log.Printf("[tasks] Registered services: %s, %s, %s, %s, %s, %s",
		svcCreate, svcList, svcGet, svcUpdate, svcComplete, svcDelete)
	return nil
}
