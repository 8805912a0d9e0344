package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/todo-api-demo/modules/api"
	"github.com/example/todo-api-demo/modules/auth"
	"github.com/example/todo-api-demo/modules/tasks"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Todo Task API ===")

	logLevel := mono.LogLevelInfo
	if os.Getenv("DEBUG") == "true" {
		logLevel = mono.LogLevelDebug
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule())  // Token verification (shared secret)
	app.Register(tasks.NewModule()) // Owner-scoped task CRUD over GORM
	app.Register(api.NewModule())   // Depends on auth + tasks

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (default http://localhost:8000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  GET    /health                        - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/tasks                     - List the caller's tasks")
	log.Println("  POST   /api/tasks                     - Create a task")
	log.Println("  GET    /api/tasks/:id                 - Get one task")
	log.Println("  PUT    /api/tasks/:id                 - Update a task")
	log.Println("  DELETE /api/tasks/:id                 - Delete a task")
	log.Println("  PATCH  /api/tasks/:id/complete        - Mark a task completed")
	log.Println("")
	log.Println("Tokens are issued by the external identity provider; use")
	log.Println("tools/gentoken to mint one for local development.")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
