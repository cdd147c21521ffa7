package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/kelrob/hello-niyo/modules/api"
	"github.com/kelrob/hello-niyo/modules/auth"
	"github.com/kelrob/hello-niyo/modules/broadcast"
	"github.com/kelrob/hello-niyo/modules/task"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Task Tracker - Fiber + EventBus Pubsub ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Create modules
	authModule := auth.NewModule()
	taskModule := task.NewModule()
	broadcastModule := broadcast.NewModule()
	apiModule := api.NewModule()

	// Inject broadcast hub into API module
	// (This is done manually because the hub is not exposed via ServiceContainer)
	apiModule.SetHub(broadcastModule.GetHub())

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies
	// - auth: account registration, login, token validation
	// - task: task lifecycle engine (ServiceProviderModule + EventEmitterModule)
	// - broadcast: event consumer (WebSocket fan-out of task creations)
	// - api: driving adapter (Fiber HTTP/WebSocket server, depends on task + auth)
	app.Register(authModule)
	app.Register(taskModule)
	app.Register(broadcastModule)
	app.Register(apiModule)

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
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("Architecture:")
	log.Println("  - HTTP Framework: Fiber with WebSocket support")
	log.Println("  - Persistence: GORM + SQLite (soft deletes, per-owner unique titles)")
	log.Println("  - Events: TaskCreated -> broadcast module -> WebSocket clients")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", port)
	log.Println("  GET    /health                            - Health check")
	log.Println("  POST   /api/v1/auth/signup                - Create an account")
	log.Println("  POST   /api/v1/auth/login                 - Log in, returns access token")
	log.Println("  POST   /api/v1/task                       - Create a task")
	log.Println("  GET    /api/v1/task                       - List your tasks")
	log.Println("  GET    /api/v1/task/:id                   - Get one of your tasks")
	log.Println("  PATCH  /api/v1/task/:id                   - Patch title/description")
	log.Println("  PATCH  /api/v1/task/:id/status/update     - Move task through its lifecycle")
	log.Println("  DELETE /api/v1/task/:id                   - Soft-delete a task")
	log.Println("")
	log.Printf("WebSocket Endpoint (ws://localhost:%s/ws):", port)
	log.Println("  Receives {\"event\":\"taskCreated\",\"data\":{...}} frames for every new task")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
