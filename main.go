package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	analysismod "github.com/example/csv-analytics-demo/modules/analysis"
	datasetmod "github.com/example/csv-analytics-demo/modules/dataset"
	httpservermod "github.com/example/csv-analytics-demo/modules/httpserver"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	httpPort := getEnvInt("HTTP_PORT", 3000)
	dbPath := getEnv("DB_PATH", "datasets.db")
	storagePath := getEnv("STORAGE_PATH", "uploads")

	log.Println("=== CSV Analytics Demo ===")
	log.Printf("HTTP Port: %d", httpPort)
	log.Printf("Database: %s", dbPath)
	log.Printf("Storage Path: %s", storagePath)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// Create modules
	datasetModule := datasetmod.NewModule(dbPath, storagePath, app.Logger())
	analysisModule := analysismod.NewModule(app.Logger())
	httpServerModule := httpservermod.NewModule(httpPort, app.Logger())

	// Wire up dependencies
	httpServerModule.SetDatasetModule(datasetModule)
	httpServerModule.SetAnalysisModule(analysisModule)

	// Register modules in dependency order
	app.Register(datasetModule)
	app.Register(analysisModule)
	app.Register(httpServerModule)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	log.Println("=== Application Started ===")
	log.Printf("UI available at http://localhost:%d", httpPort)
	log.Println("Endpoints:")
	log.Println("  GET    /                     - Upload form")
	log.Println("  POST   /upload/              - Upload a CSV file")
	log.Println("  GET    /analysis/:id/        - Preview and column metadata")
	log.Println("  POST   /operation/:id/       - Run an analysis operation")
	log.Println("  GET    /download/:id/        - Download last visualization")
	log.Println("  GET    /download-csv/:id/    - Download original CSV")
	log.Println("  DELETE /api/datasets/:id     - Delete a dataset")
	log.Println("  GET    /health               - Health check")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")

	// Setup graceful shutdown
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

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}
