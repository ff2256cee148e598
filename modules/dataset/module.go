package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module provides dataset record persistence via GORM + SQLite plus
// disk-backed file storage.
type Module struct {
	db          *gorm.DB
	repo        *Repository
	storage     *DiskStorage
	service     *Service
	dbPath      string
	storagePath string
	logger      types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new dataset module.
func NewModule(dbPath, storagePath string, log types.Logger) *Module {
	return &Module{
		dbPath:      dbPath,
		storagePath: storagePath,
		logger:      log,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "dataset"
}

// Start opens the database, runs migrations, and prepares file storage.
func (m *Module) Start(_ context.Context) error {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := m.db.AutoMigrate(&Dataset{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	m.storage, err = NewDiskStorage(m.storagePath)
	if err != nil {
		return err
	}

	m.repo = NewRepository(m.db)
	m.service = NewService(m.repo, m.storage, m.logger)

	m.logger.Info("Dataset module started", "db", m.dbPath, "storage", m.storagePath)
	return nil
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	m.logger.Info("Dataset module stopped")
	return nil
}

// Health reports database connectivity.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{Healthy: false, Message: "database not initialized"}
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("failed to get sql.DB: %v", err)}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("database ping failed: %v", err)}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver":  "sqlite",
			"db":      m.dbPath,
			"storage": m.storagePath,
		},
	}
}

// Service returns the dataset service instance.
func (m *Module) Service() *Service {
	return m.service
}
