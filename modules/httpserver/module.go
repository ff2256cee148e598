package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/example/csv-analytics-demo/modules/analysis"
	"github.com/example/csv-analytics-demo/modules/dataset"
	"github.com/gin-gonic/gin"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Module implements the HTTP surface using the Gin framework.
type Module struct {
	port           int
	server         *http.Server
	engine         *gin.Engine
	handlers       *Handlers
	datasetModule  *dataset.Module
	analysisModule *analysis.Module
	logger         types.Logger
}

// Compile-time interface checks
var _ mono.Module = (*Module)(nil)

// NewModule creates a new HTTP server module.
func NewModule(port int, logger types.Logger) *Module {
	return &Module{
		port:   port,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "http-server"
}

// SetDatasetModule sets the dataset module dependency.
func (m *Module) SetDatasetModule(dm *dataset.Module) {
	m.datasetModule = dm
}

// SetAnalysisModule sets the analysis module dependency.
func (m *Module) SetAnalysisModule(am *analysis.Module) {
	m.analysisModule = am
}

// Start initializes and starts the HTTP server.
func (m *Module) Start(ctx context.Context) error {
	if m.datasetModule == nil {
		return fmt.Errorf("dataset module not set")
	}
	if m.analysisModule == nil {
		return fmt.Errorf("analysis module not set")
	}

	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	m.engine = gin.New()
	m.engine.Use(gin.Recovery())
	m.engine.Use(m.loggingMiddleware())
	m.engine.MaxMultipartMemory = dataset.MaxUploadSize
	m.engine.SetHTMLTemplate(pageTemplates())

	m.handlers = NewHandlers(m.datasetModule.Service(), m.analysisModule.Service(), NewSessionStore(), m.logger)
	m.registerRoutes()

	m.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", m.port),
		Handler:           m.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		m.logger.Info("HTTP server starting", "port", m.port)
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.server != nil {
		m.logger.Info("Shutting down HTTP server")
		return m.server.Shutdown(ctx)
	}
	return nil
}

// registerRoutes sets up all HTTP routes.
func (m *Module) registerRoutes() {
	m.engine.GET("/health", m.handlers.HealthCheck)

	m.engine.GET("/", m.handlers.LandingPage)
	m.engine.POST("/upload/", m.handlers.UploadCSV)
	m.engine.GET("/analysis/:id/", m.handlers.AnalysisPage)
	m.engine.POST("/operation/:id/", m.handlers.PerformOperation)
	m.engine.GET("/download/:id/", m.handlers.DownloadVisualization)
	m.engine.GET("/download-csv/:id/", m.handlers.DownloadCSV)

	m.engine.DELETE("/api/datasets/:id", m.handlers.DeleteDataset)
}

// loggingMiddleware provides request logging.
func (m *Module) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		m.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
