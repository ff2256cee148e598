package analysis

import (
	"context"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Module provides the analysis operation dispatcher to the rest of the
// application.
type Module struct {
	service *Service
	logger  types.Logger
}

// Compile-time interface checks
var _ mono.Module = (*Module)(nil)

// NewModule creates a new analysis module.
func NewModule(logger types.Logger) *Module {
	return &Module{logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "analysis"
}

// Start initializes the analysis service.
func (m *Module) Start(_ context.Context) error {
	m.service = NewService()
	m.logger.Info("Analysis module started",
		"operations", []string{OpRegression, OpClustering, OpDistribution, OpSummary, OpEDA, OpPreview})
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Analysis module stopped")
	return nil
}

// Service returns the analysis service instance.
func (m *Module) Service() *Service {
	return m.service
}
