package analysis

import (
	"context"
	"fmt"
	"io"
)

// Service dispatches analysis operations over parsed tables. It holds no
// state; every request works on its own Table.
type Service struct{}

// NewService creates a new analysis service.
func NewService() *Service {
	return &Service{}
}

// Load parses raw delimited bytes into a Table.
func (s *Service) Load(r io.Reader) (*Table, error) {
	return ParseCSV(r)
}

// Run executes the named operation against the table and normalizes its
// output into the uniform response envelope. An unrecognized name returns
// ErrUnknownOperation; an operation-reported precondition failure comes back
// as an unsuccessful envelope with no image or HTML; any other error is an
// unexpected fault for the caller to surface.
func (s *Service) Run(ctx context.Context, t *Table, operation string, params Params) (*Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		result Result
		err    error
	)
	switch operation {
	case OpRegression:
		result, err = Regression(t)
	case OpClustering:
		result, err = Clustering(t, params.NClusters)
	case OpDistribution:
		result, err = Distribution(t)
	case OpSummary:
		result, err = Summary(t)
	case OpEDA:
		result, err = EDA(t)
	case OpPreview:
		result, err = Preview(t, params.PreviewRows)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, operation)
	}
	if err != nil {
		return nil, fmt.Errorf("operation %s failed: %w", operation, err)
	}

	if result.Err != "" {
		return &Envelope{
			Success:   false,
			Operation: operation,
			Error:     result.Err,
		}, nil
	}

	return &Envelope{
		Success:   true,
		Operation: operation,
		Stats:     result.Stats,
		Image:     result.Image,
		HTML:      result.HTML,
	}, nil
}
