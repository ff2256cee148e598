package analysis

import "errors"

// Operation names accepted by the dispatcher. Matching is case-sensitive.
const (
	OpRegression   = "regression"
	OpClustering   = "clustering"
	OpDistribution = "distribution"
	OpSummary      = "summary"
	OpEDA          = "eda"
	OpPreview      = "preview"
)

// Defaults applied when a request omits or mangles a parameter.
const (
	DefaultClusters    = 3
	DefaultPreviewRows = 20
)

// ErrUnknownOperation is returned for an operation name the dispatcher does
// not recognize, as opposed to an operation that ran and reported an error.
var ErrUnknownOperation = errors.New("unknown operation")

// Params carries the optional per-request operation parameters.
type Params struct {
	NClusters   int
	PreviewRows int
}

// Result is the output of a single analysis operation. On success exactly
// one of Image/HTML (or both never) is set along with Stats; on a
// precondition failure only Err is set.
type Result struct {
	Image string
	HTML  string
	Stats map[string]any
	Err   string
}

// failure builds a Result carrying only a reported error.
func failure(msg string) Result {
	return Result{Err: msg}
}

// Envelope is the uniform response wrapper produced by the dispatcher.
type Envelope struct {
	Success   bool           `json:"success"`
	Operation string         `json:"operation"`
	Stats     map[string]any `json:"stats,omitempty"`
	Image     string         `json:"image,omitempty"`
	HTML      string         `json:"html,omitempty"`
	Error     string         `json:"error,omitempty"`
}
