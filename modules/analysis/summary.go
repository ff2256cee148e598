package analysis

import "fmt"

// Summary produces the descriptive-statistics table for every column as an
// HTML fragment, plus dataset-level counts and an approximate memory
// footprint.
func Summary(t *Table) (Result, error) {
	html, err := renderSummaryTable(t)
	if err != nil {
		return Result{}, err
	}

	return Result{
		HTML: html,
		Stats: map[string]any{
			"n_rows":       t.RowCount(),
			"n_columns":    t.ColumnCount(),
			"n_numeric":    len(t.NumericColumns()),
			"memory_usage": fmt.Sprintf("%.2f KB", t.ApproxMemoryKB()),
		},
	}, nil
}

// Preview renders the first maxRows rows as an HTML table with no
// statistical computation.
func Preview(t *Table, maxRows int) (Result, error) {
	if maxRows <= 0 {
		maxRows = DefaultPreviewRows
	}
	html, err := renderPreviewTable(t, maxRows)
	if err != nil {
		return Result{}, err
	}

	return Result{
		HTML: html,
		Stats: map[string]any{
			"n_rows":    t.RowCount(),
			"n_columns": t.ColumnCount(),
		},
	}, nil
}
