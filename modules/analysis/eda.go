package analysis

import (
	"github.com/wcharczuk/go-chart/v2"
)

// EDA builds one composite exploratory figure: a correlation heat map across
// numeric columns, missing-value counts, a box plot of the first numeric
// column, a histogram of the second (or first), and a scatter of the first
// two numeric columns.
func EDA(t *Table) (Result, error) {
	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return failure("no numeric columns found"), nil
	}

	const (
		figW   = 1600
		panelW = 800
		panelH = 400
	)
	canvas := newPanel(figW, 3*panelH)

	// Top band: correlation heat map over the numeric columns.
	if len(numeric) >= 2 {
		matrix := correlationMatrix(t, numeric)
		drawPanelAt(canvas, correlationHeatmapPanel(numeric, matrix, figW, panelH), 0, 0)
	}

	// Middle band: missing values and a box plot.
	drawPanelAt(canvas, missingValuesPanel(t.MissingByColumn(), panelW, panelH), 0, panelH)
	drawPanelAt(canvas, boxPlotPanel(numeric[0], t.NumericValues(numeric[0]), panelW, panelH), panelW, panelH)

	// Bottom band: a histogram and, when possible, a scatter.
	histCol := numeric[0]
	if len(numeric) > 1 {
		histCol = numeric[1]
	}
	hist, err := histogramPanel(histCol, t.NumericValues(histCol), panelW, panelH)
	if err != nil {
		return Result{}, err
	}
	drawPanelAt(canvas, hist, 0, 2*panelH)

	if len(numeric) >= 2 {
		xs, ys := t.CompletePairs(numeric[0], numeric[1])
		if len(xs) > 0 {
			ch := scatterChart(
				numeric[1]+" vs "+numeric[0],
				numeric[0], numeric[1], panelW, panelH,
				[]chart.Series{chart.ContinuousSeries{
					Name:    "Observations",
					XValues: xs,
					YValues: ys,
					Style:   pointStyle(colorPoints),
				}},
				xs, ys,
			)
			scatter, err := renderPanel(ch)
			if err != nil {
				return Result{}, err
			}
			drawPanelAt(canvas, scatter, panelW, 2*panelH)
		}
	}

	img, err := encodeImage(canvas)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Image: img,
		Stats: map[string]any{
			"n_rows":         t.RowCount(),
			"n_columns":      t.ColumnCount(),
			"n_numeric":      len(numeric),
			"missing_values": t.MissingCount(),
			"duplicate_rows": t.DuplicateRowCount(),
		},
	}, nil
}

// correlationMatrix computes pairwise Pearson correlations over rows where
// both columns have values.
func correlationMatrix(t *Table, cols []string) [][]float64 {
	matrix := make([][]float64, len(cols))
	for i := range cols {
		matrix[i] = make([]float64, len(cols))
		for j := range cols {
			if i == j {
				matrix[i][j] = 1
				continue
			}
			xs, ys := t.CompletePairs(cols[i], cols[j])
			matrix[i][j] = pearson(xs, ys)
		}
	}
	return matrix
}
