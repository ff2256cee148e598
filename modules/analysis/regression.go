package analysis

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// Regression fits ordinary least squares of the second numeric column on
// the first, over rows where both values are present, and renders the
// points with the fitted line overlaid.
func Regression(t *Table) (Result, error) {
	numeric := t.NumericColumns()
	if len(numeric) < 2 {
		return failure("need at least 2 numeric columns for regression"), nil
	}
	xCol, yCol := numeric[0], numeric[1]

	xs, ys := t.CompletePairs(xCol, yCol)
	if len(xs) < 2 {
		return failure("not enough valid data points"), nil
	}

	fit := fitOLS(xs, ys)

	lo, hi := minMax(xs)
	lineXs := []float64{lo, hi}
	lineYs := []float64{fit.Slope*lo + fit.Intercept, fit.Slope*hi + fit.Intercept}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Data points",
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(colorPoints),
		},
		chart.ContinuousSeries{
			Name:    fmt.Sprintf("Regression line (R2=%.3f)", fit.RSquared),
			XValues: lineXs,
			YValues: lineYs,
			Style:   chart.Style{StrokeWidth: 2, StrokeColor: colorLine},
		},
	}
	ch := scatterChart(
		fmt.Sprintf("Linear Regression: %s vs %s", yCol, xCol),
		xCol, yCol, 1000, 600, series, xs, ys,
	)
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	img, err := encodePlot(ch)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Image: img,
		Stats: map[string]any{
			"x_variable": xCol,
			"y_variable": yCol,
			"slope":      fit.Slope,
			"intercept":  fit.Intercept,
			"r_squared":  fit.RSquared,
			"n_samples":  len(xs),
		},
	}, nil
}
