package analysis

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// Clustering standardizes the complete numeric rows, partitions them with
// k-means, and renders the first two numeric columns in their original
// scale colored by cluster, with the centroids mapped back from the
// standardized space.
func Clustering(t *Table, nClusters int) (Result, error) {
	if nClusters < 1 {
		nClusters = DefaultClusters
	}
	numeric := t.NumericColumns()
	if len(numeric) < 2 {
		return failure("need at least 2 numeric columns for clustering"), nil
	}

	rows := t.CompleteNumericRows()
	if len(rows) < nClusters {
		return failure(fmt.Sprintf("not enough data points for %d clusters", nClusters)), nil
	}

	scaler := newFeatureScaler(rows)
	scaled := scaler.Transform(rows)
	res := runKMeans(scaled, nClusters)

	// One scatter series per cluster, plotted on the first two features in
	// the original scale.
	var allX, allY []float64
	series := make([]chart.Series, 0, nClusters+1)
	for c := 0; c < nClusters; c++ {
		var xs, ys []float64
		for i, row := range rows {
			if res.Assignments[i] != c {
				continue
			}
			xs = append(xs, row[0])
			ys = append(ys, row[1])
		}
		if len(xs) == 0 {
			// A restart can leave a cluster empty; go-chart rejects
			// zero-length series.
			continue
		}
		allX = append(allX, xs...)
		allY = append(allY, ys...)
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("Cluster %d", c),
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(chart.GetDefaultColor(c)),
		})
	}

	centroidXs := make([]float64, nClusters)
	centroidYs := make([]float64, nClusters)
	for c, centroid := range res.Centroids {
		orig := scaler.InverseTransform(centroid)
		centroidXs[c] = orig[0]
		centroidYs[c] = orig[1]
	}
	centroidStyle := pointStyle(colorCentroids)
	centroidStyle.DotWidth = 9
	series = append(series, chart.ContinuousSeries{
		Name:    "Centroids",
		XValues: centroidXs,
		YValues: centroidYs,
		Style:   centroidStyle,
	})

	ch := scatterChart(
		fmt.Sprintf("K-Means Clustering (k=%d)", nClusters),
		numeric[0], numeric[1], 1000, 600, series, allX, allY,
	)
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	img, err := encodePlot(ch)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Image: img,
		Stats: map[string]any{
			"n_clusters":    nClusters,
			"n_samples":     len(rows),
			"features_used": []string{numeric[0], numeric[1]},
			"inertia":       res.Inertia,
		},
	}, nil
}
