package analysis

import (
	"math"
	"sort"
)

// Descriptive statistics and model fitting helpers shared by the analysis
// operations. Standard deviation is the sample deviation (n-1) and quantiles
// interpolate linearly between closest ranks.

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

func minMax(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return math.NaN(), math.NaN()
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// quantile returns the q-th quantile (0 <= q <= 1) of values.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// pearson returns the Pearson correlation coefficient of two equal-length
// samples, or NaN when either sample has zero variance.
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return math.NaN()
	}
	mx, my := mean(xs), mean(ys)
	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}

// olsFit fits ordinary least squares of y on x.
type olsFit struct {
	Slope     float64
	Intercept float64
	RSquared  float64
}

func fitOLS(xs, ys []float64) olsFit {
	mx, my := mean(xs), mean(ys)
	var cov, varX float64
	for i := range xs {
		dx := xs[i] - mx
		cov += dx * (ys[i] - my)
		varX += dx * dx
	}
	slope := 0.0
	if varX != 0 {
		slope = cov / varX
	}
	intercept := my - slope*mx

	// R^2 = 1 - SS_res/SS_tot
	var ssRes, ssTot float64
	for i := range xs {
		pred := slope*xs[i] + intercept
		ssRes += (ys[i] - pred) * (ys[i] - pred)
		ssTot += (ys[i] - my) * (ys[i] - my)
	}
	r2 := 0.0
	if ssTot != 0 {
		r2 = 1 - ssRes/ssTot
	} else if ssRes == 0 {
		r2 = 1
	}
	return olsFit{Slope: slope, Intercept: intercept, RSquared: r2}
}

// histogramBinCount is the fixed bin count used by every histogram.
const histogramBinCount = 30

type histogram struct {
	Edges  []float64 // len = bins+1
	Counts []int     // len = bins
}

// binValues buckets values into a fixed number of equal-width bins spanning
// [min, max]. A degenerate (constant) sample lands entirely in one bin.
func binValues(values []float64, bins int) histogram {
	h := histogram{
		Edges:  make([]float64, bins+1),
		Counts: make([]int, bins),
	}
	if len(values) == 0 {
		return h
	}
	lo, hi := minMax(values)
	if hi == lo {
		hi = lo + 1
	}
	width := (hi - lo) / float64(bins)
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		h.Counts[idx]++
	}
	return h
}
