package analysis

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"sort"
)

// Hand-drawn figure panels for chart types go-chart does not provide
// (heat map, horizontal bars, box plot). Each returns a self-contained
// panel image for compositing.

// toRGBA returns the image as a drawable RGBA canvas.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// correlationHeatmapPanel draws a correlation matrix over the numeric
// columns as a colored grid with per-cell values.
func correlationHeatmapPanel(cols []string, matrix [][]float64, width, height int) image.Image {
	panel := newPanel(width, height)
	drawLabel(panel, 10, 16, "Correlation Matrix", rgbaText)

	const marginLeft, marginTop, marginBottom = 130, 30, 24
	gridW := width - marginLeft - 20
	gridH := height - marginTop - marginBottom
	n := len(cols)
	if n == 0 || gridW <= 0 || gridH <= 0 {
		return panel
	}
	cellW := gridW / n
	cellH := gridH / n

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x0 := marginLeft + j*cellW
			y0 := marginTop + i*cellH
			bg := heatColor(matrix[i][j])
			fillRect(panel, x0, y0, x0+cellW, y0+cellH, bg)
			drawRectOutline(panel, x0, y0, x0+cellW, y0+cellH, rgbaGrid)

			label := fmt.Sprintf("%.2f", matrix[i][j])
			if math.IsNaN(matrix[i][j]) {
				label = "-"
			}
			drawLabel(panel, x0+(cellW-labelWidth(label))/2, y0+cellH/2+4, label, textColorFor(bg))
		}
	}

	// Row labels on the left, column labels along the bottom.
	for i, name := range cols {
		label := truncateLabel(name, 16)
		drawLabel(panel, marginLeft-labelWidth(label)-6, marginTop+i*cellH+cellH/2+4, label, rgbaText)
		drawLabel(panel, marginLeft+i*cellW+4, marginTop+n*cellH+14, truncateLabel(name, cellW/7), rgbaText)
	}
	return panel
}

// missingValuesPanel draws missing-value counts per column as horizontal
// bars, largest first, or a placeholder note when nothing is missing.
func missingValuesPanel(counts map[string]int, width, height int) image.Image {
	panel := newPanel(width, height)
	drawLabel(panel, 10, 16, "Missing Values by Column", rgbaText)

	type colCount struct {
		Name  string
		Count int
	}
	var present []colCount
	maxCount := 0
	for name, c := range counts {
		if c > 0 {
			present = append(present, colCount{name, c})
			if c > maxCount {
				maxCount = c
			}
		}
	}
	if len(present) == 0 {
		msg := "No Missing Values"
		drawLabel(panel, (width-labelWidth(msg))/2, height/2, msg, rgbaText)
		return panel
	}
	sort.Slice(present, func(i, j int) bool {
		if present[i].Count != present[j].Count {
			return present[i].Count > present[j].Count
		}
		return present[i].Name < present[j].Name
	})

	const marginLeft, marginTop = 130, 30
	areaW := width - marginLeft - 60
	rowH := (height - marginTop - 10) / len(present)
	if rowH > 36 {
		rowH = 36
	}
	for i, cc := range present {
		y0 := marginTop + i*rowH
		barLen := int(float64(areaW) * float64(cc.Count) / float64(maxCount))
		if barLen < 2 {
			barLen = 2
		}
		fillRect(panel, marginLeft, y0+4, marginLeft+barLen, y0+rowH-4, rgbaBars)
		label := truncateLabel(cc.Name, 16)
		drawLabel(panel, marginLeft-labelWidth(label)-6, y0+rowH/2+4, label, rgbaText)
		drawLabel(panel, marginLeft+barLen+6, y0+rowH/2+4, fmt.Sprintf("%d", cc.Count), rgbaText)
	}
	return panel
}

// boxPlotPanel draws a single vertical box plot: quartile box, median line
// and 1.5*IQR whiskers clamped to the observed range.
func boxPlotPanel(col string, values []float64, width, height int) image.Image {
	panel := newPanel(width, height)
	drawLabel(panel, 10, 16, "Box Plot: "+truncateLabel(col, 28), rgbaText)
	if len(values) == 0 {
		return panel
	}

	q1 := quantile(values, 0.25)
	q2 := quantile(values, 0.5)
	q3 := quantile(values, 0.75)
	iqr := q3 - q1
	lo, hi := minMax(values)
	whiskerLo := math.Max(lo, q1-1.5*iqr)
	whiskerHi := math.Min(hi, q3+1.5*iqr)

	const marginTop, marginBottom = 34, 24
	plotH := height - marginTop - marginBottom
	span := hi - lo
	if span == 0 {
		span = 1
	}
	// Values map top-down: larger values higher on the panel.
	yFor := func(v float64) int {
		return marginTop + int(float64(plotH)*(hi-v)/span)
	}

	cx := width / 2
	boxW := width / 4
	x0, x1 := cx-boxW/2, cx+boxW/2

	fillRect(panel, x0, yFor(q3), x1, yFor(q1), rgbaBox)
	drawRectOutline(panel, x0, yFor(q3), x1, yFor(q1), rgbaText)
	drawHLine(panel, x0, x1, yFor(q2), rgbaText)

	drawVLine(panel, cx, yFor(whiskerHi), yFor(q3), rgbaText)
	drawVLine(panel, cx, yFor(q1), yFor(whiskerLo), rgbaText)
	drawHLine(panel, cx-boxW/4, cx+boxW/4, yFor(whiskerHi), rgbaText)
	drawHLine(panel, cx-boxW/4, cx+boxW/4, yFor(whiskerLo), rgbaText)

	for _, tick := range []float64{whiskerLo, q1, q2, q3, whiskerHi} {
		drawLabel(panel, x1+boxW/4, yFor(tick)+4, fmt.Sprintf("%.4g", tick), rgbaText)
	}
	return panel
}

// histogramPanel renders a histogram of one column with its mean and
// standard deviation annotated in the corner.
func histogramPanel(col string, values []float64, width, height int) (image.Image, error) {
	h := binValues(values, histogramBinCount)
	bar := histogramBarChart("Distribution of "+truncateLabel(col, 28), width, height, h)
	img, err := renderPanel(bar)
	if err != nil {
		return nil, err
	}
	panel := toRGBA(img)
	drawLabel(panel, 12, 40, fmt.Sprintf("Mean: %.2f", mean(values)), rgbaText)
	drawLabel(panel, 12, 54, fmt.Sprintf("Std: %.2f", stddev(values)), rgbaText)
	return panel, nil
}

func truncateLabel(s string, max int) string {
	if max < 1 {
		max = 1
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
