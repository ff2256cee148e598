package analysis

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Plot palette, matching the green theme used across all visualizations.
var (
	colorPoints    = drawing.Color{R: 0x2E, G: 0x7D, B: 0x32, A: 255}
	colorLine      = drawing.Color{R: 0x1B, G: 0x5E, B: 0x20, A: 255}
	colorBars      = drawing.Color{R: 0x43, G: 0xA0, B: 0x47, A: 255}
	colorCentroids = drawing.Color{R: 0xD3, G: 0x2F, B: 0x2F, A: 255}

	rgbaBars = color.RGBA{R: 0x66, G: 0xBB, B: 0x6A, A: 255}
	rgbaBox  = color.RGBA{R: 0x81, G: 0xC7, B: 0x84, A: 255}
	rgbaText = color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 255}
	rgbaGrid = color.RGBA{R: 0xBD, G: 0xBD, B: 0xBD, A: 255}
)

// pngRenderable is satisfied by both chart.Chart and chart.BarChart.
type pngRenderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// renderPNG renders a chart into PNG bytes. Rendering happens entirely into
// an in-memory buffer so repeated calls hold no resources.
func renderPNG(c pngRenderable) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// encodePlot renders a chart and returns it as a base64 PNG string suitable
// for a JSON payload.
func encodePlot(c pngRenderable) (string, error) {
	data, err := renderPNG(c)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// encodeImage PNG-encodes an image and returns it base64 encoded.
func encodeImage(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// renderPanel renders a chart and decodes it back into an image for
// compositing into a multi-panel figure.
func renderPanel(c pngRenderable) (image.Image, error) {
	data, err := renderPNG(c)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode rendered chart: %w", err)
	}
	return img, nil
}

// pointStyle returns the dot-only style used for scatter series.
func pointStyle(c drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    c,
	}
}

// paddedRange returns an explicit axis range when the values span zero
// width, which go-chart rejects ("invalid data range").
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := minMax(values)
	if lo != hi {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

// scatterChart builds a titled scatter chart from named point series.
func scatterChart(title, xLabel, yLabel string, width, height int, series []chart.Series, allX, allY []float64) chart.Chart {
	ch := chart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		XAxis:  chart.XAxis{Name: xLabel},
		YAxis:  chart.YAxis{Name: yLabel},
		Series: series,
	}
	if r := paddedRange(allX); r != nil {
		ch.XAxis.Range = r
	}
	if r := paddedRange(allY); r != nil {
		ch.YAxis.Range = r
	}
	return ch
}

// histogramBarChart builds a fixed-bin histogram as a bar chart. Only every
// few bin edges are labeled to keep the axis readable.
func histogramBarChart(title string, width, height int, h histogram) chart.BarChart {
	bars := make([]chart.Value, len(h.Counts))
	labelEvery := len(h.Counts) / 6
	if labelEvery < 1 {
		labelEvery = 1
	}
	for i, count := range h.Counts {
		label := ""
		if i%labelEvery == 0 {
			label = fmt.Sprintf("%.3g", h.Edges[i])
		}
		bars[i] = chart.Value{
			Value: float64(count),
			Label: label,
			Style: chart.Style{FillColor: colorBars, StrokeColor: colorLine, StrokeWidth: 1},
		}
	}

	barWidth := (width - 80) / len(bars)
	if barWidth < 2 {
		barWidth = 2
	}
	return chart.BarChart{
		Title:    title,
		Width:    width,
		Height:   height,
		BarWidth: barWidth,
		Bars:     bars,
		YAxis: chart.YAxis{
			ValueFormatter: chart.IntValueFormatter,
		},
	}
}

// newPanel allocates a white canvas for hand-drawn panels.
func newPanel(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	draw.Draw(img, image.Rect(x0, y0, x1, y1), image.NewUniform(c), image.Point{}, draw.Src)
}

func drawHLine(img *image.RGBA, x0, x1, y int, c color.Color) {
	fillRect(img, x0, y, x1, y+1, c)
}

func drawVLine(img *image.RGBA, x, y0, y1 int, c color.Color) {
	fillRect(img, x, y0, x+1, y1, c)
}

func drawRectOutline(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	drawHLine(img, x0, x1, y0, c)
	drawHLine(img, x0, x1, y1-1, c)
	drawVLine(img, x0, y0, y1, c)
	drawVLine(img, x1-1, y0, y1, c)
}

// drawLabel writes text onto a panel at the given baseline-left position.
func drawLabel(img *image.RGBA, x, y int, text string, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// labelWidth returns the rendered pixel width of a label.
func labelWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}

// composeGrid lays panels out left to right, top to bottom, at most perRow
// panels per row, and returns the combined figure.
func composeGrid(panels []image.Image, perRow, cellW, cellH int) *image.RGBA {
	if perRow > len(panels) {
		perRow = len(panels)
	}
	rows := (len(panels) + perRow - 1) / perRow
	canvas := newPanel(perRow*cellW, rows*cellH)
	for i, p := range panels {
		x := (i % perRow) * cellW
		y := (i / perRow) * cellH
		draw.Draw(canvas, image.Rect(x, y, x+cellW, y+cellH), p, p.Bounds().Min, draw.Src)
	}
	return canvas
}

// drawPanelAt copies a panel onto a larger canvas at the given origin.
func drawPanelAt(canvas *image.RGBA, p image.Image, x, y int) {
	b := p.Bounds()
	draw.Draw(canvas, image.Rect(x, y, x+b.Dx(), y+b.Dy()), p, b.Min, draw.Src)
}

// heatColor maps a correlation value in [-1, 1] onto a light-to-dark green
// ramp.
func heatColor(v float64) color.RGBA {
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}
	t := (v + 1) / 2
	lerp := func(a, b uint8) uint8 {
		return uint8(float64(a) + t*(float64(b)-float64(a)))
	}
	light := color.RGBA{R: 0xE8, G: 0xF5, B: 0xE9, A: 255}
	dark := color.RGBA{R: 0x1B, G: 0x5E, B: 0x20, A: 255}
	return color.RGBA{R: lerp(light.R, dark.R), G: lerp(light.G, dark.G), B: lerp(light.B, dark.B), A: 255}
}

// textColorFor picks a readable label color against a heat cell.
func textColorFor(bg color.RGBA) color.Color {
	// Perceived luminance.
	lum := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if lum < 128 {
		return color.White
	}
	return rgbaText
}
