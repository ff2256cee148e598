package analysis

import (
	"fmt"
	"html/template"
	"strings"
)

// HTML fragment rendering for the preview and summary operations. The table
// shapes mirror a spreadsheet data grid and a describe-all statistics table.

const previewTableHTML = `<table class="data-table">
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>`

const summaryTableHTML = `<table class="stats-table">
<thead><tr><th></th>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr><th>{{.Column}}</th>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>`

var (
	previewTemplate = template.Must(template.New("preview").Parse(previewTableHTML))
	summaryTemplate = template.Must(template.New("summary").Parse(summaryTableHTML))
)

// renderPreviewTable renders the first maxRows rows as an HTML table.
// Missing cells are shown as NaN.
func renderPreviewTable(t *Table, maxRows int) (string, error) {
	if maxRows < 0 {
		maxRows = 0
	}
	n := maxRows
	if n > len(t.Rows) {
		n = len(t.Rows)
	}

	rows := make([][]string, 0, n)
	for _, row := range t.Rows[:n] {
		cells := make([]string, len(row))
		for i, cell := range row {
			if cell.Missing {
				cells[i] = "NaN"
			} else {
				cells[i] = cell.Raw
			}
		}
		rows = append(rows, cells)
	}

	var b strings.Builder
	err := previewTemplate.Execute(&b, struct {
		Columns []string
		Rows    [][]string
	}{t.Columns, rows})
	if err != nil {
		return "", fmt.Errorf("failed to render preview table: %w", err)
	}
	return b.String(), nil
}

var summaryHeaders = []string{"count", "unique", "top", "freq", "mean", "std", "min", "25%", "50%", "75%", "max"}

type summaryRow struct {
	Column string
	Cells  []string
}

// renderSummaryTable renders per-column descriptive statistics: spread
// measures for numeric columns, cardinality and mode for the rest.
func renderSummaryTable(t *Table) (string, error) {
	numeric := make(map[string]bool, len(t.NumericColumns()))
	for _, c := range t.NumericColumns() {
		numeric[c] = true
	}

	rows := make([]summaryRow, 0, len(t.Columns))
	for i, col := range t.Columns {
		cells := make([]string, len(summaryHeaders))
		for j := range cells {
			cells[j] = "NaN"
		}

		if numeric[col] {
			values := t.NumericValues(col)
			cells[0] = fmt.Sprintf("%d", len(values))
			if len(values) > 0 {
				lo, hi := minMax(values)
				cells[4] = formatStat(mean(values))
				cells[5] = formatStat(stddev(values))
				cells[6] = formatStat(lo)
				cells[7] = formatStat(quantile(values, 0.25))
				cells[8] = formatStat(quantile(values, 0.5))
				cells[9] = formatStat(quantile(values, 0.75))
				cells[10] = formatStat(hi)
			}
		} else {
			count := 0
			freq := make(map[string]int)
			for _, row := range t.Rows {
				if row[i].Missing {
					continue
				}
				count++
				freq[row[i].Raw]++
			}
			top, topCount := "", 0
			for v, c := range freq {
				if c > topCount || (c == topCount && v < top) {
					top, topCount = v, c
				}
			}
			cells[0] = fmt.Sprintf("%d", count)
			cells[1] = fmt.Sprintf("%d", len(freq))
			if topCount > 0 {
				cells[2] = top
				cells[3] = fmt.Sprintf("%d", topCount)
			}
		}
		rows = append(rows, summaryRow{Column: col, Cells: cells})
	}

	var b strings.Builder
	err := summaryTemplate.Execute(&b, struct {
		Headers []string
		Rows    []summaryRow
	}{summaryHeaders, rows})
	if err != nil {
		return "", fmt.Errorf("failed to render summary table: %w", err)
	}
	return b.String(), nil
}

func formatStat(v float64) string {
	return fmt.Sprintf("%.6g", v)
}
