package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// missingTokens are the cell values treated as a missing observation.
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
}

// Cell is one observation in a Table. For cells in numeric columns Value
// holds the parsed number; Raw always holds the original text.
type Cell struct {
	Raw     string
	Value   float64
	Missing bool
}

// Table is an in-memory dataset with named columns. It is built once by
// ParseCSV and read-only afterwards; row and column counts never change.
type Table struct {
	Columns []string
	Rows    [][]Cell

	numericCols []string
	numericIdx  []int
}

// ParseCSV reads delimited text into a Table. Ragged rows are padded with
// missing cells. A column is classified numeric when every non-missing cell
// parses as a float and at least one non-missing cell exists.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV input")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		headers[i] = h
	}

	t := &Table{
		Columns: headers,
		Rows:    make([][]Cell, 0, len(records)-1),
	}

	for _, record := range records[1:] {
		row := make([]Cell, len(headers))
		for i := range headers {
			var raw string
			if i < len(record) {
				raw = strings.TrimSpace(record[i])
			}
			cell := Cell{Raw: raw}
			if missingTokens[strings.ToLower(raw)] {
				cell.Missing = true
			} else if v, err := strconv.ParseFloat(raw, 64); err == nil {
				cell.Value = v
			}
			row[i] = cell
		}
		t.Rows = append(t.Rows, row)
	}

	t.classifyColumns()
	return t, nil
}

// classifyColumns infers which columns hold uniformly numeric content.
func (t *Table) classifyColumns() {
	for i, name := range t.Columns {
		numeric := false
		for _, row := range t.Rows {
			cell := row[i]
			if cell.Missing {
				continue
			}
			if _, err := strconv.ParseFloat(cell.Raw, 64); err != nil {
				numeric = false
				break
			}
			numeric = true
		}
		if numeric {
			t.numericCols = append(t.numericCols, name)
			t.numericIdx = append(t.numericIdx, i)
		}
	}
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// NumericColumns returns the names of numeric columns in header order.
// The result may be empty; callers must treat that as "operation cannot run".
func (t *Table) NumericColumns() []string {
	return t.numericCols
}

// columnIndex returns the position of a column by name, or -1.
func (t *Table) columnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// NumericValues returns all non-missing values of a numeric column.
func (t *Table) NumericValues(name string) []float64 {
	idx := t.columnIndex(name)
	if idx < 0 {
		return nil
	}
	values := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row[idx].Missing {
			continue
		}
		values = append(values, row[idx].Value)
	}
	return values
}

// CompletePairs returns the value pairs of two numeric columns for rows
// where neither value is missing.
func (t *Table) CompletePairs(xCol, yCol string) (xs, ys []float64) {
	xi, yi := t.columnIndex(xCol), t.columnIndex(yCol)
	if xi < 0 || yi < 0 {
		return nil, nil
	}
	for _, row := range t.Rows {
		if row[xi].Missing || row[yi].Missing {
			continue
		}
		xs = append(xs, row[xi].Value)
		ys = append(ys, row[yi].Value)
	}
	return xs, ys
}

// CompleteNumericRows returns one float vector per row for rows where every
// numeric column has a value. Vector order follows NumericColumns.
func (t *Table) CompleteNumericRows() [][]float64 {
	var rows [][]float64
	for _, row := range t.Rows {
		vec := make([]float64, 0, len(t.numericIdx))
		complete := true
		for _, idx := range t.numericIdx {
			if row[idx].Missing {
				complete = false
				break
			}
			vec = append(vec, row[idx].Value)
		}
		if complete {
			rows = append(rows, vec)
		}
	}
	return rows
}

// MissingCount returns the total number of missing cells.
func (t *Table) MissingCount() int {
	count := 0
	for _, row := range t.Rows {
		for _, cell := range row {
			if cell.Missing {
				count++
			}
		}
	}
	return count
}

// MissingByColumn returns the number of missing cells per column.
func (t *Table) MissingByColumn() map[string]int {
	counts := make(map[string]int, len(t.Columns))
	for i, name := range t.Columns {
		for _, row := range t.Rows {
			if row[i].Missing {
				counts[name]++
			}
		}
	}
	return counts
}

// DuplicateRowCount returns how many rows are exact repeats of an earlier row.
func (t *Table) DuplicateRowCount() int {
	seen := make(map[string]bool, len(t.Rows))
	dups := 0
	for _, row := range t.Rows {
		var b strings.Builder
		for _, cell := range row {
			b.WriteString(cell.Raw)
			b.WriteByte('\x1f')
		}
		key := b.String()
		if seen[key] {
			dups++
		}
		seen[key] = true
	}
	return dups
}

// ApproxMemoryKB estimates the in-memory footprint of the table in kilobytes.
func (t *Table) ApproxMemoryKB() float64 {
	bytes := 0
	for _, name := range t.Columns {
		bytes += len(name)
	}
	for _, row := range t.Rows {
		for _, cell := range row {
			bytes += len(cell.Raw) + 16
		}
	}
	return float64(bytes) / 1024.0
}
