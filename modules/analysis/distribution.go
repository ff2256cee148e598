package analysis

import "image"

// Distribution renders a histogram for every numeric column, annotated with
// the column mean and standard deviation, arranged in a grid of at most
// three panels per row.
func Distribution(t *Table) (Result, error) {
	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return failure("no numeric columns found"), nil
	}

	const panelW, panelH = 500, 400
	panels := make([]image.Image, 0, len(numeric))
	for _, col := range numeric {
		panel, err := histogramPanel(col, t.NumericValues(col), panelW, panelH)
		if err != nil {
			return Result{}, err
		}
		panels = append(panels, panel)
	}

	grid := composeGrid(panels, 3, panelW, panelH)
	img, err := encodeImage(grid)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Image: img,
		Stats: map[string]any{
			"n_variables": len(numeric),
			"variables":   numeric,
		},
	}, nil
}
