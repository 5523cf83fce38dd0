package engine

import "sort"

// PivotCell is one cell of a pivot table. Zero cells are materialized so
// consumers can add rows and columns without null checks.
type PivotCell struct {
	Good    int `json:"good"`
	Defects int `json:"defects"`
	Total   int `json:"total"`
}

func (c PivotCell) add(r Rollup) PivotCell {
	c.Good += r.Good
	c.Defects += r.Defects
	c.Total += r.Total()
	return c
}

func (c PivotCell) plus(o PivotCell) PivotCell {
	c.Good += o.Good
	c.Defects += o.Defects
	c.Total += o.Total
	return c
}

// PivotTable is a dense two-dimensional reshaping of rollups, typically
// labor-day × shift or workstation × shift. It carries no formatting; the
// presentation layer renders it as a spreadsheet, HTML table, or JSON.
type PivotTable struct {
	RowDim Dimension `json:"rowDim"`
	ColDim Dimension `json:"colDim"`

	Rows []string `json:"rows"`
	Cols []string `json:"cols"`

	// Cells is indexed [row][col] and always len(Rows) × len(Cols).
	Cells [][]PivotCell `json:"cells"`

	RowTotals  []PivotCell `json:"rowTotals"`
	ColTotals  []PivotCell `json:"colTotals"`
	GrandTotal PivotCell   `json:"grandTotal"`
}

// Pivot reshapes rollups (grouped by at least rowDim and colDim) into a dense
// table. The axes are the union of the observed key values and the seed
// values, so a caller can force a full day range or the complete shift list
// and still get zero cells for empty combinations. Axes are ordered the same
// way rollup keys are (workstations by embedded number, days chronologically,
// the rest lexically).
func Pivot(rollups []Rollup, rowDim, colDim Dimension, seedRows, seedCols []string) *PivotTable {
	rows := axis(rollups, rowDim, seedRows)
	cols := axis(rollups, colDim, seedCols)

	rowIdx := indexOf(rows)
	colIdx := indexOf(cols)

	cells := make([][]PivotCell, len(rows))
	for i := range cells {
		cells[i] = make([]PivotCell, len(cols))
	}

	for _, r := range rollups {
		i, ok := rowIdx[r.Get(rowDim)]
		if !ok {
			continue
		}
		j, ok := colIdx[r.Get(colDim)]
		if !ok {
			continue
		}
		cells[i][j] = cells[i][j].add(r)
	}

	t := &PivotTable{
		RowDim:    rowDim,
		ColDim:    colDim,
		Rows:      rows,
		Cols:      cols,
		Cells:     cells,
		RowTotals: make([]PivotCell, len(rows)),
		ColTotals: make([]PivotCell, len(cols)),
	}
	for i := range rows {
		for j := range cols {
			t.RowTotals[i] = t.RowTotals[i].plus(cells[i][j])
			t.ColTotals[j] = t.ColTotals[j].plus(cells[i][j])
			t.GrandTotal = t.GrandTotal.plus(cells[i][j])
		}
	}
	return t
}

// axis collects the distinct values of one dimension, unions in the seeds,
// and sorts them for presentation.
func axis(rollups []Rollup, dim Dimension, seed []string) []string {
	seen := make(map[string]bool, len(seed))
	values := make([]string, 0, len(seed))
	for _, v := range seed {
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	for _, r := range rollups {
		v := r.Get(dim)
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Slice(values, func(i, j int) bool { return dimLess(dim, values[i], values[j]) })
	return values
}

func indexOf(values []string) map[string]int {
	idx := make(map[string]int, len(values))
	for i, v := range values {
		idx[v] = i
	}
	return idx
}
