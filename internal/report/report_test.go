package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodscan/internal/engine"
	"prodscan/internal/service"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestNewWriterCreatesRunDir(t *testing.T) {
	base := t.TempDir()
	w, err := NewWriter(base)
	require.NoError(t, err)

	assert.NotEmpty(t, w.RunID)
	info, err := os.Stat(w.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(base, w.RunID), w.Dir())
}

func TestWritePivotCSV(t *testing.T) {
	rollups := []engine.Rollup{
		{Dims: map[engine.Dimension]string{engine.DimLaborDay: "2026-08-01", engine.DimShift: "1"}, Good: 10, Defects: 2},
		{Dims: map[engine.Dimension]string{engine.DimLaborDay: "2026-08-02", engine.DimShift: "3"}, Good: 5},
	}
	table := engine.Pivot(rollups, engine.DimLaborDay, engine.DimShift,
		[]string{"2026-08-01", "2026-08-02"}, []string{"1", "2", "3"})

	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)
	res, err := w.WritePivotCSV("pivot.csv", *table)
	require.NoError(t, err)

	assert.Equal(t, "pivot", res.Kind)
	assert.Equal(t, 2, res.Rows)

	rows := readCSV(t, res.Path)
	require.Len(t, rows, 4) // header, two days, totals
	assert.Equal(t, []string{"laborDay", "1", "2", "3", "total"}, rows[0])
	assert.Equal(t, []string{"2026-08-01", "12", "0", "0", "12"}, rows[1])
	assert.Equal(t, []string{"2026-08-02", "0", "0", "5", "5"}, rows[2])
	assert.Equal(t, []string{"total", "12", "0", "5", "17"}, rows[3])
}

func TestWriteCostCSV(t *testing.T) {
	rep := service.CostReport{
		From: "2026-08-01",
		To:   "2026-08-07",
		Families: map[string][]service.ToolCostReport{
			"CLAMPS": {
				{
					RankedTool: engine.RankedTool{Tool: "TM-9", Family: "CLAMPS", Defects: 4, UnitCost: 2.5, TotalCost: 10},
					TopCodes:   []engine.RankedCode{{Code: "CRACK", Defects: 3, TotalCost: 7.5}},
				},
			},
		},
		TotalCost: 10,
	}

	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)
	res, err := w.WriteCostCSV("cost.csv", rep)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows)

	rows := readCSV(t, res.Path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"CLAMPS", "TM-9", "4", "2.50", "10.00", "CRACK (3)"}, rows[1])
}

func TestWriteBoardCSV(t *testing.T) {
	board := []service.BoardRow{
		{Workstation: "MESA #1", Operator: "100", Good: 900, Defects: 3, Total: 903,
			Target: 1800, Expected: 900, Status: engine.StatusOnTarget, LastTool: "TM-2"},
	}

	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)
	res, err := w.WriteBoardCSV("board.csv", board)
	require.NoError(t, err)

	rows := readCSV(t, res.Path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"MESA #1", "100", "900", "3", "903", "1800", "900", "On target", "TM-2"}, rows[1])
}

func TestWriteManifest(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	results := []Result{{Kind: "pivot", Path: "pivot.csv", Rows: 3}}
	path, err := w.WriteManifest(results)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var manifest map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, w.RunID, manifest["run_id"])
	files, ok := manifest["files"].([]interface{})
	require.True(t, ok)
	assert.Len(t, files, 1)
}
