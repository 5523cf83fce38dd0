// Package report writes pivot tables, cost breakdowns and board
// snapshots to disk as CSV or JSON, one uuid-keyed directory per run.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"prodscan/internal/engine"
	"prodscan/internal/service"
)

// Result describes one file produced by a run.
type Result struct {
	Kind      string    `json:"kind"`
	Path      string    `json:"path"`
	Rows      int       `json:"rows"`
	WrittenAt time.Time `json:"written_at"`
}

// Writer groups the output files of a single report run under a
// uuid-named directory below BaseDir.
type Writer struct {
	BaseDir string
	RunID   string
	dir     string
}

// NewWriter allocates a fresh run directory under baseDir.
func NewWriter(baseDir string) (*Writer, error) {
	runID := uuid.New().String()
	dir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &Writer{BaseDir: baseDir, RunID: runID, dir: dir}, nil
}

// Dir returns the run directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WritePivotCSV writes a dense pivot table. The first column holds the
// row axis values, then one column per column axis value, then a row
// total. A final row carries the column totals and the grand total.
func (w *Writer) WritePivotCSV(name string, table engine.PivotTable) (Result, error) {
	path := filepath.Join(w.dir, filepath.Base(name))
	file, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	defer cw.Flush()

	header := []string{string(table.RowDim)}
	header = append(header, table.Cols...)
	header = append(header, "total")
	if err := cw.Write(header); err != nil {
		return Result{}, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range table.Rows {
		record := []string{row}
		for j := range table.Cols {
			record = append(record, strconv.Itoa(table.Cells[i][j].Total))
		}
		record = append(record, strconv.Itoa(table.RowTotals[i].Total))
		if err := cw.Write(record); err != nil {
			return Result{}, fmt.Errorf("failed to write row: %w", err)
		}
	}

	footer := []string{"total"}
	for _, t := range table.ColTotals {
		footer = append(footer, strconv.Itoa(t.Total))
	}
	footer = append(footer, strconv.Itoa(table.GrandTotal.Total))
	if err := cw.Write(footer); err != nil {
		return Result{}, fmt.Errorf("failed to write totals: %w", err)
	}

	return Result{Kind: "pivot", Path: path, Rows: len(table.Rows), WrittenAt: time.Now()}, nil
}

// WriteCostCSV writes the per-family defect cost ranking, one line per
// ranked tool.
func (w *Writer) WriteCostCSV(name string, rep service.CostReport) (Result, error) {
	path := filepath.Join(w.dir, filepath.Base(name))
	file, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	defer cw.Flush()

	header := []string{"family", "tool", "defects", "unit_cost", "cost", "top_codes"}
	if err := cw.Write(header); err != nil {
		return Result{}, fmt.Errorf("failed to write header: %w", err)
	}

	rows := 0
	for family, tools := range rep.Families {
		for _, tool := range tools {
			codes := ""
			for i, c := range tool.TopCodes {
				if i > 0 {
					codes += "; "
				}
				codes += fmt.Sprintf("%s (%d)", c.Code, c.Defects)
			}
			record := []string{
				family,
				tool.Tool,
				strconv.Itoa(tool.Defects),
				strconv.FormatFloat(tool.UnitCost, 'f', 2, 64),
				strconv.FormatFloat(tool.TotalCost, 'f', 2, 64),
				codes,
			}
			if err := cw.Write(record); err != nil {
				return Result{}, fmt.Errorf("failed to write row: %w", err)
			}
			rows++
		}
	}

	return Result{Kind: "cost", Path: path, Rows: rows, WrittenAt: time.Now()}, nil
}

// WriteBoardCSV writes a board snapshot, one line per workstation and
// operator pair.
func (w *Writer) WriteBoardCSV(name string, rows []service.BoardRow) (Result, error) {
	path := filepath.Join(w.dir, filepath.Base(name))
	file, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	defer cw.Flush()

	header := []string{"workstation", "operator", "good", "defects", "total", "target", "expected", "status", "last_tool"}
	if err := cw.Write(header); err != nil {
		return Result{}, fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Workstation,
			row.Operator,
			strconv.Itoa(row.Good),
			strconv.Itoa(row.Defects),
			strconv.Itoa(row.Total),
			strconv.Itoa(row.Target),
			strconv.Itoa(row.Expected),
			string(row.Status),
			row.LastTool,
		}
		if err := cw.Write(record); err != nil {
			return Result{}, fmt.Errorf("failed to write row: %w", err)
		}
	}

	return Result{Kind: "board", Path: path, Rows: len(rows), WrittenAt: time.Now()}, nil
}

// WriteManifest writes run metadata plus the list of produced files.
func (w *Writer) WriteManifest(results []Result) (string, error) {
	path := filepath.Join(w.dir, "manifest.json")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create manifest: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	manifest := map[string]interface{}{
		"run_id":     w.RunID,
		"written_at": time.Now().UTC(),
		"files":      results,
	}
	if err := enc.Encode(manifest); err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}
	return path, nil
}
