package service

import (
	"context"
	"fmt"
	"time"

	"prodscan/internal/engine"
)

// Report sizing taken over from the floor's cost report: five tools per
// family, three defect codes per tool.
const (
	topToolsPerFamily = 5
	topCodesPerTool   = 3
)

// Summary is the labor-day × shift pivot for a date range. The axes are
// seeded with the full day range and the whole shift table, so every cell
// exists even when empty.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*engine.PivotTable, error) {
	return s.PivotReport(ctx, from, to, engine.DimLaborDay, engine.DimShift)
}

// PivotReport builds a dense two-dimensional pivot over the labor-day range.
// Labor-day axes are seeded with every day of the range and shift axes with
// the full shift table; other dimensions show observed values only.
func (s *Service) PivotReport(ctx context.Context, from, to time.Time, rowDim, colDim engine.Dimension) (*engine.PivotTable, error) {
	scans, defects, err := s.fetch(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rollups := s.agg.Aggregate(engine.Input{
		Scans:   scans,
		Defects: defects,
		From:    from,
		To:      to,
	}, rowDim, colDim)

	return engine.Pivot(rollups, rowDim, colDim, s.axisSeed(rowDim, from, to), s.axisSeed(colDim, from, to)), nil
}

func (s *Service) axisSeed(dim engine.Dimension, from, to time.Time) []string {
	switch dim {
	case engine.DimLaborDay:
		return laborDays(from, to)
	case engine.DimShift:
		return s.shiftIDs()
	default:
		return nil
	}
}

// TopTools ranks tools by total defect cost over the labor-day range.
func (s *Service) TopTools(ctx context.Context, from, to time.Time, n int) ([]engine.RankedTool, error) {
	rollups, cat, err := s.defectToolRollups(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return engine.TopTools(rollups, cat, n), nil
}

// TopDefectCodes ranks one tool's defect codes by cost over the range.
func (s *Service) TopDefectCodes(ctx context.Context, from, to time.Time, tool string, n int) ([]engine.RankedCode, error) {
	rollups, cat, err := s.defectToolRollups(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return engine.TopDefectCodes(rollups, tool, cat, n), nil
}

// ToolCostReport is one ranked tool with its own worst defect codes.
type ToolCostReport struct {
	engine.RankedTool
	TopCodes []engine.RankedCode `json:"topCodes"`
}

// CostReport is the per-family cost breakdown: the five most expensive tools
// of each family, each with its three most expensive defect codes.
type CostReport struct {
	From      string                      `json:"from"`
	To        string                      `json:"to"`
	Families  map[string][]ToolCostReport `json:"families"`
	TotalCost float64                     `json:"totalCost"`
}

// BuildCostReport assembles the cost report for a labor-day range.
func (s *Service) BuildCostReport(ctx context.Context, from, to time.Time) (*CostReport, error) {
	rollups, cat, err := s.defectToolRollups(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &CostReport{
		From:     from.Format(engine.LaborDayFormat),
		To:       to.Format(engine.LaborDayFormat),
		Families: make(map[string][]ToolCostReport),
	}
	for fam, tools := range engine.TopToolsByFamily(rollups, cat, topToolsPerFamily) {
		entries := make([]ToolCostReport, 0, len(tools))
		for _, t := range tools {
			entries = append(entries, ToolCostReport{
				RankedTool: t,
				TopCodes:   engine.TopDefectCodes(rollups, t.Tool, cat, topCodesPerTool),
			})
		}
		report.Families[fam] = entries
	}
	for _, t := range engine.TopTools(rollups, cat, 0) {
		report.TotalCost += t.TotalCost
	}
	return report, nil
}

// DefectShare is one defect code's weight against total production.
type DefectShare struct {
	Code    string  `json:"code"`
	Defects int     `json:"defects"`
	Share   float64 `json:"share"` // percent of total pieces in the range
}

// DefectShares computes per-code defect percentages for the dashboard.
// Codes on the configured exclusion list are left out of both the listing
// and the percentage base.
func (s *Service) DefectShares(ctx context.Context, from, to time.Time) ([]DefectShare, error) {
	scans, defects, err := s.fetch(ctx, from, to)
	if err != nil {
		return nil, err
	}

	in := engine.Input{Scans: scans, Defects: defects, From: from, To: to}

	var goodTotal int
	for _, r := range s.agg.Aggregate(in, engine.DimLaborDay) {
		goodTotal += r.Good
	}

	byCode := s.agg.Aggregate(engine.Input{Defects: defects, From: from, To: to}, engine.DimCode)
	kept := byCode[:0]
	defectTotal := 0
	for _, r := range byCode {
		if s.isExcluded(r.Get(engine.DimCode)) {
			continue
		}
		kept = append(kept, r)
		defectTotal += r.Defects
	}

	total := goodTotal + defectTotal
	shares := make([]DefectShare, 0, len(kept))
	for _, r := range kept {
		share := 0.0
		if total > 0 {
			share = float64(r.Defects) / float64(total) * 100
		}
		shares = append(shares, DefectShare{Code: r.Get(engine.DimCode), Defects: r.Defects, Share: share})
	}
	return shares, nil
}

// defectToolRollups aggregates the range's defects by tool and code and
// builds the normalized tool catalog next to them.
func (s *Service) defectToolRollups(ctx context.Context, from, to time.Time) ([]engine.Rollup, engine.ToolCatalog, error) {
	_, defects, err := s.fetch(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}
	cat, err := s.toolCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	rollups := s.agg.Aggregate(engine.Input{Defects: defects, From: from, To: to}, engine.DimTool, engine.DimCode)
	return rollups, cat, nil
}

// ValidateRange rejects reversed or absurdly wide ranges at the boundary so
// the engine only ever sees well-formed queries. Only the calendar dates of
// the bounds are compared; their locations may differ.
func ValidateRange(from, to time.Time) error {
	from, to = dateOnly(from), dateOnly(to)
	if to.Before(from) {
		return fmt.Errorf("range end %s before start %s", to.Format(engine.LaborDayFormat), from.Format(engine.LaborDayFormat))
	}
	if to.Sub(from) > 366*24*time.Hour {
		return fmt.Errorf("range wider than one year")
	}
	return nil
}
