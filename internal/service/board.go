package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"prodscan/internal/engine"
	"prodscan/internal/model"
)

// BoardRow is one (workstation, operator) line of the live production board:
// counts for the shift so far, the proportional goal, and the status band.
type BoardRow struct {
	Workstation string            `json:"workstation"`
	Operator    string            `json:"operator"`
	Good        int               `json:"good"`
	Defects     int               `json:"defects"`
	Total       int               `json:"total"`
	Target      int               `json:"target"`
	Expected    int               `json:"expected"`
	Status      engine.GoalStatus `json:"status"`
	LastTool    string            `json:"lastTool"`
}

// Board builds the production board for one labor day and shift, optionally
// narrowed to a single workstation. A station appears when it has good
// pieces, defects, or both in the shift.
func (s *Service) Board(ctx context.Context, laborDay time.Time, shiftID, station string) ([]BoardRow, error) {
	def, ok := s.cal.Shift(shiftID)
	if !ok {
		return nil, fmt.Errorf("unknown shift %q", shiftID)
	}

	scans, defects, err := s.fetch(ctx, laborDay, laborDay)
	if err != nil {
		return nil, err
	}
	stations, err := s.catalog.FetchWorkstations(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch workstation catalog: %w", err)
	}

	rollups := s.agg.Aggregate(engine.Input{
		Scans:   scans,
		Defects: defects,
		From:    laborDay,
		To:      laborDay,
	}, engine.DimShift, engine.DimWorkstation, engine.DimOperator)

	// Goal math runs on the plant wall clock. The labor day may arrive as a
	// midnight in another location (query params parse to UTC), so only its
	// calendar date carries over.
	y, m, d := laborDay.Date()
	plantDay := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	shiftStart := def.StartInstant(plantDay)
	now := s.LocalNow()
	dayKey := laborDay.Format(engine.LaborDayFormat)

	rows := make([]BoardRow, 0, len(rollups))
	for _, r := range rollups {
		if r.Get(engine.DimShift) != shiftID {
			continue
		}
		ws := r.Get(engine.DimWorkstation)
		if station != "" && !strings.EqualFold(ws, strings.TrimSpace(station)) {
			continue
		}

		target := targetFor(stations, ws)
		expected, status := engine.Classify(r.Total(), target, shiftStart, now)

		rows = append(rows, BoardRow{
			Workstation: ws,
			Operator:    r.Get(engine.DimOperator),
			Good:        r.Good,
			Defects:     r.Defects,
			Total:       r.Total(),
			Target:      target,
			Expected:    expected,
			Status:      status,
			LastTool:    lastTool(s, scans, dayKey, shiftID, ws, r.Get(engine.DimOperator)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := engine.WorkstationOrder(rows[i].Workstation), engine.WorkstationOrder(rows[j].Workstation)
		if a != b {
			return a < b
		}
		return rows[i].Workstation < rows[j].Workstation
	})
	return rows, nil
}

// targetFor matches a workstation label like "MESA#3" to its catalog row by
// the embedded number. No row or a null target falls back to the default.
func targetFor(stations []model.WorkstationCatalogEntry, label string) int {
	num := engine.WorkstationOrder(label)
	for _, w := range stations {
		if w.Number == strconv.Itoa(num) || int64(num) == w.ID {
			return w.TargetOrDefault()
		}
	}
	return model.DefaultWorkstationTarget
}

// lastTool finds the most recent tool scanned at a station by an operator
// within the labor day (as a formatted date) and shift.
func lastTool(s *Service, scans []model.ScanEvent, dayKey, shiftID, station, operator string) string {
	var best time.Time
	tool := "N/A"
	for _, e := range scans {
		if !strings.EqualFold(strings.TrimSpace(e.Workstation), station) ||
			!strings.EqualFold(strings.TrimSpace(e.Operator), operator) {
			continue
		}
		sh, ld := s.cal.Resolve(e.Timestamp())
		if sh != shiftID || ld.Format(engine.LaborDayFormat) != dayKey {
			continue
		}
		if ts := e.Timestamp(); ts.After(best) || best.IsZero() {
			best = ts
			tool = strings.TrimSpace(e.Tool)
		}
	}
	return tool
}
