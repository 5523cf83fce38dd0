package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodscan/internal/engine"
	"prodscan/internal/model"
	"prodscan/internal/shiftcal"
)

// fakeStore serves canned events, filtered by calendar date like the real
// store, and records the ranges it was asked for.
type fakeStore struct {
	scans    []model.ScanEvent
	defects  []model.DefectEvent
	tools    []model.ToolCatalogEntry
	stations []model.WorkstationCatalogEntry

	scanRanges [][2]time.Time
}

func (f *fakeStore) FetchScanEvents(_ context.Context, from, to time.Time) ([]model.ScanEvent, error) {
	f.scanRanges = append(f.scanRanges, [2]time.Time{from, to})
	var out []model.ScanEvent
	for _, e := range f.scans {
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) FetchDefectEvents(_ context.Context, from, to time.Time) ([]model.DefectEvent, error) {
	var out []model.DefectEvent
	for _, e := range f.defects {
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) FetchTools(_ context.Context, area string) ([]model.ToolCatalogEntry, error) {
	return f.tools, nil
}

func (f *fakeStore) FetchWorkstations(_ context.Context) ([]model.WorkstationCatalogEntry, error) {
	return f.stations, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tod(hh, mm int) time.Duration {
	return time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute
}

func newService(f *fakeStore, now time.Time, excluded ...string) *Service {
	return New(Deps{
		Events:              f,
		Catalog:             f,
		Calendar:            shiftcal.Default(),
		Now:                 func() time.Time { return now },
		ExcludedDefectCodes: excluded,
	})
}

func TestFetchWidensRangeByOneDay(t *testing.T) {
	f := &fakeStore{}
	s := newService(f, date(2024, 5, 2))

	_, err := s.Summary(context.Background(), date(2024, 5, 1), date(2024, 5, 3))
	require.NoError(t, err)

	require.Len(t, f.scanRanges, 1)
	assert.Equal(t, date(2024, 4, 30), f.scanRanges[0][0])
	assert.Equal(t, date(2024, 5, 4), f.scanRanges[0][1])
}

func TestBoardEndToEnd(t *testing.T) {
	day := date(2024, 5, 1)
	target := 1800
	f := &fakeStore{
		scans: []model.ScanEvent{
			{Date: day, TimeOfDay: tod(8, 0), Workstation: "MESA#7", Operator: "OP1", Tool: "TM-1", Quantity: "700"},
			{Date: day, TimeOfDay: tod(12, 0), Workstation: "MESA#7", Operator: "OP1", Tool: "TM-2", Quantity: "500"},
		},
		defects: []model.DefectEvent{
			{Date: day, TimeOfDay: tod(9, 0), Workstation: "MESA#7", Operator: "OP1", Tool: "TM-1", Code: "D01"},
		},
		stations: []model.WorkstationCatalogEntry{{ID: 7, Number: "7", Label: "MESA#7", Target: &target}},
	}
	// End of shift 1: expectation is the full target.
	now := time.Date(2024, 5, 1, 15, 10, 0, 0, time.UTC)
	s := newService(f, now)

	rows, err := s.Board(context.Background(), day, "1", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "MESA#7", row.Workstation)
	assert.Equal(t, 1200, row.Good)
	assert.Equal(t, 1, row.Defects)
	assert.Equal(t, 1201, row.Total)
	assert.Equal(t, 1800, row.Target)
	assert.Equal(t, 1800, row.Expected)
	assert.Equal(t, engine.StatusOffTarget, row.Status)
	assert.Equal(t, "TM-2", row.LastTool, "most recent scan wins")
}

func TestBoardDefaultTargetWhenStationUnknown(t *testing.T) {
	day := date(2024, 5, 1)
	f := &fakeStore{
		scans: []model.ScanEvent{
			{Date: day, TimeOfDay: tod(8, 0), Workstation: "MESA#9", Operator: "OP1", Tool: "TM-1", Quantity: "10"},
		},
	}
	s := newService(f, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	rows, err := s.Board(context.Background(), day, "1", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.DefaultWorkstationTarget, rows[0].Target)
}

func TestBoardRejectsUnknownShift(t *testing.T) {
	s := newService(&fakeStore{}, date(2024, 5, 1))
	_, err := s.Board(context.Background(), date(2024, 5, 1), "9", "")
	require.Error(t, err)
}

func TestSummaryIncludesWrapAroundEvents(t *testing.T) {
	day := date(2024, 5, 1)
	f := &fakeStore{
		scans: []model.ScanEvent{
			// Early morning of May 2, labor day May 1 (shift 3).
			{Date: date(2024, 5, 2), TimeOfDay: tod(2, 0), Workstation: "MESA#1", Operator: "OP", Tool: "TM", Quantity: "50"},
		},
	}
	s := newService(f, date(2024, 5, 3))

	table, err := s.Summary(context.Background(), day, day)
	require.NoError(t, err)

	require.Equal(t, []string{"2024-05-01"}, table.Rows)
	require.Equal(t, []string{"1", "2", "3"}, table.Cols)
	assert.Equal(t, 50, table.Cells[0][2].Good)
	assert.Equal(t, 50, table.GrandTotal.Good)
}

func TestCostReport(t *testing.T) {
	day := date(2024, 5, 1)
	famA := "FAM-A"
	costA, costB := 10.0, 3.0
	f := &fakeStore{
		defects: []model.DefectEvent{},
		tools: []model.ToolCatalogEntry{
			{Name: "A", Family: &famA, Cost: &costA},
			{Name: "B", Cost: &costB},
		},
	}
	for i := 0; i < 5; i++ {
		f.defects = append(f.defects, model.DefectEvent{Date: day, TimeOfDay: tod(8, i), Workstation: "MESA#1", Operator: "OP", Tool: "A", Code: "D01"})
	}
	for i := 0; i < 20; i++ {
		f.defects = append(f.defects, model.DefectEvent{Date: day, TimeOfDay: tod(9, i), Workstation: "MESA#1", Operator: "OP", Tool: "B", Code: "D02"})
	}
	s := newService(f, date(2024, 5, 2))

	report, err := s.BuildCostReport(context.Background(), day, day)
	require.NoError(t, err)

	require.Contains(t, report.Families, "FAM-A")
	require.Contains(t, report.Families, model.ToolFamilyNone)
	assert.Equal(t, 110.0, report.TotalCost) // 5*10 + 20*3

	b := report.Families[model.ToolFamilyNone][0]
	assert.Equal(t, "B", b.Tool)
	assert.Equal(t, 60.0, b.TotalCost)
	require.Len(t, b.TopCodes, 1)
	assert.Equal(t, "D02", b.TopCodes[0].Code)
}

func TestTopToolsRanksByCost(t *testing.T) {
	day := date(2024, 5, 1)
	costA, costB := 10.0, 3.0
	f := &fakeStore{
		tools: []model.ToolCatalogEntry{{Name: "A", Cost: &costA}, {Name: "B", Cost: &costB}},
	}
	for i := 0; i < 5; i++ {
		f.defects = append(f.defects, model.DefectEvent{Date: day, TimeOfDay: tod(8, i), Workstation: "M", Operator: "OP", Tool: "A", Code: "D01"})
	}
	for i := 0; i < 20; i++ {
		f.defects = append(f.defects, model.DefectEvent{Date: day, TimeOfDay: tod(9, i), Workstation: "M", Operator: "OP", Tool: "B", Code: "D01"})
	}
	s := newService(f, date(2024, 5, 2))

	top, err := s.TopTools(context.Background(), day, day, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "B", top[0].Tool)
}

func TestDefectSharesHonorExclusions(t *testing.T) {
	day := date(2024, 5, 1)
	f := &fakeStore{
		scans: []model.ScanEvent{
			{Date: day, TimeOfDay: tod(8, 0), Workstation: "M", Operator: "OP", Tool: "TM", Quantity: "90"},
		},
		defects: []model.DefectEvent{
			{Date: day, TimeOfDay: tod(8, 1), Workstation: "M", Operator: "OP", Tool: "TM", Code: "D01"},
			{Date: day, TimeOfDay: tod(8, 2), Workstation: "M", Operator: "OP", Tool: "TM", Code: "D01"},
			{Date: day, TimeOfDay: tod(8, 3), Workstation: "M", Operator: "OP", Tool: "TM", Code: "SCRAP"},
		},
		tools: []model.ToolCatalogEntry{},
	}
	s := newService(f, date(2024, 5, 2), "SCRAP")

	shares, err := s.DefectShares(context.Background(), day, day)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, "D01", shares[0].Code)
	assert.Equal(t, 2, shares[0].Defects)
	// 2 defects against 90 good + 2 kept defects.
	assert.InDelta(t, 2.0/92.0*100, shares[0].Share, 1e-9)
}

func TestSetExcludedDefectCodesReplacesList(t *testing.T) {
	s := newService(&fakeStore{}, date(2024, 5, 1), "OLD")
	assert.True(t, s.isExcluded("OLD"))

	s.SetExcludedDefectCodes([]string{"NEW"})
	assert.False(t, s.isExcluded("OLD"))
	assert.True(t, s.isExcluded("NEW"))
}

func TestCurrentShift(t *testing.T) {
	s := newService(&fakeStore{}, time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC))
	shift, laborDay := s.CurrentShift()
	assert.Equal(t, "3", shift)
	assert.Equal(t, date(2024, 5, 1), laborDay)
}

func TestValidateRange(t *testing.T) {
	require.NoError(t, ValidateRange(date(2024, 5, 1), date(2024, 5, 1)))
	require.Error(t, ValidateRange(date(2024, 5, 2), date(2024, 5, 1)))
	require.Error(t, ValidateRange(date(2020, 1, 1), date(2024, 1, 1)))
}

func TestBoardUnderPlantTimezone(t *testing.T) {
	// Store dates are UTC midnights while the plant clock runs six hours
	// behind; the board for the current labor day must still see the events
	// and compute the proportional goal on the plant clock.
	plant := time.FixedZone("CST", -6*3600)
	day := date(2024, 5, 1)
	f := &fakeStore{
		scans: []model.ScanEvent{
			{Date: day, TimeOfDay: tod(8, 0), Workstation: "MESA#7", Operator: "OP1", Tool: "TM-1", Quantity: "1200"},
		},
	}
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, plant)
	s := New(Deps{
		Events:   f,
		Catalog:  f,
		Calendar: shiftcal.Default(),
		Location: plant,
		Now:      func() time.Time { return now },
	})

	shift, laborDay := s.CurrentShift()
	require.Equal(t, "1", shift)
	assert.Equal(t, "2024-05-01", laborDay.Format(engine.LaborDayFormat))

	rows, err := s.Board(context.Background(), laborDay, shift, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 1200, row.Good)
	// 2h50m into the shift: 1800 * 170/480.
	assert.Equal(t, 637, row.Expected)
	assert.Equal(t, engine.StatusOverproduction, row.Status)
	assert.Equal(t, "TM-1", row.LastTool)
}

func TestSummaryMixedRangeBoundLocations(t *testing.T) {
	// A defaulted bound comes from the plant clock, an explicit one parses to
	// UTC; the same calendar date in both must form a valid one-day range.
	plant := time.FixedZone("CST", -6*3600)
	localDay := time.Date(2024, 5, 1, 0, 0, 0, 0, plant)
	utcDay := date(2024, 5, 1)

	require.NoError(t, ValidateRange(localDay, utcDay))
	require.NoError(t, ValidateRange(utcDay, localDay))

	f := &fakeStore{
		scans: []model.ScanEvent{
			{Date: utcDay, TimeOfDay: tod(8, 0), Workstation: "MESA#1", Operator: "OP1", Tool: "TM-1", Quantity: "10"},
		},
	}
	s := New(Deps{
		Events:   f,
		Catalog:  f,
		Calendar: shiftcal.Default(),
		Location: plant,
		Now:      func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, plant) },
	})

	table, err := s.Summary(context.Background(), localDay, utcDay)
	require.NoError(t, err)
	require.Equal(t, []string{"2024-05-01"}, table.Rows)
	assert.Equal(t, 10, table.GrandTotal.Total)
}
