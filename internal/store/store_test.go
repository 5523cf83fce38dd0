package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodscan/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestScanEventRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := model.ScanEvent{
		Date:        date(2024, 5, 1),
		TimeOfDay:   23*time.Hour + 55*time.Minute + 30*time.Second,
		Workstation: "MESA#7",
		Operator:    "OP1",
		Tool:        "TM-1",
		Quantity:    "12",
		Shift:       "3",
	}
	id, err := s.InsertScanEvent(ctx, in)
	require.NoError(t, err)
	require.NotZero(t, id)

	events, err := s.FetchScanEvents(ctx, date(2024, 5, 1), date(2024, 5, 1))
	require.NoError(t, err)
	require.Len(t, events, 1)

	got := events[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, in.Date, got.Date)
	assert.Equal(t, in.TimeOfDay, got.TimeOfDay)
	assert.Equal(t, in.Workstation, got.Workstation)
	assert.Equal(t, in.Quantity, got.Quantity)
	assert.Equal(t, time.Date(2024, 5, 1, 23, 55, 30, 0, time.UTC), got.Timestamp())
}

func TestFetchRangeIsInclusiveByCalendarDate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, d := range []time.Time{date(2024, 5, 1), date(2024, 5, 2), date(2024, 5, 3)} {
		_, err := s.InsertScanEvent(ctx, model.ScanEvent{
			Date: d, TimeOfDay: 8 * time.Hour, Workstation: "MESA#1", Operator: "OP", Tool: "TM", Quantity: "1",
		})
		require.NoError(t, err)
	}

	events, err := s.FetchScanEvents(ctx, date(2024, 5, 1), date(2024, 5, 2))
	require.NoError(t, err)
	assert.Len(t, events, 2)

	// The widened fetch used by the service picks all three up.
	events, err = s.FetchScanEvents(ctx, date(2024, 5, 1).AddDate(0, 0, -1), date(2024, 5, 2).AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestDefectEventRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := model.DefectEvent{
		Date:        date(2024, 5, 1),
		TimeOfDay:   8*time.Hour + 15*time.Minute,
		Workstation: "MESA#2",
		Operator:    "OP9",
		Tool:        "TM-4",
		Code:        "D01",
		Description: "porosidad",
		Shift:       "1",
	}
	_, err := s.InsertDefectEvent(ctx, in)
	require.NoError(t, err)

	events, err := s.FetchDefectEvents(ctx, date(2024, 5, 1), date(2024, 5, 1))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "D01", events[0].Code)
	assert.Equal(t, "porosidad", events[0].Description)
}

func TestToolCatalogNullables(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	fam := "FAM-A"
	cost := 12.5
	require.NoError(t, s.UpsertTool(ctx, model.ToolCatalogEntry{Name: "TM-1", Area: "CURADO", Family: &fam, Cost: &cost}))
	require.NoError(t, s.UpsertTool(ctx, model.ToolCatalogEntry{Name: "TM-2"}))

	tools, err := s.FetchTools(ctx, "")
	require.NoError(t, err)
	require.Len(t, tools, 2)

	assert.Equal(t, "FAM-A", tools[0].NormalizedFamily())
	assert.Equal(t, 12.5, tools[0].UnitCost())
	assert.Nil(t, tools[1].Family)
	assert.Equal(t, model.ToolFamilyNone, tools[1].NormalizedFamily())
	assert.Equal(t, 0.0, tools[1].UnitCost())

	// Area filter.
	tools, err = s.FetchTools(ctx, "CURADO")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "TM-1", tools[0].Name)
}

func TestWorkstationCatalogDefaults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	target := 2000
	require.NoError(t, s.UpsertWorkstation(ctx, model.WorkstationCatalogEntry{Number: "1", Label: "MESA#1", Target: &target}))
	require.NoError(t, s.UpsertWorkstation(ctx, model.WorkstationCatalogEntry{Number: "2", Label: "MESA#2"}))

	stations, err := s.FetchWorkstations(ctx)
	require.NoError(t, err)
	require.Len(t, stations, 2)
	assert.Equal(t, 2000, stations[0].TargetOrDefault())
	assert.Equal(t, model.DefaultWorkstationTarget, stations[1].TargetOrDefault())
}

func TestUpsertToolOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertTool(ctx, model.ToolCatalogEntry{Name: "TM-1"}))
	cost := 3.0
	require.NoError(t, s.UpsertTool(ctx, model.ToolCatalogEntry{Name: "TM-1", Cost: &cost}))

	tools, err := s.FetchTools(ctx, "")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, 3.0, tools[0].UnitCost())
}
