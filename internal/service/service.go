// Package service orchestrates one aggregation request: a calendar-date fetch
// widened by one day on each side, in-memory reclassification to true labor
// days via the shift calendar, and the engine rollups the handlers expose.
// The widening is not an optimization: labor day is not derivable from the
// row's date column, so no storage predicate can select it directly.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"prodscan/internal/engine"
	"prodscan/internal/model"
	"prodscan/internal/shiftcal"
)

// EventStore supplies raw scan and defect rows for a calendar-date range.
type EventStore interface {
	FetchScanEvents(ctx context.Context, from, to time.Time) ([]model.ScanEvent, error)
	FetchDefectEvents(ctx context.Context, from, to time.Time) ([]model.DefectEvent, error)
}

// CatalogStore supplies tool and workstation reference data.
type CatalogStore interface {
	FetchTools(ctx context.Context, area string) ([]model.ToolCatalogEntry, error)
	FetchWorkstations(ctx context.Context) ([]model.WorkstationCatalogEntry, error)
}

// Deps are the collaborators a Service needs.
type Deps struct {
	Events   EventStore
	Catalog  CatalogStore
	Calendar *shiftcal.Calendar
	Logger   *zap.Logger
	Location *time.Location
	Now      func() time.Time // defaults to time.Now; injected by tests

	// ExcludedDefectCodes are left out of defect-share percentages.
	ExcludedDefectCodes []string
}

// Service computes rollups, goal boards, cost reports, and pivots on demand.
// It holds no per-request state; the exclusion list is the only mutable field
// and is guarded for the config hot-reload path.
type Service struct {
	events  EventStore
	catalog CatalogStore
	cal     *shiftcal.Calendar
	agg     *engine.Aggregator
	logger  *zap.Logger
	loc     *time.Location
	now     func() time.Time

	mu       sync.RWMutex
	excluded map[string]bool
}

// New wires a Service.
func New(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Service{
		events:  deps.Events,
		catalog: deps.Catalog,
		cal:     deps.Calendar,
		agg:     engine.NewAggregator(deps.Calendar),
		logger:  deps.Logger,
		loc:     deps.Location,
		now:     deps.Now,
	}
	s.SetExcludedDefectCodes(deps.ExcludedDefectCodes)
	return s
}

// SetExcludedDefectCodes replaces the exclusion list. Called on config
// reloads.
func (s *Service) SetExcludedDefectCodes(codes []string) {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	s.mu.Lock()
	s.excluded = set
	s.mu.Unlock()
}

func (s *Service) isExcluded(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.excluded[code]
}

// LocalNow is the current wall-clock time in the plant timezone.
func (s *Service) LocalNow() time.Time {
	return s.now().In(s.loc)
}

// CurrentShift resolves "now" in the plant timezone to a shift and labor day.
// Handlers use it when the caller omits date or shift parameters.
func (s *Service) CurrentShift() (string, time.Time) {
	return s.cal.Resolve(s.now().In(s.loc))
}

// Calendar exposes the injected shift calendar.
func (s *Service) Calendar() *shiftcal.Calendar { return s.cal }

// fetch pulls events for the labor-day range [from, to] by widening the
// calendar-date window one day on each side; the aggregator narrows it back.
func (s *Service) fetch(ctx context.Context, from, to time.Time) ([]model.ScanEvent, []model.DefectEvent, error) {
	wideFrom, wideTo := from.AddDate(0, 0, -1), to.AddDate(0, 0, 1)

	scans, err := s.events.FetchScanEvents(ctx, wideFrom, wideTo)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch scan events: %w", err)
	}
	defects, err := s.events.FetchDefectEvents(ctx, wideFrom, wideTo)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch defect events: %w", err)
	}

	s.logger.Debug("fetched event window",
		zap.Time("from", wideFrom), zap.Time("to", wideTo),
		zap.Int("scans", len(scans)), zap.Int("defects", len(defects)))
	return scans, defects, nil
}

func (s *Service) toolCatalog(ctx context.Context) (engine.ToolCatalog, error) {
	tools, err := s.catalog.FetchTools(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("fetch tool catalog: %w", err)
	}
	return engine.BuildToolCatalog(tools), nil
}

// shiftIDs lists the calendar's shift ids in table order.
func (s *Service) shiftIDs() []string {
	defs := s.cal.Shifts()
	ids := make([]string, len(defs))
	for i, d := range defs {
		ids[i] = d.ID
	}
	return ids
}

// dateOnly strips the clock and location from a labor-day value, keeping the
// calendar date. Range bounds can arrive as midnights in different locations
// (query params parse to UTC, defaults come from the plant clock), so day
// arithmetic and comparisons must not run on the raw instants.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// laborDays enumerates the inclusive day range in rollup key format.
func laborDays(from, to time.Time) []string {
	var days []string
	last := dateOnly(to)
	for d := dateOnly(from); !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(engine.LaborDayFormat))
	}
	return days
}
