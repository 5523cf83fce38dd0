// Package engine holds the production math: multi-dimensional rollups of scan
// and defect events, proportional goal classification, cost-weighted defect
// rankings, and dense pivot tables. Everything here is pure computation over
// already-fetched data; I/O belongs to the store and service layers.
package engine

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"prodscan/internal/model"
	"prodscan/internal/shiftcal"
)

// Dimension is one grouping axis for a rollup.
type Dimension string

const (
	DimWorkstation Dimension = "workstation"
	DimShift       Dimension = "shift"
	DimOperator    Dimension = "operator"
	DimTool        Dimension = "tool"
	DimCode        Dimension = "code"
	DimFamily      Dimension = "family"
	DimLaborDay    Dimension = "laborDay"
)

// Rollup is one aggregated bucket: the grouping key values plus the summed
// measures. Rollups are computed per request and never persisted.
type Rollup struct {
	Dims    map[Dimension]string `json:"dims"`
	Good    int                  `json:"good"`
	Defects int                  `json:"defects"`
}

// Total is good plus defective pieces.
func (r Rollup) Total() int { return r.Good + r.Defects }

// Get returns the key value for one dimension.
func (r Rollup) Get(d Dimension) string { return r.Dims[d] }

// Input is the raw material for one aggregation call. From and To bound the
// labor-day range (inclusive); events whose labor day falls outside are
// dropped, which is how the widened calendar-date fetch gets narrowed back to
// the requested range. Only the calendar date of From and To matters: bounds
// and event timestamps may carry different time.Locations, so the filter
// compares dates, never instants. FamilyOf resolves a tool's family when
// grouping by DimFamily; a nil func puts everything in the sentinel family.
type Input struct {
	Scans    []model.ScanEvent
	Defects  []model.DefectEvent
	From, To time.Time
	FamilyOf func(tool string) string
}

// Aggregator reclassifies events by their true labor day and shift and groups
// them along arbitrary dimension tuples.
type Aggregator struct {
	cal *shiftcal.Calendar
}

// NewAggregator builds an Aggregator on a validated shift calendar.
func NewAggregator(cal *shiftcal.Calendar) *Aggregator {
	return &Aggregator{cal: cal}
}

// LaborDayFormat is the string form labor days take inside rollup keys. It
// sorts chronologically.
const LaborDayFormat = "2006-01-02"

// Aggregate groups the input events along the given dimensions. A key is
// present in the result when it has good pieces, defects, or both; the
// missing side of a one-sided key is zero-filled rather than dropped.
// Quantity text that does not parse as a number contributes 0 to the sum but
// still marks the key as present. Results come back in presentation order:
// workstations by their embedded number, labor days chronologically, the
// rest lexically.
func (a *Aggregator) Aggregate(in Input, dims ...Dimension) []Rollup {
	buckets := make(map[string]*Rollup)
	fromDay := in.From.Format(LaborDayFormat)
	toDay := in.To.Format(LaborDayFormat)

	get := func(key string, vals map[Dimension]string) *Rollup {
		r, ok := buckets[key]
		if !ok {
			r = &Rollup{Dims: vals}
			buckets[key] = r
		}
		return r
	}

	for _, e := range in.Scans {
		key, vals, ok := a.keyFor(in, dims, fromDay, toDay, e.Timestamp(), e.Workstation, e.Operator, e.Tool, "")
		if !ok {
			continue
		}
		get(key, vals).Good += ParseQuantity(e.Quantity)
	}
	for _, e := range in.Defects {
		key, vals, ok := a.keyFor(in, dims, fromDay, toDay, e.Timestamp(), e.Workstation, e.Operator, e.Tool, e.Code)
		if !ok {
			continue
		}
		get(key, vals).Defects++
	}

	out := make([]Rollup, 0, len(buckets))
	for _, r := range buckets {
		out = append(out, *r)
	}
	sortRollups(out, dims)
	return out
}

// keyFor resolves the event's labor day and shift, applies the labor-day
// range filter, and projects the event onto the grouping dimensions. The
// range check runs on formatted dates: the event's labor day and the bounds
// can live in different locations, and an instant comparison would shift the
// window by the zone offset.
func (a *Aggregator) keyFor(in Input, dims []Dimension, fromDay, toDay string, ts time.Time, station, operator, tool, code string) (string, map[Dimension]string, bool) {
	shift, laborDay := a.cal.Resolve(ts)
	day := laborDay.Format(LaborDayFormat)
	if day < fromDay || day > toDay {
		return "", nil, false
	}

	vals := make(map[Dimension]string, len(dims))
	parts := make([]string, len(dims))
	for i, d := range dims {
		var v string
		switch d {
		case DimWorkstation:
			v = strings.TrimSpace(station)
		case DimShift:
			v = shift
		case DimOperator:
			v = strings.TrimSpace(operator)
		case DimTool:
			v = strings.TrimSpace(tool)
		case DimCode:
			v = strings.TrimSpace(code)
		case DimFamily:
			if in.FamilyOf != nil {
				v = in.FamilyOf(strings.TrimSpace(tool))
			} else {
				v = model.ToolFamilyNone
			}
		case DimLaborDay:
			v = day
		}
		vals[d] = v
		parts[i] = v
	}
	return strings.Join(parts, "\x1f"), vals, true
}

// ParseQuantity converts the free-form piece-count text from the scanner into
// a number. Anything that is not a plain integer counts as zero; a bad value
// must never drop the row or fail the aggregation.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

// WorkstationOrder extracts the number embedded in a workstation label
// ("MESA#3" → 3). Labels without digits sort after every numbered one.
func WorkstationOrder(label string) int {
	var digits strings.Builder
	for _, r := range label {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return int(^uint(0) >> 1) // max int
	}
	return n
}

// dimLess orders two key values for one dimension.
func dimLess(d Dimension, a, b string) bool {
	if d == DimWorkstation {
		an, bn := WorkstationOrder(a), WorkstationOrder(b)
		if an != bn {
			return an < bn
		}
	}
	return a < b
}

func sortRollups(rollups []Rollup, dims []Dimension) {
	sort.SliceStable(rollups, func(i, j int) bool {
		for _, d := range dims {
			a, b := rollups[i].Dims[d], rollups[j].Dims[d]
			if a == b {
				continue
			}
			return dimLess(d, a, b)
		}
		return false
	})
}
