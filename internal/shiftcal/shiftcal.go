// Package shiftcal maps event timestamps to the factory's rotating shifts and
// to the labor day each shift belongs to. The third shift spans midnight, so
// an event's labor day can differ from its calendar date.
package shiftcal

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// ShiftDefinition is one operational window on the 24-hour clock. Start and
// End are inclusive offsets from midnight at one-second granularity. End
// smaller than Start means the shift wraps midnight; its early-morning
// portion counts toward the previous labor day.
type ShiftDefinition struct {
	ID    string
	Start time.Duration
	End   time.Duration
}

// Wraps reports whether the shift spans midnight.
func (d ShiftDefinition) Wraps() bool { return d.End < d.Start }

// contains reports whether a time-of-day falls inside the shift window.
func (d ShiftDefinition) contains(tod time.Duration) bool {
	if d.Wraps() {
		return tod >= d.Start || tod <= d.End
	}
	return tod >= d.Start && tod <= d.End
}

// length is the covered span, counting inclusive second boundaries.
func (d ShiftDefinition) length() time.Duration {
	if d.Wraps() {
		return day - d.Start + d.End + time.Second
	}
	return d.End - d.Start + time.Second
}

// StartInstant places the shift's start on the wall clock of a labor day.
// For a wrapping shift this is late on the labor day itself, even though
// most of the shift runs on the next calendar date.
func (d ShiftDefinition) StartInstant(laborDay time.Time) time.Time {
	y, m, dd := laborDay.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, laborDay.Location()).Add(d.Start)
}

// Calendar resolves timestamps to shifts and labor days. It is immutable and
// safe for concurrent use.
type Calendar struct {
	shifts []ShiftDefinition
}

// New validates the definitions and builds a Calendar. The shifts must
// partition the 24-hour clock exactly: every second belongs to one shift and
// each shift starts the second after another ends. A calendar that leaves
// gaps or overlaps is refused.
func New(defs []ShiftDefinition) (*Calendar, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("shiftcal: no shift definitions")
	}

	var total time.Duration
	wraps := 0
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("shiftcal: shift with empty id")
		}
		for _, bound := range []time.Duration{d.Start, d.End} {
			if bound < 0 || bound >= day {
				return nil, fmt.Errorf("shiftcal: shift %s boundary %v outside the clock", d.ID, bound)
			}
			if bound%time.Second != 0 {
				return nil, fmt.Errorf("shiftcal: shift %s boundary %v is not second-aligned", d.ID, bound)
			}
		}
		if d.Wraps() {
			wraps++
		}
		total += d.length()
	}
	if wraps > 1 {
		return nil, fmt.Errorf("shiftcal: more than one shift wraps midnight")
	}
	if total != day {
		return nil, fmt.Errorf("shiftcal: shifts cover %v of the clock, want %v", total, day)
	}

	// With the total span exact, any overlap implies a gap elsewhere; checking
	// that every shift begins right after another ends rules out both.
	for _, d := range defs {
		next := (d.End + time.Second) % day
		found := false
		for _, other := range defs {
			if other.Start == next {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("shiftcal: no shift starts at %v, after %s ends", next, d.ID)
		}
	}

	shifts := make([]ShiftDefinition, len(defs))
	copy(shifts, defs)
	return &Calendar{shifts: shifts}, nil
}

// Default is the plant's canonical three-shift table. The first shift starts
// at 07:10 (not 07:00); see DESIGN.md for the business-rule note.
func Default() *Calendar {
	cal, err := New([]ShiftDefinition{
		{ID: "1", Start: 7*time.Hour + 10*time.Minute, End: 15*time.Hour + 44*time.Minute + 59*time.Second},
		{ID: "2", Start: 15*time.Hour + 45*time.Minute, End: 23*time.Hour + 49*time.Minute + 59*time.Second},
		{ID: "3", Start: 23*time.Hour + 50*time.Minute, End: 7*time.Hour + 9*time.Minute + 59*time.Second},
	})
	if err != nil {
		panic(err) // static table, validated by tests
	}
	return cal
}

// Shifts returns the calendar's definitions in declaration order.
func (c *Calendar) Shifts() []ShiftDefinition {
	out := make([]ShiftDefinition, len(c.shifts))
	copy(out, c.shifts)
	return out
}

// Shift looks a definition up by id.
func (c *Calendar) Shift(id string) (ShiftDefinition, bool) {
	for _, d := range c.shifts {
		if d.ID == id {
			return d, true
		}
	}
	return ShiftDefinition{}, false
}

// Resolve maps a timestamp to its shift id and labor day. The labor day is
// the event's calendar date, moved one day back when the event falls in the
// early-morning portion of the midnight-wrapping shift. Resolve depends only
// on the time of day and is total: the constructor guarantees every second of
// the clock belongs to exactly one shift.
func (c *Calendar) Resolve(ts time.Time) (string, time.Time) {
	y, m, d := ts.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
	tod := ts.Sub(date).Truncate(time.Second)

	def := c.shiftOf(tod)
	if def.Wraps() && tod <= def.End {
		date = date.AddDate(0, 0, -1)
	}
	return def.ID, date
}

// LaborDay is Resolve without the shift id.
func (c *Calendar) LaborDay(ts time.Time) time.Time {
	_, d := c.Resolve(ts)
	return d
}

func (c *Calendar) shiftOf(tod time.Duration) ShiftDefinition {
	for _, d := range c.shifts {
		if d.contains(tod) {
			return d
		}
	}
	// Unreachable: New enforces a total partition.
	panic(fmt.Sprintf("shiftcal: no shift for time-of-day %v", tod))
}
