// Package layout computes a focus+context timeline for a single day.
//
// Hours around the day's events are expanded, idle hours are compacted, and
// every event gets a vertical pixel offset inside that non-uniform scale.
// Goals active on the day are stacked in fixed bands above hour 0.
package layout

import (
	"strings"

	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

// Hours is the number of rows in a day timeline.
const Hours = 24

// Config holds the pixel sizes used by Build.
type Config struct {
	DefaultRow  int // every hour when the day has no events
	ExpandedRow int // hours inside the busy band
	CompactRow  int // hours outside the busy band
	GoalBand    int // height of each goal stacked above the timeline
}

// DefaultConfig returns the standard row sizes.
func DefaultConfig() Config {
	return Config{
		DefaultRow:  40,
		ExpandedRow: 80,
		CompactRow:  20,
		GoalBand:    45,
	}
}

// Kind identifies which record an Event was derived from.
type Kind string

const (
	KindEntry   Kind = "entry"
	KindRoutine Kind = "routine"
)

// Event is a normalised working copy of an entry or routine with a resolved
// clock time. Index points into the slice the record came from.
type Event struct {
	Kind  Kind
	Index int
	ID    string
	Title string
	Clock timecalc.Clock
}

// Canonical times for routines without an explicit clock and for entries
// without a recorded time.
var (
	morning      = timecalc.Clock{Hour: 8}
	evening      = timecalc.Clock{Hour: 18}
	night        = timecalc.Clock{Hour: 21}
	entryDefault = timecalc.Clock{Hour: 12}
)

// RoutineClock resolves the time a routine is shown at: its explicit HH:MM if
// it parses, else its time-of-day descriptor, else morning.
func RoutineClock(r model.Routine) timecalc.Clock {
	if r.Time != nil {
		if c, err := timecalc.ParseClock(*r.Time); err == nil {
			return c
		}
	}
	if r.TimeOfDay == nil {
		return morning
	}
	switch strings.ToLower(strings.TrimSpace(*r.TimeOfDay)) {
	case "evening":
		return evening
	case "night":
		return night
	default:
		return morning
	}
}

// EntryClock resolves the time an entry is shown at, defaulting to noon.
func EntryClock(e model.Entry) timecalc.Clock {
	if e.Time != nil {
		if c, err := timecalc.ParseClock(*e.Time); err == nil {
			return c
		}
	}
	return entryDefault
}

// Normalize merges entries and routines into events with resolved clocks.
// Entries come first; neither input slice is modified.
func Normalize(entries []model.Entry, routines []model.Routine) []Event {
	events := make([]Event, 0, len(entries)+len(routines))
	for i, e := range entries {
		events = append(events, Event{Kind: KindEntry, Index: i, ID: e.ID, Title: e.Title, Clock: EntryClock(e)})
	}
	for i, r := range routines {
		events = append(events, Event{Kind: KindRoutine, Index: i, ID: r.ID, Title: r.Title, Clock: RoutineClock(r)})
	}
	return events
}

// Placement is an event positioned on the timeline.
type Placement struct {
	Event Event
	Y     float64
}

// DayLayout is the row schedule for one day. It is rebuilt on every render.
type DayLayout struct {
	Heights    [Hours]int
	Offsets    [Hours]int
	GoalOffset int
	GoalBands  []int // top edge of each goal band
	Placements []Placement
	// MinHour and MaxHour bound the expanded band; both are -1 for an empty day.
	MinHour int
	MaxHour int
}

// Total returns the height of the hourly timeline, excluding goal bands.
func (l DayLayout) Total() int {
	return l.Offsets[Hours-1] + l.Heights[Hours-1]
}

// HeightWithGoals returns the full height including goal bands.
func (l DayLayout) HeightWithGoals() int {
	return l.GoalOffset + l.Total()
}

// Expanded reports whether hour h lies in the busy band.
func (l DayLayout) Expanded(h int) bool {
	return l.MinHour >= 0 && h >= l.MinHour && h <= l.MaxHour
}

// Build lays out events under goalCount goal bands using the default sizes.
func Build(events []Event, goalCount int) DayLayout {
	return DefaultConfig().Build(events, goalCount)
}

// Build lays out events under goalCount goal bands.
func (c Config) Build(events []Event, goalCount int) DayLayout {
	var l DayLayout
	l.MinHour, l.MaxHour = -1, -1

	if len(events) == 0 {
		for h := range l.Heights {
			l.Heights[h] = c.DefaultRow
		}
	} else {
		lo, hi := Hours-1, 0
		for _, ev := range events {
			h := clampHour(ev.Clock.Hour)
			lo = min(lo, h)
			hi = max(hi, h)
		}
		l.MinHour = max(0, lo-1)
		l.MaxHour = min(Hours-1, hi+1)
		for h := range l.Heights {
			if h >= l.MinHour && h <= l.MaxHour {
				l.Heights[h] = c.ExpandedRow
			} else {
				l.Heights[h] = c.CompactRow
			}
		}
	}

	for h := 1; h < Hours; h++ {
		l.Offsets[h] = l.Offsets[h-1] + l.Heights[h-1]
	}

	if goalCount > 0 {
		l.GoalOffset = goalCount * c.GoalBand
		l.GoalBands = make([]int, goalCount)
		for i := range l.GoalBands {
			l.GoalBands[i] = i * c.GoalBand
		}
	}

	l.Placements = make([]Placement, 0, len(events))
	for _, ev := range events {
		l.Placements = append(l.Placements, Placement{Event: ev, Y: l.Y(ev.Clock)})
	}
	return l
}

// Y returns the pixel offset of clock within the layout, goal bands included.
// The minute fraction is scaled by the hour's own row height.
func (l DayLayout) Y(clock timecalc.Clock) float64 {
	h := clampHour(clock.Hour)
	minute := min(max(clock.Minute, 0), 59)
	return float64(l.Offsets[h]) + float64(minute)/60*float64(l.Heights[h]) + float64(l.GoalOffset)
}

func clampHour(h int) int {
	return min(max(h, 0), Hours-1)
}
