// Package match decides whether a goal or routine is active on a calendar day.
//
// Both matchers fail closed: malformed records (unknown frequency, missing
// or empty anchor date, inverted goal range) are simply never active.
package match

import (
	"time"

	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

// Routine reports whether r occurs on d.
func Routine(r model.Routine, d timecalc.Date) bool {
	if r.Frequency == "" {
		return onDate(r.Date, d)
	}
	freq, ok := model.ParseFrequency(string(r.Frequency))
	if !ok {
		return false
	}
	switch freq {
	case model.Daily:
		return true
	case model.Weekly:
		if r.StartDate == nil || r.StartDate.IsZero() {
			return false
		}
		return d.Weekday() == r.StartDate.Weekday()
	case model.BiWeekly:
		// Fixed Monday/Friday pattern; there is no anchor to count weeks from.
		wd := d.Weekday()
		return wd == time.Monday || wd == time.Friday
	case model.Monthly:
		return d.Day == 1
	case model.OneOff:
		return onDate(r.Date, d)
	}
	return false
}

func onDate(want *timecalc.Date, d timecalc.Date) bool {
	return want != nil && !want.IsZero() && want.Equal(d)
}

// Goal reports whether d lies inside g's closed interval.
func Goal(g model.Goal, d timecalc.Date) bool {
	return !d.Before(g.Start) && !d.After(g.EffectiveEnd())
}

// GoalOverlaps reports whether g is active on any day in [from, to].
func GoalOverlaps(g model.Goal, from, to timecalc.Date) bool {
	end := g.EffectiveEnd()
	if end.Before(g.Start) {
		return false
	}
	return !g.Start.After(to) && !end.Before(from)
}

// Routines returns the routines occurring on d, in input order.
func Routines(routines []model.Routine, d timecalc.Date) []model.Routine {
	var out []model.Routine
	for _, r := range routines {
		if Routine(r, d) {
			out = append(out, r)
		}
	}
	return out
}

// Goals returns the goals active on d, in input order.
func Goals(goals []model.Goal, d timecalc.Date) []model.Goal {
	var out []model.Goal
	for _, g := range goals {
		if Goal(g, d) {
			out = append(out, g)
		}
	}
	return out
}
