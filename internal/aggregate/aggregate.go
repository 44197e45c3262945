// Package aggregate selects the records that are active on a single calendar day.
package aggregate

import (
	"github.com/winstoncvm/jcal/internal/match"
	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

// Day holds everything active on Date. Each slice keeps the order of the
// input it was filtered from.
type Day struct {
	Date     timecalc.Date
	Entries  []model.Entry
	Goals    []model.Goal
	Routines []model.Routine
}

// ForDate filters entries, goals and routines down to those active on d.
// The inputs are never modified.
func ForDate(d timecalc.Date, entries []model.Entry, goals []model.Goal, routines []model.Routine) Day {
	return Day{
		Date:     d,
		Entries:  entriesOn(entries, d),
		Goals:    match.Goals(goals, d),
		Routines: match.Routines(routines, d),
	}
}

// ForRecords is ForDate over a fetched record set.
func ForRecords(d timecalc.Date, recs model.Records) Day {
	return ForDate(d, recs.Entries, recs.Goals, recs.Routines)
}

func entriesOn(entries []model.Entry, d timecalc.Date) []model.Entry {
	var out []model.Entry
	for _, e := range entries {
		if e.Date.Equal(d) {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of active records.
func (d Day) Count() int {
	return len(d.Entries) + len(d.Goals) + len(d.Routines)
}

// Empty reports whether nothing is active on the day.
func (d Day) Empty() bool {
	return d.Count() == 0
}

// Titles lists record titles in display order: entries, goals, routines.
func (d Day) Titles() []string {
	out := make([]string, 0, d.Count())
	for _, e := range d.Entries {
		out = append(out, e.Title)
	}
	for _, g := range d.Goals {
		out = append(out, g.Title)
	}
	for _, r := range d.Routines {
		out = append(out, r.Title)
	}
	return out
}
