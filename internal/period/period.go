// Package period enumerates the calendar days shown by month, week and day views.
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/winstoncvm/jcal/internal/timecalc"
)

// Kind is a calendar view granularity.
type Kind string

const (
	KindMonth Kind = "month"
	KindWeek  Kind = "week"
	KindDay   Kind = "day"
)

// ParseKind converts a string to a Kind or returns an error for unknown values.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	switch k {
	case KindMonth, KindWeek, KindDay:
		return k, nil
	}
	return KindMonth, fmt.Errorf("period: unknown view %q", raw)
}

// MonthCells is the size of a month grid: six full Monday-first weeks.
const MonthCells = 42

// mondayOffset is how many days d lies after the Monday that starts its week.
// Sunday is 6, not 0.
func mondayOffset(d timecalc.Date) int {
	return (int(d.Weekday()) + 6) % 7
}

// StartOfWeek returns the Monday on or before d.
func StartOfWeek(d timecalc.Date) timecalc.Date {
	return d.AddDays(-mondayOffset(d))
}

// FirstOfMonth returns day 1 of d's month.
func FirstOfMonth(d timecalc.Date) timecalc.Date {
	return timecalc.Date{Year: d.Year, Month: d.Month, Day: 1}
}

// DaysIn returns the number of days in d's month.
func DaysIn(d timecalc.Date) int {
	return time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Month returns the 42 days of the grid for anchor's month, starting with the
// Monday on or before the first of the month.
func Month(anchor timecalc.Date) []timecalc.Date {
	return run(StartOfWeek(FirstOfMonth(anchor)), MonthCells)
}

// Week returns Monday through Sunday of the week containing anchor.
func Week(anchor timecalc.Date) []timecalc.Date {
	return run(StartOfWeek(anchor), 7)
}

func run(first timecalc.Date, n int) []timecalc.Date {
	out := make([]timecalc.Date, n)
	for i := range out {
		out[i] = first.AddDays(i)
	}
	return out
}

// ShiftMonth moves anchor by n months. The anchor is pinned to the first of
// its month before shifting so that Jan 31 + 1 lands in February.
func ShiftMonth(anchor timecalc.Date, n int) timecalc.Date {
	first := FirstOfMonth(anchor)
	return timecalc.DateOf(first.Time().AddDate(0, n, 0))
}

// ShiftWeek moves anchor by n weeks.
func ShiftWeek(anchor timecalc.Date, n int) timecalc.Date {
	return anchor.AddDays(7 * n)
}

// ShiftDay moves anchor by n days.
func ShiftDay(anchor timecalc.Date, n int) timecalc.Date {
	return anchor.AddDays(n)
}

// Shift moves anchor by n steps of the given view kind.
func Shift(kind Kind, anchor timecalc.Date, n int) timecalc.Date {
	switch kind {
	case KindWeek:
		return ShiftWeek(anchor, n)
	case KindDay:
		return ShiftDay(anchor, n)
	default:
		return ShiftMonth(anchor, n)
	}
}

// Dates returns the days covered by a view of the given kind.
func Dates(kind Kind, anchor timecalc.Date) []timecalc.Date {
	switch kind {
	case KindWeek:
		return Week(anchor)
	case KindDay:
		return []timecalc.Date{anchor}
	default:
		return Month(anchor)
	}
}

// Range returns the first and last day covered by a view.
func Range(kind Kind, anchor timecalc.Date) (timecalc.Date, timecalc.Date) {
	dates := Dates(kind, anchor)
	return dates[0], dates[len(dates)-1]
}

// Span returns the first and last day of the calendar period anchor belongs
// to. For months this is the 1st through the last day, without the grid's
// padding days.
func Span(kind Kind, anchor timecalc.Date) (timecalc.Date, timecalc.Date) {
	if kind == KindMonth {
		first := FirstOfMonth(anchor)
		return first, first.AddDays(DaysIn(anchor) - 1)
	}
	return Range(kind, anchor)
}
