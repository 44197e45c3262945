// Package view composes month, week and day views from a record set.
package view

import (
	"github.com/winstoncvm/jcal/internal/aggregate"
	"github.com/winstoncvm/jcal/internal/layout"
	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/period"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

// State is the visible calendar position. It is a value: navigation returns
// a new State and never changes the receiver.
type State struct {
	Anchor timecalc.Date
	Kind   period.Kind
}

// NewState returns a State for kind anchored at d.
func NewState(kind period.Kind, d timecalc.Date) State {
	return State{Anchor: d, Kind: kind}
}

// Next moves one view forward.
func (s State) Next() State {
	s.Anchor = period.Shift(s.Kind, s.Anchor, 1)
	return s
}

// Prev moves one view back.
func (s State) Prev() State {
	s.Anchor = period.Shift(s.Kind, s.Anchor, -1)
	return s
}

// WithKind switches the view kind, keeping the anchor.
func (s State) WithKind(k period.Kind) State {
	s.Kind = k
	return s
}

// WithAnchor jumps to d.
func (s State) WithAnchor(d timecalc.Date) State {
	s.Anchor = d
	return s
}

// Range returns the first and last day the state's view covers.
func (s State) Range() (timecalc.Date, timecalc.Date) {
	return period.Range(s.Kind, s.Anchor)
}

// Limits caps how many record titles a single cell shows.
type Limits struct {
	MonthCell int
	WeekCell  int
}

// DefaultLimits returns the standard caps.
func DefaultLimits() Limits {
	return Limits{MonthCell: 2, WeekCell: 5}
}

// Cell is one day in a month or week view.
type Cell struct {
	Day        aggregate.Day
	InPeriod   bool // false for padding days of neighbouring months
	HasContent bool
	Visible    []string
	Hidden     int // titles beyond the display cap
}

// MonthView is a 6x7 Monday-first grid.
type MonthView struct {
	State State
	Month timecalc.Date // first of the displayed month
	Cells []Cell
}

// Weeks splits the grid into rows of seven.
func (m MonthView) Weeks() [][]Cell {
	var rows [][]Cell
	for i := 0; i+7 <= len(m.Cells); i += 7 {
		rows = append(rows, m.Cells[i:i+7])
	}
	return rows
}

// WeekView is Monday through Sunday.
type WeekView struct {
	State State
	Cells []Cell
}

// DayView is a single day's records and timeline.
type DayView struct {
	State  State
	Day    aggregate.Day
	Layout layout.DayLayout
	Events []layout.Event
}

// View holds exactly one of Month, Week or Day, matching State.Kind.
type View struct {
	State State
	Month *MonthView
	Week  *WeekView
	Day   *DayView
}

// Composer builds views. The zero value uses no display caps and no row sizes;
// use NewComposer for defaults.
type Composer struct {
	Limits Limits
	Layout layout.Config
}

// NewComposer returns a Composer with default limits and layout sizes.
func NewComposer() *Composer {
	return &Composer{Limits: DefaultLimits(), Layout: layout.DefaultConfig()}
}

// Compose dispatches on the state's kind.
func (c *Composer) Compose(s State, recs model.Records) View {
	v := View{State: s}
	switch s.Kind {
	case period.KindWeek:
		w := c.Week(s, recs)
		v.Week = &w
	case period.KindDay:
		d := c.Day(s, recs)
		v.Day = &d
	default:
		v.State.Kind = period.KindMonth
		m := c.Month(v.State, recs)
		v.Month = &m
	}
	return v
}

// Month builds the month grid around s.Anchor.
func (c *Composer) Month(s State, recs model.Records) MonthView {
	first := period.FirstOfMonth(s.Anchor)
	dates := period.Month(s.Anchor)
	cells := make([]Cell, len(dates))
	for i, d := range dates {
		cells[i] = c.cell(d, recs, c.Limits.MonthCell)
		cells[i].InPeriod = d.Month == first.Month && d.Year == first.Year
	}
	return MonthView{State: s, Month: first, Cells: cells}
}

// Week builds the seven days around s.Anchor.
func (c *Composer) Week(s State, recs model.Records) WeekView {
	dates := period.Week(s.Anchor)
	cells := make([]Cell, len(dates))
	for i, d := range dates {
		cells[i] = c.cell(d, recs, c.Limits.WeekCell)
		cells[i].InPeriod = true
	}
	return WeekView{State: s, Cells: cells}
}

// Day aggregates s.Anchor and lays out its timeline.
func (c *Composer) Day(s State, recs model.Records) DayView {
	day := aggregate.ForRecords(s.Anchor, recs)
	events := layout.Normalize(day.Entries, day.Routines)
	return DayView{
		State:  s,
		Day:    day,
		Events: events,
		Layout: c.Layout.Build(events, len(day.Goals)),
	}
}

func (c *Composer) cell(d timecalc.Date, recs model.Records, limit int) Cell {
	day := aggregate.ForRecords(d, recs)
	titles := day.Titles()
	visible, hidden := Truncate(titles, limit)
	return Cell{
		Day:        day,
		HasContent: !day.Empty(),
		Visible:    visible,
		Hidden:     hidden,
	}
}

// Truncate keeps the first limit items and reports how many were dropped.
// A limit of zero or less keeps everything.
func Truncate(items []string, limit int) ([]string, int) {
	if limit <= 0 || len(items) <= limit {
		return items, 0
	}
	return items[:limit], len(items) - limit
}
