package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winstoncvm/jcal/internal/layout"
	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

func strPtr(s string) *string { return &s }

func at(hour, minute int) layout.Event {
	return layout.Event{Kind: layout.KindEntry, Clock: timecalc.Clock{Hour: hour, Minute: minute}}
}

func assertWellFormed(t *testing.T, l layout.DayLayout) {
	t.Helper()
	sum := 0
	for _, h := range l.Heights {
		sum += h
	}
	assert.Equal(t, sum, l.Total(), "sum of heights")
	assert.Equal(t, 0, l.Offsets[0])
	for h := 0; h < layout.Hours-1; h++ {
		assert.Equal(t, l.Offsets[h]+l.Heights[h], l.Offsets[h+1], "offset[%d]", h+1)
	}
}

func TestBuildEmptyDay(t *testing.T) {
	l := layout.Build(nil, 0)

	for h, height := range l.Heights {
		assert.Equal(t, 40, height, "hour %d", h)
	}
	assert.Equal(t, 960, l.Total())
	assert.Equal(t, -1, l.MinHour)
	assert.Equal(t, -1, l.MaxHour)
	assert.Empty(t, l.Placements)
	assertWellFormed(t, l)
}

func TestBuildSingleEvent(t *testing.T) {
	l := layout.Build([]layout.Event{at(14, 0)}, 0)

	assert.Equal(t, 13, l.MinHour)
	assert.Equal(t, 15, l.MaxHour)
	for h, height := range l.Heights {
		if h >= 13 && h <= 15 {
			assert.Equal(t, 80, height, "hour %d", h)
		} else {
			assert.Equal(t, 20, height, "hour %d", h)
		}
	}
	assert.Equal(t, 20*21+80*3, l.Total())
	assert.Equal(t, 660, l.Total())
	assertWellFormed(t, l)
}

func TestBuildHalfHourLandsAtRowMidpoint(t *testing.T) {
	l := layout.Build([]layout.Event{at(14, 30)}, 0)
	require.Len(t, l.Placements, 1)
	assert.Equal(t, 80, l.Heights[14])
	assert.InDelta(t, float64(l.Offsets[14])+0.5*80, l.Placements[0].Y, 1e-9)
	assert.InDelta(t, 13*20+80+40, l.Placements[0].Y, 1e-9)
}

func TestBuildGoalOffset(t *testing.T) {
	l := layout.Build([]layout.Event{at(14, 30)}, 2)
	assert.Equal(t, 90, l.GoalOffset)
	assert.Equal(t, []int{0, 45}, l.GoalBands)
	assert.InDelta(t, float64(l.Offsets[14])+40+90, l.Placements[0].Y, 1e-9)
	assert.Equal(t, 90+660, l.HeightWithGoals())
}

func TestBuildBandClampsAtDayEdges(t *testing.T) {
	l := layout.Build([]layout.Event{at(0, 15), at(23, 45)}, 0)
	assert.Equal(t, 0, l.MinHour)
	assert.Equal(t, 23, l.MaxHour)
	assert.Equal(t, 24*80, l.Total())

	l = layout.Build([]layout.Event{at(0, 0)}, 0)
	assert.Equal(t, 0, l.MinHour)
	assert.Equal(t, 1, l.MaxHour)
	assert.Equal(t, 2*80+22*20, l.Total())
	assertWellFormed(t, l)
}

func TestBuildBandSpansGaps(t *testing.T) {
	l := layout.Build([]layout.Event{at(9, 0), at(17, 0)}, 0)
	assert.Equal(t, 8, l.MinHour)
	assert.Equal(t, 18, l.MaxHour)
	assert.True(t, l.Expanded(12))
	assert.False(t, l.Expanded(7))
	assert.Equal(t, 11*80+13*20, l.Total())
}

func TestBuildIsDeterministic(t *testing.T) {
	events := []layout.Event{at(7, 10), at(21, 0), at(12, 59)}
	a := layout.Build(events, 1)
	b := layout.Build(events, 1)
	assert.Equal(t, a, b)
}

func TestBuildKeepsEventOrderOnTies(t *testing.T) {
	entries := []model.Entry{{ID: "e1", Time: strPtr("08:00")}}
	routines := []model.Routine{{ID: "r1", Frequency: model.Daily, TimeOfDay: strPtr("morning")}}
	l := layout.Build(layout.Normalize(entries, routines), 0)

	require.Len(t, l.Placements, 2)
	assert.Equal(t, "e1", l.Placements[0].Event.ID)
	assert.Equal(t, "r1", l.Placements[1].Event.ID)
	assert.Equal(t, l.Placements[0].Y, l.Placements[1].Y)
}

func TestCustomConfig(t *testing.T) {
	cfg := layout.Config{DefaultRow: 10, ExpandedRow: 30, CompactRow: 5, GoalBand: 12}
	l := cfg.Build([]layout.Event{at(5, 0)}, 1)
	assert.Equal(t, 3*30+21*5, l.Total())
	assert.Equal(t, 12, l.GoalOffset)
	assertWellFormed(t, l)

	empty := cfg.Build(nil, 0)
	assert.Equal(t, 240, empty.Total())
}

func TestRoutineClock(t *testing.T) {
	tests := []struct {
		name    string
		routine model.Routine
		want    timecalc.Clock
	}{
		{"explicit_time", model.Routine{Time: strPtr("06:45"), TimeOfDay: strPtr("night")}, timecalc.Clock{Hour: 6, Minute: 45}},
		{"morning", model.Routine{TimeOfDay: strPtr("morning")}, timecalc.Clock{Hour: 8}},
		{"evening", model.Routine{TimeOfDay: strPtr("Evening")}, timecalc.Clock{Hour: 18}},
		{"night", model.Routine{TimeOfDay: strPtr("night")}, timecalc.Clock{Hour: 21}},
		{"unknown_descriptor", model.Routine{TimeOfDay: strPtr("afternoon")}, timecalc.Clock{Hour: 8}},
		{"nothing", model.Routine{}, timecalc.Clock{Hour: 8}},
		{"unparseable_time_uses_descriptor", model.Routine{Time: strPtr("soon"), TimeOfDay: strPtr("evening")}, timecalc.Clock{Hour: 18}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, layout.RoutineClock(tt.routine))
		})
	}
}

func TestEntryClock(t *testing.T) {
	assert.Equal(t, timecalc.Clock{Hour: 12}, layout.EntryClock(model.Entry{}))
	assert.Equal(t, timecalc.Clock{Hour: 12}, layout.EntryClock(model.Entry{Time: strPtr("later")}))
	assert.Equal(t, timecalc.Clock{Hour: 9, Minute: 5}, layout.EntryClock(model.Entry{Time: strPtr("09:05")}))
}

func TestNormalizeDoesNotMutateRoutines(t *testing.T) {
	routines := []model.Routine{{ID: "r1", TimeOfDay: strPtr("night")}}
	events := layout.Normalize(nil, routines)

	require.Len(t, events, 1)
	assert.Equal(t, layout.KindRoutine, events[0].Kind)
	assert.Equal(t, 0, events[0].Index)
	assert.Nil(t, routines[0].Time)
	assert.Equal(t, "night", *routines[0].TimeOfDay)
}
