package match_test

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winstoncvm/jcal/internal/match"
	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

func datePtr(s string) *timecalc.Date {
	d := timecalc.MustDate(s)
	return &d
}

// eachDay calls fn for every day in [from, to].
func eachDay(from, to string, fn func(timecalc.Date)) {
	end := timecalc.MustDate(to)
	for d := timecalc.MustDate(from); !d.After(end); d = d.AddDays(1) {
		fn(d)
	}
}

func TestRoutineDaily(t *testing.T) {
	r := model.Routine{Frequency: model.Daily}
	eachDay("2024-01-01", "2024-12-31", func(d timecalc.Date) {
		assert.True(t, match.Routine(r, d), "daily routine on %v", d)
	})
}

func TestRoutineWeeklyDerivesWeekdayFromStartDate(t *testing.T) {
	r := model.Routine{Frequency: model.Weekly, StartDate: datePtr("2024-03-04")} // Monday
	eachDay("2024-02-01", "2024-05-31", func(d timecalc.Date) {
		assert.Equal(t, d.Weekday() == time.Monday, match.Routine(r, d), "weekly routine on %v", d)
	})

	wed := model.Routine{Frequency: model.Weekly, StartDate: datePtr("2024-03-06")}
	assert.True(t, match.Routine(wed, timecalc.MustDate("2024-03-13")))
	assert.False(t, match.Routine(wed, timecalc.MustDate("2024-03-11")))
}

func TestRoutineWeeklyWithoutStartDate(t *testing.T) {
	r := model.Routine{Frequency: model.Weekly}
	eachDay("2024-03-01", "2024-03-14", func(d timecalc.Date) {
		assert.False(t, match.Routine(r, d))
	})
}

func TestRoutineEmptyStoredDatesNeverMatch(t *testing.T) {
	var weekly, oneOff, bare model.Routine
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":"w","title":"Oil","frequency":"weekly","start_date":""}`), &weekly))
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":"o","title":"Trim","frequency":"one-off","date":""}`), &oneOff))
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":"b","title":"Scrub","date":""}`), &bare))
	require.NotNil(t, weekly.StartDate)
	require.NotNil(t, oneOff.Date)

	eachDay("2024-03-01", "2024-03-14", func(d timecalc.Date) {
		assert.False(t, match.Routine(weekly, d), "weekly with empty start_date on %v", d)
		assert.False(t, match.Routine(oneOff, d), "one-off with empty date on %v", d)
		assert.False(t, match.Routine(bare, d), "no frequency with empty date on %v", d)
	})
}

func TestRoutineBiWeekly(t *testing.T) {
	r := model.Routine{Frequency: model.BiWeekly}
	eachDay("2024-03-01", "2024-03-31", func(d timecalc.Date) {
		wd := d.Weekday()
		assert.Equal(t, wd == time.Monday || wd == time.Friday, match.Routine(r, d), "bi-weekly on %v", d)
	})
}

func TestRoutineMonthly(t *testing.T) {
	r := model.Routine{Frequency: model.Monthly}
	eachDay("2023-12-01", "2024-12-31", func(d timecalc.Date) {
		assert.Equal(t, d.Day == 1, match.Routine(r, d), "monthly on %v", d)
	})
}

func TestRoutineOneOff(t *testing.T) {
	tests := []struct {
		name    string
		routine model.Routine
		date    string
		want    bool
	}{
		{"matching_date", model.Routine{Frequency: model.OneOff, Date: datePtr("2024-03-10")}, "2024-03-10", true},
		{"other_date", model.Routine{Frequency: model.OneOff, Date: datePtr("2024-03-10")}, "2024-03-11", false},
		{"no_frequency_falls_back_to_date", model.Routine{Date: datePtr("2024-03-10")}, "2024-03-10", true},
		{"no_frequency_no_date", model.Routine{}, "2024-03-10", false},
		{"one_off_without_date", model.Routine{Frequency: model.OneOff}, "2024-03-10", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, match.Routine(tt.routine, timecalc.MustDate(tt.date)))
		})
	}
}

func TestRoutineUnknownFrequencyFailsClosed(t *testing.T) {
	for _, f := range []model.Frequency{"fortnightly", "yearly", "WEEKLYISH", "  "} {
		r := model.Routine{Frequency: f, StartDate: datePtr("2024-03-04"), Date: datePtr("2024-03-04")}
		eachDay("2024-03-01", "2024-03-31", func(d timecalc.Date) {
			assert.False(t, match.Routine(r, d), "frequency %q on %v", f, d)
		})
	}
}

func TestRoutineAcceptsLooseSpelling(t *testing.T) {
	r := model.Routine{Frequency: "BiWeekly"}
	assert.True(t, match.Routine(r, timecalc.MustDate("2024-03-04")))
}

func TestGoalRange(t *testing.T) {
	g := model.Goal{Start: timecalc.MustDate("2024-03-01"), End: datePtr("2024-03-05")}

	assert.False(t, match.Goal(g, timecalc.MustDate("2024-02-29")))
	eachDay("2024-03-01", "2024-03-05", func(d timecalc.Date) {
		assert.True(t, match.Goal(g, d), "goal on %v", d)
	})
	assert.False(t, match.Goal(g, timecalc.MustDate("2024-03-06")))
}

func TestGoalWithoutEndIsSingleDay(t *testing.T) {
	g := model.Goal{Start: timecalc.MustDate("2024-03-03")}
	eachDay("2024-02-25", "2024-03-10", func(d timecalc.Date) {
		assert.Equal(t, d == g.Start, match.Goal(g, d), "goal on %v", d)
	})
}

func TestGoalMatchesIntervalDefinition(t *testing.T) {
	goals := []model.Goal{
		{Start: timecalc.MustDate("2024-01-30"), End: datePtr("2024-02-02")},
		{Start: timecalc.MustDate("2023-12-31"), End: datePtr("2024-01-01")},
		{Start: timecalc.MustDate("2024-02-28")},
	}
	eachDay("2023-12-20", "2024-03-10", func(d timecalc.Date) {
		for _, g := range goals {
			want := !d.Before(g.Start) && !d.After(g.EffectiveEnd())
			assert.Equal(t, want, match.Goal(g, d))
		}
	})
}

func TestGoalInvertedRangeIsEmpty(t *testing.T) {
	g := model.Goal{Start: timecalc.MustDate("2024-03-05"), End: datePtr("2024-03-01")}
	eachDay("2024-02-25", "2024-03-10", func(d timecalc.Date) {
		assert.False(t, match.Goal(g, d), "inverted goal on %v", d)
	})
	assert.False(t, match.GoalOverlaps(g, timecalc.MustDate("2024-01-01"), timecalc.MustDate("2024-12-31")))
}

func TestGoalOverlaps(t *testing.T) {
	g := model.Goal{Start: timecalc.MustDate("2024-03-01"), End: datePtr("2024-03-05")}
	tests := []struct {
		from, to string
		want     bool
	}{
		{"2024-02-01", "2024-02-29", false},
		{"2024-02-20", "2024-03-01", true},
		{"2024-03-02", "2024-03-03", true},
		{"2024-03-05", "2024-03-31", true},
		{"2024-03-06", "2024-03-31", false},
	}
	for _, tt := range tests {
		got := match.GoalOverlaps(g, timecalc.MustDate(tt.from), timecalc.MustDate(tt.to))
		assert.Equal(t, tt.want, got, "[%s, %s]", tt.from, tt.to)
	}
}

func TestFiltersPreserveOrder(t *testing.T) {
	d := timecalc.MustDate("2024-03-01") // Friday, first of month
	routines := []model.Routine{
		{ID: "a", Frequency: model.Monthly},
		{ID: "b", Frequency: model.Weekly, StartDate: datePtr("2024-03-04")},
		{ID: "c", Frequency: model.Daily},
		{ID: "d", Frequency: model.BiWeekly},
	}
	got := match.Routines(routines, d)
	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "c", "d"}, ids)

	goals := []model.Goal{
		{ID: "x", Start: timecalc.MustDate("2024-03-02")},
		{ID: "y", Start: timecalc.MustDate("2024-02-01"), End: datePtr("2024-03-31")},
		{ID: "z", Start: d},
	}
	gotGoals := match.Goals(goals, d)
	if assert.Len(t, gotGoals, 2) {
		assert.Equal(t, "y", gotGoals[0].ID)
		assert.Equal(t, "z", gotGoals[1].ID)
	}
}
