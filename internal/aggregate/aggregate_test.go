package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winstoncvm/jcal/internal/aggregate"
	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

func datePtr(s string) *timecalc.Date {
	d := timecalc.MustDate(s)
	return &d
}

func fixture() model.Records {
	return model.Records{
		Entries: []model.Entry{
			{ID: "e1", Date: timecalc.MustDate("2024-03-04"), Title: "Wash day"},
			{ID: "e2", Date: timecalc.MustDate("2024-03-05"), Title: "Trim"},
			{ID: "e3", Date: timecalc.MustDate("2024-03-04"), Title: "Deep condition"},
		},
		Goals: []model.Goal{
			{ID: "g1", Title: "Grow 2cm", Start: timecalc.MustDate("2024-03-01"), End: datePtr("2024-03-31")},
			{ID: "g2", Title: "Protein week", Start: timecalc.MustDate("2024-03-05")},
		},
		Routines: []model.Routine{
			{ID: "r1", Title: "Scalp massage", Frequency: model.Daily},
			{ID: "r2", Title: "Clarify", Frequency: model.Weekly, StartDate: datePtr("2024-02-26")},
			{ID: "r3", Title: "Broken", Frequency: "sometimes"},
		},
	}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func TestForDate(t *testing.T) {
	recs := fixture()
	day := aggregate.ForRecords(timecalc.MustDate("2024-03-04"), recs)

	assert.Equal(t, timecalc.MustDate("2024-03-04"), day.Date)
	assert.Equal(t, []string{"e1", "e3"}, ids(day.Entries, func(e model.Entry) string { return e.ID }))
	assert.Equal(t, []string{"g1"}, ids(day.Goals, func(g model.Goal) string { return g.ID }))
	assert.Equal(t, []string{"r1", "r2"}, ids(day.Routines, func(r model.Routine) string { return r.ID }))
	assert.Equal(t, 5, day.Count())
	assert.False(t, day.Empty())
	assert.Equal(t, []string{"Wash day", "Deep condition", "Grow 2cm", "Scalp massage", "Clarify"}, day.Titles())
}

func TestForDateFiltersAreIndependent(t *testing.T) {
	recs := fixture()
	d := timecalc.MustDate("2024-03-05")

	full := aggregate.ForRecords(d, recs)
	onlyEntries := aggregate.ForDate(d, recs.Entries, nil, nil)
	onlyGoals := aggregate.ForDate(d, nil, recs.Goals, nil)

	assert.Equal(t, full.Entries, onlyEntries.Entries)
	assert.Equal(t, full.Goals, onlyGoals.Goals)
	assert.Empty(t, onlyEntries.Goals)
	assert.Empty(t, onlyGoals.Routines)
}

func TestForDateDoesNotMutateInput(t *testing.T) {
	recs := fixture()
	before := fixture()

	_ = aggregate.ForRecords(timecalc.MustDate("2024-03-04"), recs)
	require.Equal(t, before, recs)
}

func TestForDateEmpty(t *testing.T) {
	day := aggregate.ForDate(timecalc.MustDate("2024-03-04"), nil, nil, nil)
	assert.True(t, day.Empty())
	assert.Empty(t, day.Titles())
}
