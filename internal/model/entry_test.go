package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		raw    string
		want   model.Frequency
		wantOK bool
	}{
		{"daily", model.Daily, true},
		{" Weekly ", model.Weekly, true},
		{"bi-weekly", model.BiWeekly, true},
		{"biweekly", model.BiWeekly, true},
		{"Bi Weekly", model.BiWeekly, true},
		{"monthly", model.Monthly, true},
		{"one_off", model.OneOff, true},
		{"oneoff", model.OneOff, true},
		{"fortnightly", model.Frequency("fortnightly"), false},
		{"", model.Frequency(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := model.ParseFrequency(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGoalEffectiveEnd(t *testing.T) {
	start := timecalc.MustDate("2024-03-01")
	end := timecalc.MustDate("2024-03-05")

	assert.Equal(t, start, model.Goal{Start: start}.EffectiveEnd())
	assert.Equal(t, end, model.Goal{Start: start, End: &end}.EffectiveEnd())
}

func TestRecordsLen(t *testing.T) {
	recs := model.Records{
		Entries:  make([]model.Entry, 2),
		Goals:    make([]model.Goal, 1),
		Routines: make([]model.Routine, 3),
	}
	assert.Equal(t, 6, recs.Len())
}
