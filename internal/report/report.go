// Package report summarises the records in a week or month.
package report

import (
	"sort"

	"github.com/winstoncvm/jcal/internal/aggregate"
	"github.com/winstoncvm/jcal/internal/match"
	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

// MoodCount is how often a mood tag was recorded.
type MoodCount struct {
	Mood  string `json:"mood"`
	Count int    `json:"count"`
}

// GoalLine is a goal overlapping the reported period.
type GoalLine struct {
	Title    string        `json:"title"`
	Start    timecalc.Date `json:"start"`
	End      timecalc.Date `json:"end"`
	Progress *int          `json:"progress,omitempty"`
}

// RoutineCount is how many days in the period a routine occurs on.
type RoutineCount struct {
	Title       string          `json:"title"`
	Frequency   model.Frequency `json:"frequency"`
	Occurrences int             `json:"occurrences"`
}

// Report aggregates one period.
type Report struct {
	Label         string         `json:"label"`
	From          timecalc.Date  `json:"from"`
	To            timecalc.Date  `json:"to"`
	Entries       int            `json:"entries"`
	ActiveDays    int            `json:"active_days"`
	Rated         int            `json:"rated"`
	AverageRating float64        `json:"average_rating"`
	Moods         []MoodCount    `json:"moods"`
	Goals         []GoalLine     `json:"goals"`
	Routines      []RoutineCount `json:"routines"`
}

// Build summarises recs over [from, to]. Entries outside the range are ignored.
func Build(label string, from, to timecalc.Date, recs model.Records) Report {
	r := Report{Label: label, From: from, To: to, Moods: []MoodCount{}, Goals: []GoalLine{}, Routines: []RoutineCount{}}

	moods := map[string]int{}
	ratingSum := 0
	for _, e := range recs.Entries {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		r.Entries++
		if e.Rating != nil {
			r.Rated++
			ratingSum += *e.Rating
		}
		if e.Mood != nil && *e.Mood != "" {
			moods[*e.Mood]++
		}
	}
	if r.Rated > 0 {
		r.AverageRating = float64(ratingSum) / float64(r.Rated)
	}
	for mood, n := range moods {
		r.Moods = append(r.Moods, MoodCount{Mood: mood, Count: n})
	}
	sort.Slice(r.Moods, func(i, j int) bool {
		if r.Moods[i].Count != r.Moods[j].Count {
			return r.Moods[i].Count > r.Moods[j].Count
		}
		return r.Moods[i].Mood < r.Moods[j].Mood
	})

	for _, g := range recs.Goals {
		if match.GoalOverlaps(g, from, to) {
			r.Goals = append(r.Goals, GoalLine{Title: g.Title, Start: g.Start, End: g.EffectiveEnd(), Progress: g.Progress})
		}
	}

	counts := make([]int, len(recs.Routines))
	for d := from; !d.After(to); d = d.AddDays(1) {
		if !aggregate.ForRecords(d, recs).Empty() {
			r.ActiveDays++
		}
		for i, rt := range recs.Routines {
			if match.Routine(rt, d) {
				counts[i]++
			}
		}
	}
	for i, rt := range recs.Routines {
		if counts[i] > 0 {
			r.Routines = append(r.Routines, RoutineCount{Title: rt.Title, Frequency: rt.Frequency, Occurrences: counts[i]})
		}
	}
	return r
}
