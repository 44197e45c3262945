package model

import (
	"strings"

	"github.com/winstoncvm/jcal/internal/timecalc"
)

// Entry is a single diary entry. It belongs to exactly one calendar day.
type Entry struct {
	ID         string        `json:"id"`
	Date       timecalc.Date `json:"date"`
	Time       *string       `json:"time,omitempty"` // "HH:MM" as recorded
	Title      string        `json:"title"`
	Mood       *string       `json:"mood,omitempty"`
	Rating     *int          `json:"rating,omitempty"`
	Image      *string       `json:"image,omitempty"`
	Source     string        `json:"source"`
	ExternalID string        `json:"external_id,omitempty"`
}

// Goal spans the closed interval [Start, End]. A nil End means the single day Start.
type Goal struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Start    timecalc.Date  `json:"start"`
	End      *timecalc.Date `json:"end,omitempty"`
	Progress *int           `json:"progress,omitempty"`
}

// EffectiveEnd returns End, or Start when the goal has no end date.
func (g Goal) EffectiveEnd() timecalc.Date {
	if g.End != nil {
		return *g.End
	}
	return g.Start
}

// Frequency is the recurrence category of a routine.
type Frequency string

const (
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	BiWeekly Frequency = "bi-weekly"
	Monthly  Frequency = "monthly"
	OneOff   Frequency = "one-off"
)

// AllFrequencies lists the recognised categories.
func AllFrequencies() []Frequency {
	return []Frequency{Daily, Weekly, BiWeekly, Monthly, OneOff}
}

// ParseFrequency normalises case, spacing and the common "biweekly"/"oneoff"
// spellings. The second return is false for anything unrecognised.
func ParseFrequency(raw string) (Frequency, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	switch s {
	case "biweekly":
		s = string(BiWeekly)
	case "oneoff", "once":
		s = string(OneOff)
	}
	for _, f := range AllFrequencies() {
		if Frequency(s) == f {
			return f, true
		}
	}
	return Frequency(raw), false
}

// Routine is a recurring practice. Which of StartDate and Date matter depends
// on Frequency: weekly routines repeat on StartDate's weekday, one-off
// routines happen only on Date.
type Routine struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Frequency Frequency      `json:"frequency"`
	Time      *string        `json:"time,omitempty"`        // explicit "HH:MM"
	TimeOfDay *string        `json:"time_of_day,omitempty"` // morning|evening|night
	StartDate *timecalc.Date `json:"start_date,omitempty"`
	Date      *timecalc.Date `json:"date,omitempty"`
}

// Records is the full record set handed to the calendar engine.
type Records struct {
	Entries  []Entry   `json:"entries"`
	Goals    []Goal    `json:"goals"`
	Routines []Routine `json:"routines"`
}

// Len returns the total number of records.
func (r Records) Len() int {
	return len(r.Entries) + len(r.Goals) + len(r.Routines)
}

// DayFile is the top-level structure stored for each day with entries.
type DayFile struct {
	Date    string  `json:"date"`
	Entries []Entry `json:"entries"`
}
