package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

// entryFlags, goalFlags and routineFlags hold the raw flag values of the add
// subcommands so that validation can be tested without cobra.
type entryFlags struct {
	date, time, mood, image string
	rating                  int
}

type goalFlags struct {
	start, end string
	progress   int
}

type routineFlags struct {
	frequency, time, timeOfDay, start, date string
}

var (
	addEntry   entryFlags
	addGoal    goalFlags
	addRoutine routineFlags
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an entry, goal or routine",
}

var addEntryCmd = &cobra.Command{
	Use:   "entry <title>",
	Short: "Add a diary entry",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAddEntry,
}

var addGoalCmd = &cobra.Command{
	Use:   "goal <title>",
	Short: "Add a goal spanning a date range",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAddGoal,
}

var addRoutineCmd = &cobra.Command{
	Use:   "routine <title>",
	Short: "Add a recurring routine",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAddRoutine,
}

func init() {
	f := addEntryCmd.Flags()
	f.StringVar(&addEntry.date, "date", "", "Entry date (YYYY-MM-DD); defaults to today")
	f.StringVar(&addEntry.time, "time", "", "Time of day (HH:MM)")
	f.StringVar(&addEntry.mood, "mood", "", "Mood tag")
	f.IntVar(&addEntry.rating, "rating", 0, "Rating (1-5)")
	f.StringVar(&addEntry.image, "image", "", "Image reference")

	f = addGoalCmd.Flags()
	f.StringVar(&addGoal.start, "start", "", "First day (YYYY-MM-DD); defaults to today")
	f.StringVar(&addGoal.end, "end", "", "Last day (YYYY-MM-DD); omit for a single-day goal")
	f.IntVar(&addGoal.progress, "progress", -1, "Progress percentage (0-100)")

	f = addRoutineCmd.Flags()
	f.StringVar(&addRoutine.frequency, "frequency", string(model.Daily), "daily, weekly, bi-weekly, monthly or one-off")
	f.StringVar(&addRoutine.time, "time", "", "Time of day (HH:MM)")
	f.StringVar(&addRoutine.timeOfDay, "time-of-day", "", "morning, evening or night")
	f.StringVar(&addRoutine.start, "start", "", "Start date for weekly routines (YYYY-MM-DD); defaults to today")
	f.StringVar(&addRoutine.date, "date", "", "Date of a one-off routine (YYYY-MM-DD); defaults to today")

	addCmd.AddCommand(addEntryCmd, addGoalCmd, addRoutineCmd)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseOptionalDate(flag, value string, fallback timecalc.Date) (timecalc.Date, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := timecalc.ParseDate(value)
	if err != nil {
		return timecalc.Date{}, fmt.Errorf("invalid --%s value %q: %w", flag, value, err)
	}
	return d, nil
}

func parseOptionalClock(value string) (*string, error) {
	if value == "" {
		return nil, nil
	}
	c, err := timecalc.ParseClock(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --time value: %w", err)
	}
	s := c.String()
	return &s, nil
}

func buildEntry(title string, f entryFlags, now time.Time) (model.Entry, error) {
	date, err := parseOptionalDate("date", f.date, timecalc.DateOf(now))
	if err != nil {
		return model.Entry{}, err
	}
	clock, err := parseOptionalClock(f.time)
	if err != nil {
		return model.Entry{}, err
	}
	e := model.Entry{
		ID:     timecalc.GenerateID(now),
		Date:   date,
		Time:   clock,
		Title:  title,
		Mood:   optional(f.mood),
		Image:  optional(f.image),
		Source: "manual",
	}
	if f.rating != 0 {
		if f.rating < 1 || f.rating > 5 {
			return model.Entry{}, fmt.Errorf("invalid --rating %d (want 1-5)", f.rating)
		}
		r := f.rating
		e.Rating = &r
	}
	return e, nil
}

func buildGoal(title string, f goalFlags, now time.Time) (model.Goal, error) {
	start, err := parseOptionalDate("start", f.start, timecalc.DateOf(now))
	if err != nil {
		return model.Goal{}, err
	}
	g := model.Goal{ID: timecalc.GenerateID(now), Title: title, Start: start}
	if f.end != "" {
		end, err := parseOptionalDate("end", f.end, start)
		if err != nil {
			return model.Goal{}, err
		}
		if end.Before(start) {
			return model.Goal{}, fmt.Errorf("--end %s is before --start %s", end, start)
		}
		g.End = &end
	}
	if f.progress >= 0 {
		if f.progress > 100 {
			return model.Goal{}, fmt.Errorf("invalid --progress %d (want 0-100)", f.progress)
		}
		p := f.progress
		g.Progress = &p
	}
	return g, nil
}

func buildRoutine(title string, f routineFlags, now time.Time) (model.Routine, error) {
	freq, ok := model.ParseFrequency(f.frequency)
	if !ok {
		return model.Routine{}, fmt.Errorf("unknown --frequency %q", f.frequency)
	}
	clock, err := parseOptionalClock(f.time)
	if err != nil {
		return model.Routine{}, err
	}
	r := model.Routine{ID: timecalc.GenerateID(now), Title: title, Frequency: freq, Time: clock}
	if tod := strings.ToLower(strings.TrimSpace(f.timeOfDay)); tod != "" {
		switch tod {
		case "morning", "evening", "night":
			r.TimeOfDay = &tod
		default:
			return model.Routine{}, fmt.Errorf("unknown --time-of-day %q (want morning, evening or night)", f.timeOfDay)
		}
	}

	today := timecalc.DateOf(now)
	switch freq {
	case model.Weekly:
		d, err := parseOptionalDate("start", f.start, today)
		if err != nil {
			return model.Routine{}, err
		}
		r.StartDate = &d
	case model.OneOff:
		d, err := parseOptionalDate("date", f.date, today)
		if err != nil {
			return model.Routine{}, err
		}
		r.Date = &d
	}
	return r, nil
}

func runAddEntry(cmd *cobra.Command, args []string) error {
	e, err := buildEntry(strings.Join(args, " "), addEntry, time.Now())
	if err != nil {
		fail(1, err)
	}
	_, s := mustEnv()
	if err := s.UpdateEntry(e); err != nil {
		fail(2, err)
	}
	fmt.Printf("Added entry %q on %s (%s)\n", e.Title, e.Date, e.ID)
	return nil
}

func runAddGoal(cmd *cobra.Command, args []string) error {
	g, err := buildGoal(strings.Join(args, " "), addGoal, time.Now())
	if err != nil {
		fail(1, err)
	}
	_, s := mustEnv()
	if err := s.SaveGoal(g); err != nil {
		fail(2, err)
	}
	fmt.Printf("Added goal %q %s – %s (%s)\n", g.Title, g.Start, g.EffectiveEnd(), g.ID)
	return nil
}

func runAddRoutine(cmd *cobra.Command, args []string) error {
	r, err := buildRoutine(strings.Join(args, " "), addRoutine, time.Now())
	if err != nil {
		fail(1, err)
	}
	_, s := mustEnv()
	if err := s.SaveRoutine(r); err != nil {
		fail(2, err)
	}
	fmt.Printf("Added %s routine %q (%s)\n", r.Frequency, r.Title, r.ID)
	return nil
}
