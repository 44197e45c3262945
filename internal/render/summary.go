package render

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"

	"github.com/winstoncvm/jcal/internal/aggregate"
	"github.com/winstoncvm/jcal/internal/layout"
)

// Summary writes what is active on a single day as three titled sections.
func Summary(w io.Writer, day aggregate.Day) error {
	bw := &errWriter{w: w}

	section := func(title string, count int) {
		bw.printf("%s", titleColor.Sprint(title))
		bw.printf("%s\n", paddingColor.Sprintf(" - %d", count))
	}
	none := func() {
		bw.printf("%s\n\n", overflowColor.Sprint(" none"))
	}

	section("Entries", len(day.Entries))
	if len(day.Entries) == 0 {
		none()
	} else {
		tbl := uitable.New()
		tbl.Separator = "  "
		for _, e := range day.Entries {
			mood, rating := "", ""
			if e.Mood != nil {
				mood = *e.Mood
			}
			if e.Rating != nil {
				rating = fmt.Sprintf("★%d", *e.Rating)
			}
			tbl.AddRow(layout.EntryClock(e).String(), e.Title, mood, rating)
		}
		bw.printf("%s\n\n", tbl)
	}

	section("Goals", len(day.Goals))
	if len(day.Goals) == 0 {
		none()
	} else {
		tbl := uitable.New()
		tbl.Separator = "  "
		for _, g := range day.Goals {
			progress := ""
			if g.Progress != nil {
				progress = fmt.Sprintf("%d%%", *g.Progress)
			}
			left := day.Date.DaysUntil(g.EffectiveEnd())
			tbl.AddRow(g.Title, progress, fmt.Sprintf("%d day(s) left", max(left, 0)))
		}
		bw.printf("%s\n\n", tbl)
	}

	section("Routines", len(day.Routines))
	if len(day.Routines) == 0 {
		none()
	} else {
		tbl := uitable.New()
		tbl.Separator = "  "
		for _, r := range day.Routines {
			tbl.AddRow(layout.RoutineClock(r).String(), r.Title, string(r.Frequency))
		}
		bw.printf("%s\n\n", tbl)
	}
	return bw.err
}
