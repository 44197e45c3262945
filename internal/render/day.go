package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/winstoncvm/jcal/internal/layout"
	"github.com/winstoncvm/jcal/internal/view"
)

// DayOptions controls how the pixel timeline is mapped to terminal lines.
type DayOptions struct {
	Width  int // terminal columns; 0 means 80
	LinePx int // pixels per line; 0 means the default compact row height
}

const gutterWidth = 6

// line is one terminal row of the timeline.
type line struct {
	label    string // "HH:00" on the first line of each hour
	expanded bool
	goal     bool
	items    []string
}

// Day writes the focus+context timeline for a single day: goal bands on top,
// then every hour scaled by its row height, with events on the line their Y
// offset falls on.
func Day(w io.Writer, d view.DayView, opts DayOptions) error {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.LinePx <= 0 {
		opts.LinePx = layout.DefaultConfig().CompactRow
	}

	bw := &errWriter{w: w}
	date := d.Day.Date
	bw.printf("%s\n", titleColor.Sprintf("%s, %02d %s %d", date.Weekday(), date.Day, date.Month, date.Year))
	if d.Day.Empty() {
		bw.printf("%s\n", overflowColor.Sprint("Nothing recorded."))
	}

	room := max(1, opts.Width-gutterWidth-3)
	for _, ln := range timeline(d, opts.LinePx) {
		text := fit(strings.Join(ln.items, "  "), room)
		label := fmt.Sprintf("%*s", gutterWidth-1, ln.label)
		switch {
		case ln.goal:
			bw.printf("%s ┃ %s\n", label, contentColor.Sprint(text))
		case ln.expanded:
			bw.printf("%s │ %s\n", contentColor.Sprint(label), text)
		default:
			bw.printf("%s │ %s\n", paddingColor.Sprint(label), text)
		}
	}
	return bw.err
}

// timeline scales the layout to lines of linePx pixels each.
func timeline(d view.DayView, linePx int) []line {
	l := d.Layout
	n := (l.HeightWithGoals() + linePx - 1) / linePx
	lines := make([]line, n)
	at := func(px float64) *line {
		i := min(max(int(px)/linePx, 0), n-1)
		return &lines[i]
	}

	for i, top := range l.GoalBands {
		g := d.Day.Goals[i]
		title := "◆ " + g.Title
		if g.Progress != nil {
			title += fmt.Sprintf(" (%d%%)", *g.Progress)
		}
		ln := at(float64(top))
		ln.goal = true
		ln.items = append(ln.items, title)
	}
	if len(l.GoalBands) > 0 {
		// Shade the rest of the goal area.
		for px := 0; px < l.GoalOffset; px += linePx {
			at(float64(px)).goal = true
		}
	}

	for h := 0; h < layout.Hours; h++ {
		top := l.GoalOffset + l.Offsets[h]
		bottom := top + l.Heights[h]
		for px := top; px < bottom; px += linePx {
			at(float64(px)).expanded = l.Expanded(h)
		}
		ln := at(float64(top))
		if ln.label == "" {
			ln.label = fmt.Sprintf("%02d:00", h)
		}
	}

	for _, p := range l.Placements {
		ln := at(p.Y)
		ln.items = append(ln.items, eventText(d, p.Event))
	}
	return lines
}

func eventText(d view.DayView, ev layout.Event) string {
	switch ev.Kind {
	case layout.KindRoutine:
		return fmt.Sprintf("↻ %s %s", ev.Clock, ev.Title)
	default:
		text := fmt.Sprintf("• %s %s", ev.Clock, ev.Title)
		if ev.Index < len(d.Day.Entries) {
			e := d.Day.Entries[ev.Index]
			if e.Mood != nil {
				text += " [" + *e.Mood + "]"
			}
			if e.Rating != nil {
				text += fmt.Sprintf(" ★%d", *e.Rating)
			}
		}
		return text
	}
}
