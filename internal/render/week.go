package render

import (
	"fmt"
	"io"

	"github.com/gosuri/uitable"

	"github.com/winstoncvm/jcal/internal/timecalc"
	"github.com/winstoncvm/jcal/internal/view"
)

// Week writes one table block per day, Monday first. Titles beyond the cap are
// summarised as "+N more" and empty days show a dash.
func Week(w io.Writer, wv view.WeekView, today timecalc.Date) error {
	if len(wv.Cells) == 0 {
		return nil
	}
	first := wv.Cells[0].Day.Date
	last := wv.Cells[len(wv.Cells)-1].Day.Date

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60

	for _, c := range wv.Cells {
		label := dayLabel(c.Day.Date)
		switch {
		case c.Day.Date.Equal(today):
			label = todayColor.Sprint(label)
		case c.HasContent:
			label = contentColor.Sprint(label)
		}

		if !c.HasContent {
			tbl.AddRow(label, paddingColor.Sprint("-"))
			continue
		}
		for i, title := range c.Visible {
			if i == 0 {
				tbl.AddRow(label, title)
			} else {
				tbl.AddRow("", title)
			}
		}
		if c.Hidden > 0 {
			tbl.AddRow("", overflowColor.Sprintf("+%d more", c.Hidden))
		}
	}

	bw := &errWriter{w: w}
	bw.printf("%s\n", titleColor.Sprintf("Week %s  (%s – %s)", timecalc.ISOWeekLabel(first), first, last))
	bw.printf("%s\n", tbl)
	return bw.err
}

func dayLabel(d timecalc.Date) string {
	return fmt.Sprintf("%s %02d", d.Weekday().String()[:3], d.Day)
}
