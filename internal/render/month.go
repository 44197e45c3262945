// Package render prints composed calendar views to a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/winstoncvm/jcal/internal/timecalc"
	"github.com/winstoncvm/jcal/internal/view"
)

// CellWidth is the column width of one day in the month grid.
const CellWidth = 14

var weekdayHeader = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var (
	titleColor    = color.New(color.Bold, color.Underline)
	todayColor    = color.New(color.Bold, color.FgHiYellow, color.Underline)
	contentColor  = color.New(color.Bold, color.FgHiWhite)
	paddingColor  = color.New(color.Faint)
	overflowColor = color.New(color.Faint, color.Italic)
	headerColor   = color.New(color.FgWhite, color.Italic)
)

// Month writes the 6x7 grid. Each week is a row of day numbers followed by as
// many lines as the busiest day in that week needs for its titles.
func Month(w io.Writer, m view.MonthView, today timecalc.Date) error {
	bw := &errWriter{w: w}

	label := timecalc.MonthLabel(m.Month)
	full := CellWidth * 7
	mid := max(0, (full-len(label))/2)
	bw.printf("%s", titleColor.Sprint(strings.Repeat(" ", mid)+label))
	bw.printf("\n")

	for _, name := range weekdayHeader {
		bw.printf("%s", headerColor.Sprint(runewidth.FillRight(name, CellWidth)))
	}
	bw.printf("\n")

	for _, week := range m.Weeks() {
		for _, c := range week {
			bw.printf("%s", dayNumber(c, today))
		}
		bw.printf("\n")

		for line := 0; line < weekHeight(week); line++ {
			for _, c := range week {
				bw.printf("%s", cellLine(c, line))
			}
			bw.printf("\n")
		}
	}
	return bw.err
}

func dayNumber(c view.Cell, today timecalc.Date) string {
	text := runewidth.FillRight(fmt.Sprintf("%2d", c.Day.Date.Day), CellWidth)
	switch {
	case c.Day.Date.Equal(today):
		return todayColor.Sprint(text)
	case !c.InPeriod:
		return paddingColor.Sprint(text)
	case c.HasContent:
		return contentColor.Sprint(text)
	default:
		return text
	}
}

// weekHeight is the number of title lines the busiest cell in week needs.
func weekHeight(week []view.Cell) int {
	h := 0
	for _, c := range week {
		n := len(c.Visible)
		if c.Hidden > 0 {
			n++
		}
		h = max(h, n)
	}
	return h
}

func cellLine(c view.Cell, line int) string {
	var text string
	overflow := false
	switch {
	case line < len(c.Visible):
		text = " " + c.Visible[line]
	case line == len(c.Visible) && c.Hidden > 0:
		text = fmt.Sprintf(" +%d more", c.Hidden)
		overflow = true
	}
	text = runewidth.FillRight(fit(text, CellWidth-1), CellWidth)
	if overflow || !c.InPeriod {
		return overflowColor.Sprint(text)
	}
	return text
}

// fit truncates s to width display columns, marking the cut with an ellipsis.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// errWriter keeps the first write error so render functions can print freely.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
