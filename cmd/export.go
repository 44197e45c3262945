package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/winstoncvm/jcal/internal/layout"
	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/period"
	"github.com/winstoncvm/jcal/internal/storage"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

var (
	exportFormat string
	exportPeriod string
	exportDate   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "week", "Records to export: day, week, month or all")
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Any day in the period (YYYY-MM-DD); defaults to today")
}

func runExport(cmd *cobra.Command, args []string) error {
	_, s := mustEnv()

	scope, err := exportScope(exportPeriod, mustDate("date", exportDate))
	if err != nil {
		fail(1, err)
	}

	recs, err := s.FetchRecords(cmd.Context(), scope)
	if err != nil {
		fail(2, err)
	}

	if err := writeExport(os.Stdout, recs, exportFormat); err != nil {
		fail(2, err)
	}
	return nil
}

// exportScope resolves --period around anchor; "all" is unbounded.
func exportScope(name string, anchor timecalc.Date) (storage.Scope, error) {
	if name == "all" {
		return storage.Scope{}, nil
	}
	kind, err := period.ParseKind(name)
	if err != nil {
		return storage.Scope{}, err
	}
	from, to := period.Span(kind, anchor)
	return storage.Scope{From: from, To: to}, nil
}

func writeExport(w io.Writer, recs model.Records, format string) error {
	switch format {
	case "json":
		data, err := sonic.ConfigStd.MarshalIndent(recs, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "md":
		_, err := io.WriteString(w, markdownList(recs))
		return err
	default: // csv
		_, err := io.WriteString(w, csvRecords(recs))
		return err
	}
}

// markdownList groups entries by date, then lists goals and routines.
func markdownList(recs model.Records) string {
	var b strings.Builder
	entries := append([]model.Entry(nil), recs.Entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return layout.EntryClock(entries[i]).String() < layout.EntryClock(entries[j]).String()
	})

	if len(entries) == 0 {
		b.WriteString("No entries found.\n")
	}
	var currentDay string
	for _, e := range entries {
		if day := e.Date.String(); day != currentDay {
			fmt.Fprintf(&b, "## %s\n", day)
			currentDay = day
		}
		fmt.Fprintf(&b, "- %s %s", layout.EntryClock(e), e.Title)
		if e.Mood != nil {
			fmt.Fprintf(&b, " [%s]", *e.Mood)
		}
		if e.Rating != nil {
			fmt.Fprintf(&b, " ★%d", *e.Rating)
		}
		b.WriteString("\n")
	}

	if len(recs.Goals) > 0 {
		b.WriteString("## Goals\n")
		for _, g := range recs.Goals {
			fmt.Fprintf(&b, "- %s (%s – %s)", g.Title, g.Start, g.EffectiveEnd())
			if g.Progress != nil {
				fmt.Fprintf(&b, " %d%%", *g.Progress)
			}
			b.WriteString("\n")
		}
	}
	if len(recs.Routines) > 0 {
		b.WriteString("## Routines\n")
		for _, r := range recs.Routines {
			fmt.Fprintf(&b, "- %s (%s, %s)\n", r.Title, r.Frequency, layout.RoutineClock(r))
		}
	}
	return b.String()
}

func csvRecords(recs model.Records) string {
	var b strings.Builder
	b.WriteString("kind,id,date,end,time,title,mood,rating,frequency,progress\n")
	row := func(fields ...string) {
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvEscape(f))
		}
		b.WriteByte('\n')
	}
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	itoa := func(n *int) string {
		if n == nil {
			return ""
		}
		return fmt.Sprint(*n)
	}

	for _, e := range recs.Entries {
		row("entry", e.ID, e.Date.String(), "", deref(e.Time), e.Title, deref(e.Mood), itoa(e.Rating), "", "")
	}
	for _, g := range recs.Goals {
		end := ""
		if g.End != nil {
			end = g.End.String()
		}
		row("goal", g.ID, g.Start.String(), end, "", g.Title, "", "", "", itoa(g.Progress))
	}
	for _, r := range recs.Routines {
		date := ""
		switch {
		case r.StartDate != nil:
			date = r.StartDate.String()
		case r.Date != nil:
			date = r.Date.String()
		}
		clock := deref(r.Time)
		if clock == "" {
			clock = deref(r.TimeOfDay)
		}
		row("routine", r.ID, date, "", clock, r.Title, "", "", string(r.Frequency), "")
	}
	return b.String()
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
