package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/winstoncvm/jcal/internal/period"
	"github.com/winstoncvm/jcal/internal/report"
	"github.com/winstoncvm/jcal/internal/storage"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

var (
	reportMonth  bool
	reportDate   string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise a week or month",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportMonth, "month", false, "Report the month instead of the week")
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Any day in the period (YYYY-MM-DD); defaults to today")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

func runReport(cmd *cobra.Command, args []string) error {
	_, s := mustEnv()

	r, err := buildReport(cmd.Context(), s, reportMonth, mustDate("date", reportDate))
	if err != nil {
		fail(2, err)
	}
	if err := writeReport(os.Stdout, r, reportFormat); err != nil {
		fail(2, err)
	}
	return nil
}

// buildReport summarises the week, or with month the calendar month, containing anchor.
func buildReport(ctx context.Context, s *storage.Store, month bool, anchor timecalc.Date) (report.Report, error) {
	kind := period.KindWeek
	if month {
		kind = period.KindMonth
	}
	from, to := period.Span(kind, anchor)

	label := timecalc.ISOWeekLabel(from)
	if month {
		label = timecalc.MonthLabel(anchor)
	}

	recs, err := s.FetchRecords(ctx, storage.Scope{From: from, To: to})
	if err != nil {
		return report.Report{}, err
	}
	return report.Build(label, from, to, recs), nil
}

func writeReport(w io.Writer, r report.Report, format string) error {
	switch format {
	case "csv":
		var b strings.Builder
		b.WriteString("section,name,value\n")
		fmt.Fprintf(&b, "summary,entries,%d\n", r.Entries)
		fmt.Fprintf(&b, "summary,active_days,%d\n", r.ActiveDays)
		fmt.Fprintf(&b, "summary,average_rating,%.2f\n", r.AverageRating)
		for _, m := range r.Moods {
			fmt.Fprintf(&b, "mood,%s,%d\n", csvEscape(m.Mood), m.Count)
		}
		for _, g := range r.Goals {
			progress := ""
			if g.Progress != nil {
				progress = fmt.Sprint(*g.Progress)
			}
			fmt.Fprintf(&b, "goal,%s,%s\n", csvEscape(g.Title), progress)
		}
		for _, rt := range r.Routines {
			fmt.Fprintf(&b, "routine,%s,%d\n", csvEscape(rt.Title), rt.Occurrences)
		}
		_, err := io.WriteString(w, b.String())
		return err
	case "json":
		data, err := sonic.ConfigStd.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default: // md
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow("Entries", r.Entries)
		tbl.AddRow("Active days", r.ActiveDays)
		if r.Rated > 0 {
			tbl.AddRow("Average rating", fmt.Sprintf("%.1f (%d rated)", r.AverageRating, r.Rated))
		}
		for _, m := range r.Moods {
			tbl.AddRow("Mood: "+m.Mood, m.Count)
		}
		for _, g := range r.Goals {
			progress := "-"
			if g.Progress != nil {
				progress = fmt.Sprintf("%d%%", *g.Progress)
			}
			tbl.AddRow("Goal: "+g.Title, fmt.Sprintf("%s – %s  %s", g.Start, g.End, progress))
		}
		for _, rt := range r.Routines {
			tbl.AddRow("Routine: "+rt.Title, fmt.Sprintf("%d× %s", rt.Occurrences, rt.Frequency))
		}
		_, err := fmt.Fprintf(w, "%s (%s – %s)\n--------------------------------\n%s\n", r.Label, r.From, r.To, tbl)
		return err
	}
}
