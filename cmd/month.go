package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/winstoncvm/jcal/internal/period"
	"github.com/winstoncvm/jcal/internal/render"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

var (
	monthDate   string
	monthOffset int
)

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Show the month grid",
	Args:  cobra.NoArgs,
	RunE:  runMonth,
}

func init() {
	monthCmd.Flags().StringVar(&monthDate, "date", "", "Any day in the month to show (YYYY-MM-DD); defaults to today")
	monthCmd.Flags().IntVar(&monthOffset, "offset", 0, "Move forward (positive) or back (negative) this many months")
}

func runMonth(cmd *cobra.Command, args []string) error {
	cfg, s := mustEnv()
	st := navState(period.KindMonth, monthDate, monthOffset)

	m := composer(cfg).Month(st, fetchView(cmd.Context(), s, st))
	return render.Month(color.Output, m, timecalc.Today())
}
