package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/winstoncvm/jcal/internal/period"
	"github.com/winstoncvm/jcal/internal/render"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

var (
	weekDate   string
	weekOffset int
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "List the records of a Monday-first week",
	Args:  cobra.NoArgs,
	RunE:  runWeek,
}

func init() {
	weekCmd.Flags().StringVar(&weekDate, "date", "", "Any day in the week to show (YYYY-MM-DD); defaults to today")
	weekCmd.Flags().IntVar(&weekOffset, "offset", 0, "Move forward (positive) or back (negative) this many weeks")
}

func runWeek(cmd *cobra.Command, args []string) error {
	cfg, s := mustEnv()
	st := navState(period.KindWeek, weekDate, weekOffset)

	w := composer(cfg).Week(st, fetchView(cmd.Context(), s, st))
	return render.Week(color.Output, w, timecalc.Today())
}
