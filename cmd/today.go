package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/winstoncvm/jcal/internal/aggregate"
	"github.com/winstoncvm/jcal/internal/render"
	"github.com/winstoncvm/jcal/internal/storage"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Summarise what is active today",
	Args:  cobra.NoArgs,
	RunE:  runToday,
}

func runToday(cmd *cobra.Command, args []string) error {
	_, s := mustEnv()
	now := timecalc.Today()

	recs, err := s.FetchRecords(cmd.Context(), storage.Scope{From: now, To: now})
	if err != nil {
		fail(2, err)
	}
	return render.Summary(color.Output, aggregate.ForRecords(now, recs))
}
