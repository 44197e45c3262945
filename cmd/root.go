package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/winstoncvm/jcal/internal/config"
	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/period"
	"github.com/winstoncvm/jcal/internal/storage"
	"github.com/winstoncvm/jcal/internal/timecalc"
	"github.com/winstoncvm/jcal/internal/view"
)

var rootCmd = &cobra.Command{
	Use:   "jcal",
	Short: "jcal – a journal calendar for entries, goals and routines",
	Long: `jcal shows diary entries, date-range goals and recurring routines on a
month grid, a week list or a focus+context day timeline.
All data is stored as human-readable JSON files in ~/.jcal/data/.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(outlookCmd)
	rootCmd.AddCommand(versionCmd)
}

// fail prints err to stderr and exits: 1 for bad input, 2 for storage and IO.
func fail(code int, err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}

// mustEnv loads the config and opens the store, exiting on failure.
func mustEnv() (config.Config, *storage.Store) {
	cfg, err := config.Load()
	if err != nil {
		fail(2, err)
	}
	return cfg, storage.Open(cfg.Storage.Path)
}

// mustDate parses a --date style flag value; empty means today.
func mustDate(flag, value string) timecalc.Date {
	if value == "" {
		return timecalc.Today()
	}
	d, err := timecalc.ParseDate(value)
	if err != nil {
		fail(1, fmt.Errorf("invalid --%s value %q: %w", flag, value, err))
	}
	return d
}

func composer(cfg config.Config) *view.Composer {
	return &view.Composer{Limits: cfg.Limits(), Layout: cfg.LayoutConfig()}
}

// fetchView loads exactly the records the state's view covers.
func fetchView(ctx context.Context, s *storage.Store, st view.State) model.Records {
	from, to := st.Range()
	recs, err := s.FetchRecords(ctx, storage.Scope{From: from, To: to})
	if err != nil {
		fail(2, err)
	}
	return recs
}

// navState builds the state for kind around --date, moved by --offset views.
func navState(kind period.Kind, date string, offset int) view.State {
	st := view.NewState(kind, mustDate("date", date))
	for ; offset > 0; offset-- {
		st = st.Next()
	}
	for ; offset < 0; offset++ {
		st = st.Prev()
	}
	return st
}
