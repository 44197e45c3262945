package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/winstoncvm/jcal/internal/config"
	"github.com/winstoncvm/jcal/internal/msgraph"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

var (
	outlookSyncFrom   string
	outlookSyncTo     string
	outlookSyncDate   string
	outlookSyncDryRun bool
	outlookSyncTZ     string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Outlook calendar events as journal entries",
	Args:  cobra.NoArgs,
	RunE:  runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (e.g. Europe/Berlin); overrides outlook.timezone")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncRange resolves the --date / --from / --to combination.
func syncRange(date, from, to string, today timecalc.Date) (timecalc.Date, timecalc.Date, error) {
	switch {
	case date != "":
		d, err := parseOptionalDate("date", date, today)
		return d, d, err
	case from != "" || to != "":
		if from == "" {
			return timecalc.Date{}, timecalc.Date{}, fmt.Errorf("--from is required when --to is specified")
		}
		f, err := parseOptionalDate("from", from, today)
		if err != nil {
			return timecalc.Date{}, timecalc.Date{}, err
		}
		t, err := parseOptionalDate("to", to, today)
		if err != nil {
			return timecalc.Date{}, timecalc.Date{}, err
		}
		if t.Before(f) {
			return timecalc.Date{}, timecalc.Date{}, fmt.Errorf("--to %s is before --from %s", t, f)
		}
		return f, t, nil
	default:
		return today, today, nil
	}
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	from, to, err := syncRange(outlookSyncDate, outlookSyncFrom, outlookSyncTo, timecalc.Today())
	if err != nil {
		fail(1, err)
	}

	cfg, s := mustEnv()
	timezone := cfg.Outlook.Timezone
	if outlookSyncTZ != "" {
		timezone = outlookSyncTZ
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing Outlook events (%s → %s)%s...\n\n", from, to, dryTag)

	ctx := cmd.Context()

	loc := time.UTC
	if timezone != "" {
		if loc, err = time.LoadLocation(timezone); err != nil {
			fail(1, fmt.Errorf("invalid timezone %q: %w", timezone, err))
		}
	}

	home, err := config.Dir()
	if err != nil {
		fail(2, err)
	}
	ts, err := msgraph.NewAccount(cfg.Outlook, home, os.Stdout).TokenSource(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		os.Exit(1)
	}

	events, err := msgraph.NewCalendar(ctx, ts, loc).Events(ctx, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch calendar events: %v\n", err)
		os.Exit(1)
	}

	result, err := msgraph.SyncEvents(ctx, events, msgraph.SyncOptions{
		Store:    s,
		From:     from,
		To:       to,
		DryRun:   outlookSyncDryRun,
		Timezone: timezone,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sync error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d imported\n", result.Imported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	fmt.Printf("  %d updated\n", result.Updated)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		os.Exit(2)
	}
	return nil
}
