package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/winstoncvm/jcal/internal/config"
	"github.com/winstoncvm/jcal/internal/period"
	"github.com/winstoncvm/jcal/internal/render"
	"github.com/winstoncvm/jcal/internal/storage"
	"github.com/winstoncvm/jcal/internal/view"
)

const clearScreen = "\033[H\033[2J"

var (
	dayDate   string
	dayOffset int
	dayWatch  bool
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Show the focus+context timeline for one day",
	Args:  cobra.NoArgs,
	RunE:  runDay,
}

func init() {
	dayCmd.Flags().StringVar(&dayDate, "date", "", "Day to show (YYYY-MM-DD); defaults to today")
	dayCmd.Flags().IntVar(&dayOffset, "offset", 0, "Move forward (positive) or back (negative) this many days")
	dayCmd.Flags().BoolVar(&dayWatch, "watch", false, "Redraw whenever stored records change")
}

func runDay(cmd *cobra.Command, args []string) error {
	cfg, s := mustEnv()
	st := navState(period.KindDay, dayDate, dayOffset)
	ctx := cmd.Context()

	if !dayWatch {
		return drawDay(ctx, color.Output, cfg, s, st)
	}

	changes, err := s.Watch(ctx)
	if err != nil {
		fail(2, err)
	}
	for {
		fmt.Fprint(color.Output, clearScreen)
		if err := drawDay(ctx, color.Output, cfg, s, st); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
		}
	}
}

func drawDay(ctx context.Context, w io.Writer, cfg config.Config, s *storage.Store, st view.State) error {
	d := composer(cfg).Day(st, fetchView(ctx, s, st))
	return render.Day(w, d, render.DayOptions{
		Width:  terminalWidth(),
		LinePx: cfg.Layout.CompactRow,
	})
}

// terminalWidth returns the stdout width, or 0 when stdout is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
