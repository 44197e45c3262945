package msgraph

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/storage"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

// SourceOutlook marks entries imported from an Outlook calendar.
const SourceOutlook = "outlook"

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
}

// SyncOptions configures a sync run. From and To, when set, bound the days
// searched for previously imported entries so moved events are detected.
type SyncOptions struct {
	Store    *storage.Store
	From     timecalc.Date
	To       timecalc.Date
	DryRun   bool
	Timezone string
	Out      io.Writer // progress lines; nil means stdout
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

func location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: unknown timezone %q, using UTC\n", tz)
		return time.UTC
	}
	return loc
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event CalendarEvent) bool {
	switch {
	case event.IsCancelled, event.IsAllDay:
		return true
	case event.Sensitivity == "private":
		return true
	case event.ShowAs == "free":
		return true
	case event.Start.DateTime == "":
		return true
	}
	return false
}

// MapEventToEntry converts a Graph CalendarEvent into a journal entry dated on
// the event's local start day.
func MapEventToEntry(event CalendarEvent, timezone string) (model.Entry, error) {
	start, err := parseGraphTime(event.Start.DateTime, location(timezone))
	if err != nil {
		return model.Entry{}, fmt.Errorf("parsing start time: %w", err)
	}
	clock := timecalc.Clock{Hour: start.Hour(), Minute: start.Minute()}.String()
	return model.Entry{
		ID:         timecalc.GenerateID(start),
		Date:       timecalc.DateOf(start),
		Time:       &clock,
		Title:      event.Subject,
		Source:     SourceOutlook,
		ExternalID: event.ID,
	}, nil
}

func sameContent(a, b model.Entry) bool {
	return a.Title == b.Title && a.Date.Equal(b.Date) &&
		a.Time != nil && b.Time != nil && *a.Time == *b.Time
}

// SyncEvents writes events into the store as entries, matching earlier imports
// by external ID. Manual entries are never touched.
func SyncEvents(ctx context.Context, events []CalendarEvent, opts SyncOptions) (SyncResult, error) {
	var result SyncResult
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	known := map[string]model.Entry{}
	if !opts.From.IsZero() && !opts.To.IsZero() {
		entries, err := opts.Store.LoadRange(opts.From, opts.To)
		if err != nil {
			return result, err
		}
		for _, e := range entries {
			if e.ExternalID != "" {
				known[e.ExternalID] = e
			}
		}
	}

	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if shouldSkip(event) {
			continue
		}

		entry, err := MapEventToEntry(event, opts.Timezone)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}

		found, ok := known[event.ID]
		if !ok {
			existing, err := opts.Store.FindByExternalID(entry.Date, event.ID)
			if err != nil {
				fmt.Fprintf(out, "  ! Error loading day for %q: %v\n", event.Subject, err)
				result.Errors++
				continue
			}
			if existing != nil {
				found, ok = *existing, true
			}
		}

		if ok && sameContent(found, entry) {
			fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", event.Subject)
			result.Skipped++
			continue
		}

		if ok {
			entry.ID = found.ID
			entry.Mood, entry.Rating, entry.Image = found.Mood, found.Rating, found.Image
			if !opts.DryRun {
				if !found.Date.Equal(entry.Date) {
					if err := opts.Store.Delete(ctx, found.ID); err != nil {
						fmt.Fprintf(out, "  ! Error moving %q: %v\n", event.Subject, err)
						result.Errors++
						continue
					}
				}
				if err := opts.Store.UpdateEntry(entry); err != nil {
					fmt.Fprintf(out, "  ! Error updating %q: %v\n", event.Subject, err)
					result.Errors++
					continue
				}
			}
			fmt.Fprintf(out, "  ↑ Updated:  %s %s %s\n", entry.Date, *entry.Time, event.Subject)
			result.Updated++
			continue
		}

		if !opts.DryRun {
			if err := opts.Store.UpdateEntry(entry); err != nil {
				fmt.Fprintf(out, "  ! Error saving %q: %v\n", event.Subject, err)
				result.Errors++
				continue
			}
		}
		fmt.Fprintf(out, "  ✓ Imported: %s %s %s\n", entry.Date, *entry.Time, event.Subject)
		result.Imported++
	}

	return result, nil
}
