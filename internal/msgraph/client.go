package msgraph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/oauth2"

	"github.com/winstoncvm/jcal/internal/timecalc"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// eventFields are the event properties sync reads.
const eventFields = "id,subject,isAllDay,isCancelled,sensitivity,showAs,start,end"

// Calendar reads the signed-in user's Outlook calendar, with event times
// expressed in loc.
type Calendar struct {
	http    *http.Client
	baseURL string
	loc     *time.Location
}

// NewCalendar authenticates Graph requests with ts.
func NewCalendar(ctx context.Context, ts oauth2.TokenSource, loc *time.Location) *Calendar {
	return NewCalendarWithHTTP(oauth2.NewClient(ctx, ts), graphBaseURL, loc)
}

// NewCalendarWithHTTP sends requests through hc to baseURL unchanged.
func NewCalendarWithHTTP(hc *http.Client, baseURL string, loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{http: hc, baseURL: baseURL, loc: loc}
}

// DateTimeTimeZone is Graph's zoned local time.
type DateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// CalendarEvent is the subset of a Graph event that becomes a journal entry.
type CalendarEvent struct {
	ID          string           `json:"id"`
	Subject     string           `json:"subject"`
	IsAllDay    bool             `json:"isAllDay"`
	IsCancelled bool             `json:"isCancelled"`
	Sensitivity string           `json:"sensitivity"`
	ShowAs      string           `json:"showAs"`
	Start       DateTimeTimeZone `json:"start"`
	End         DateTimeTimeZone `json:"end"`
}

type eventPage struct {
	Value    []CalendarEvent `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

// Events returns every event starting on a journal day in [from, to],
// following Graph's paging links.
func (c *Calendar) Events(ctx context.Context, from, to timecalc.Date) ([]CalendarEvent, error) {
	q := url.Values{}
	q.Set("startDateTime", from.In(c.loc).UTC().Format(time.RFC3339))
	q.Set("endDateTime", to.AddDays(1).In(c.loc).UTC().Format(time.RFC3339))
	q.Set("$select", eventFields)
	q.Set("$top", "100")

	var events []CalendarEvent
	for next := c.baseURL + "/me/calendarView?" + q.Encode(); next != ""; {
		page, err := c.page(ctx, next)
		if err != nil {
			return nil, err
		}
		events = append(events, page.Value...)
		next = page.NextLink
	}
	return events, nil
}

func (c *Calendar) page(ctx context.Context, link string) (eventPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return eventPage{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Prefer", fmt.Sprintf(`outlook.timezone="%s"`, c.loc))

	resp, err := c.http.Do(req)
	if err != nil {
		return eventPage{}, fmt.Errorf("graph API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return eventPage{}, fmt.Errorf("graph API error %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var page eventPage
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&page); err != nil {
		return eventPage{}, fmt.Errorf("decoding graph response: %w", err)
	}
	return page, nil
}
