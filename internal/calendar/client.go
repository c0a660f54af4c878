// Package calendar provides a minimal Google Calendar v3 client implementing
// schema.CalendarService.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/crystaldolphin/toogle/internal/schema"
)

const (
	DefaultBaseURL    = "https://www.googleapis.com/calendar/v3"
	DefaultCalendarID = "primary"
	DefaultTimeZone   = "UTC"

	defaultMaxResults = 10
	defaultTimeout    = 15 * time.Second
	maxErrorBody      = 64 << 10
)

// Options configures a Client.
type Options struct {
	BaseURL     string
	CalendarID  string
	TimeZone    string // IANA zone attached to created event times
	Timeout     time.Duration
	Credentials Credentials
	TokenURL    string           // overrides the OAuth token endpoint
	Now         func() time.Time // clock used for the timeMin filter
}

// Client talks to the Calendar REST API with OAuth2 bearer credentials.
type Client struct {
	baseURL    string
	calendarID string
	timeZone   string
	httpClient *http.Client
	credErr    error
	now        func() time.Time
}

// New returns a Client. Credential problems are not fatal here: they are
// reported by Configured and by every API call.
func New(opts Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		calendarID: opts.CalendarID,
		timeZone:   opts.TimeZone,
		now:        opts.Now,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.calendarID == "" {
		c.calendarID = DefaultCalendarID
	}
	if c.timeZone == "" {
		c.timeZone = DefaultTimeZone
	}
	if c.now == nil {
		c.now = time.Now
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ts, err := opts.Credentials.tokenSource(opts.TokenURL)
	if err != nil {
		c.credErr = err
		c.httpClient = &http.Client{Timeout: timeout}
		return c
	}
	c.httpClient = &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.ReuseTokenSource(nil, ts),
			Base:   http.DefaultTransport,
		},
	}
	return c
}

// Configured returns nil when usable credentials were found.
func (c *Client) Configured() error { return c.credErr }

// CalendarID returns the calendar the client operates on.
func (c *Client) CalendarID() string { return c.calendarID }

type apiEventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type apiEvent struct {
	Summary     string       `json:"summary"`
	Description string       `json:"description,omitempty"`
	Start       apiEventTime `json:"start"`
	End         apiEventTime `json:"end"`
}

func (e apiEvent) toEvent() schema.Event {
	start := e.Start.DateTime
	if start == "" {
		start = e.Start.Date
	}
	summary := e.Summary
	if summary == "" {
		summary = "(No title)"
	}
	return schema.Event{Summary: summary, Start: start}
}

// ListEvents returns upcoming events ordered by start time.
func (c *Client) ListEvents(ctx context.Context, maxResults int) ([]schema.Event, error) {
	if c.credErr != nil {
		return nil, c.credErr
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	q := url.Values{}
	q.Set("maxResults", strconv.Itoa(maxResults))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")
	q.Set("timeMin", c.now().UTC().Format(time.RFC3339))

	var list struct {
		Items []apiEvent `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, c.eventsURL()+"?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}

	events := make([]schema.Event, 0, len(list.Items))
	for _, it := range list.Items {
		events = append(events, it.toEvent())
	}
	return events, nil
}

// AddEvent creates an event and returns it as stored by the API.
func (c *Client) AddEvent(ctx context.Context, ev schema.NewEvent) (schema.Event, error) {
	if c.credErr != nil {
		return schema.Event{}, c.credErr
	}

	body := apiEvent{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       apiEventTime{DateTime: ev.StartTime, TimeZone: c.timeZone},
		End:         apiEventTime{DateTime: ev.EndTime, TimeZone: c.timeZone},
	}
	var created apiEvent
	if err := c.do(ctx, http.MethodPost, c.eventsURL(), body, &created); err != nil {
		return schema.Event{}, err
	}
	return created.toEvent(), nil
}

func (c *Client) eventsURL() string {
	return c.baseURL + "/calendars/" + url.PathEscape(c.calendarID) + "/events"
}

func (c *Client) do(ctx context.Context, method, reqURL string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode calendar response: %w", err)
	}
	return nil
}

// apiError builds an error from a non-2xx response, preferring the message in
// the API's error envelope.
func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &envelope) == nil && envelope.Error.Message != "" {
		msg = envelope.Error.Message
	}
	if msg == "" {
		return fmt.Errorf("calendar api: %s", resp.Status)
	}
	return fmt.Errorf("calendar api: %s: %s", resp.Status, msg)
}

var _ schema.CalendarService = (*Client)(nil)
