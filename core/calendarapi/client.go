package calendarapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Calendar defines the calendar operations the mirror reconciler needs.
type Calendar interface {
	// ListEvents returns single (non-recurring-expanded) events in
	// [timeMin, timeMax), ordered by start time.
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error)

	// InsertEvent creates an event and returns the stored representation.
	InsertEvent(ctx context.Context, calendarID string, ev *Event) (*Event, error)

	// DeleteEvent removes an event by id.
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// Client is the HTTP implementation of Calendar, scoped to a single run.
type Client struct {
	baseURL    string
	token      string
	maxResults int
	http       *http.Client
}

// NewClient creates a calendar service client.
func NewClient(cfg Config) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 2500
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		maxResults: maxResults,
		http:       &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error) {
	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(calendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("timeMin", timeMin.UTC().Format(time.RFC3339))
	q.Set("timeMax", timeMax.UTC().Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")
	q.Set("maxResults", strconv.Itoa(c.maxResults))
	req.URL.RawQuery = q.Encode()
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list events %s: %w", calendarID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("list events %s: status=%d body=%s", calendarID, resp.StatusCode, body)
	}

	var payload struct {
		Items []Event `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode events %s: %w", calendarID, err)
	}
	return payload.Items, nil
}

func (c *Client) InsertEvent(ctx context.Context, calendarID string, ev *Event) (*Event, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(calendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("insert event in %s: %w", calendarID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("insert event in %s: status=%d body=%s", calendarID, resp.StatusCode, respBody)
	}

	var created Event
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode inserted event: %w", err)
	}
	return &created, nil
}

func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s",
		c.baseURL, url.PathEscape(calendarID), url.PathEscape(eventID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete event %s from %s: %w", eventID, calendarID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("delete event %s from %s: status=%d body=%s", eventID, calendarID, resp.StatusCode, body)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if req.Method != http.MethodGet && req.Method != http.MethodDelete {
		req.Header.Set("Content-Type", "application/json")
	}
}
