package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ErrSlotUnavailable is returned by Create when the platform rejects the
// requested start instant with a conflict (the slot is already taken).
var ErrSlotUnavailable = errors.New("bookingapi: slot unavailable")

// Store defines the booking operations the reconciliation engine needs.
type Store interface {
	// ListRange returns non-cancelled bookings whose UTC start date falls in
	// [start, end). start and end are treated as UTC calendar dates.
	ListRange(ctx context.Context, start, end time.Time) ([]Booking, error)

	// Create books the given UTC start instant under the booking type,
	// tagged with the contact identity. Returns ErrSlotUnavailable when the
	// slot is already occupied.
	Create(ctx context.Context, bookingTypeID int, startsAt time.Time, name, email string) error

	// Cancel cancels a booking by id. Cancelling an already-cancelled
	// booking is a success.
	Cancel(ctx context.Context, bookingID int, reason string) error
}

// Client is the HTTP implementation of Store. It is scoped to a single run:
// callers construct one per sync and do not share it across runs.
type Client struct {
	baseURL  string
	token    string
	timezone string
	maxPages int
	http     *http.Client
	logger   *zap.Logger
}

// NewClient creates a booking platform client. timezone is the business
// timezone name sent with create requests so the platform renders local
// times correctly.
func NewClient(cfg Config, timezone string, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 50
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		token:    cfg.Token,
		timezone: timezone,
		maxPages: maxPages,
		http:     &http.Client{Timeout: time.Duration(timeout) * time.Second},
		logger:   logger,
	}
}

// ListRange lists bookings page by page starting at the window's first day.
// A transport failure mid-pagination stops the loop and returns what was
// collected so far; the caller's diff self-heals on the next run.
func (c *Client) ListRange(ctx context.Context, start, end time.Time) ([]Booking, error) {
	startDay := dateUTC(start)
	endDay := dateUTC(end)
	startsAt := startDay.Format(time.RFC3339)

	var all []Booking
	for page := 1; ; page++ {
		items, err := c.listPage(ctx, startsAt, page)
		if err != nil {
			c.logger.Warn("booking list page failed, stopping pagination",
				zap.Int("page", page), zap.Error(err))
			break
		}
		if len(items) == 0 {
			break
		}
		all = append(all, items...)

		if page >= c.maxPages {
			c.logger.Warn("booking list hit page ceiling", zap.Int("max_pages", c.maxPages))
			break
		}
	}

	// Client-side filtering: the API returns 422 when range or cancelled
	// filters are combined with starts_at, so we only sent starts_at + page.
	filtered := make([]Booking, 0, len(all))
	for _, b := range all {
		if b.CancelledAt != nil && *b.CancelledAt != "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, b.StartsAt)
		if err != nil {
			continue
		}
		day := dateUTC(t.UTC())
		if day.Before(startDay) || !day.Before(endDay) {
			continue
		}
		filtered = append(filtered, b)
	}

	return filtered, nil
}

func (c *Client) listPage(ctx context.Context, startsAt string, page int) ([]Booking, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/bookings", nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("starts_at", startsAt)
	q.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = q.Encode()
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("list bookings page %d: status=%d body=%s", page, resp.StatusCode, body)
	}

	var payload struct {
		Data []Booking `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode bookings page %d: %w", page, err)
	}
	return payload.Data, nil
}

// Create books one night. The platform expects starts_at in UTC.
func (c *Client) Create(ctx context.Context, bookingTypeID int, startsAt time.Time, name, email string) error {
	payload := map[string]any{
		"starts_at":         startsAt.UTC().Truncate(time.Second).Format(time.RFC3339),
		"name":              name,
		"email":             email,
		"timezone":          c.timezone,
		"booking_questions": []any{},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/booking-types/%d/bookings", c.baseURL, bookingTypeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		return ErrSlotUnavailable
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("create booking: status=%d body=%s", resp.StatusCode, respBody)
	}
}

// Cancel cancels a booking. The platform answers 400 when the booking is
// already cancelled; that outcome counts as success.
func (c *Client) Cancel(ctx context.Context, bookingID int, reason string) error {
	body, err := json.Marshal(map[string]string{"reason": reason})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bookings/%d/cancel", c.baseURL, bookingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("cancel booking %d: %w", bookingID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		c.logger.Info("booking already cancelled", zap.Int("booking_id", bookingID))
		return nil
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("cancel booking %d: status=%d body=%s", bookingID, resp.StatusCode, respBody)
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
}

// dateUTC truncates an instant to its UTC calendar date.
func dateUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
