package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

// Fetcher downloads and parses availability feeds. A fetch failure is fatal
// for the property's run: without the feed there is nothing to diff against.
type Fetcher struct {
	client *http.Client
	logger *zap.Logger
}

// NewFetcher creates a feed fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration, logger *zap.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch downloads the feed at feedURL and parses it as an iCal document.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (*ics.Calendar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}

	f.logger.Info("fetching availability feed", zap.String("url", redactURL(feedURL)))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: status=%d", resp.StatusCode)
	}

	cal, err := ics.ParseCalendar(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return cal, nil
}

// redactURL hides the path and query of a feed URL. Feed URLs embed
// per-property secrets, so only the host may reach the logs.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "feed://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
