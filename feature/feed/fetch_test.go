package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleFeed = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\nUID:f1\r\nSUMMARY:Reserved\r\n" +
	"DTSTART;VALUE=DATE:20250320\r\nDTEND;VALUE=DATE:20250322\r\nEND:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/calendar")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, zap.NewNop())
	cal, err := f.Fetch(context.Background(), srv.URL+"/feed.ics?s=secret")

	require.NoError(t, err)
	assert.Len(t, cal.Events(), 1)
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, zap.NewNop())
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not a calendar"))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, zap.NewNop())
	_, err := f.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestRedactURL(t *testing.T) {
	redacted := redactURL("https://feeds.example.com/cabin.ics?s=secrettoken")
	assert.NotContains(t, redacted, "secrettoken")
	assert.Contains(t, redacted, "feeds.example.com")
}
