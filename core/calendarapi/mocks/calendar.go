package mocks

import (
	"context"
	"time"

	"staysync/core/calendarapi"

	"github.com/stretchr/testify/mock"
)

// Calendar is a mock implementation of calendarapi.Calendar
type Calendar struct {
	mock.Mock
}

func (m *Calendar) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]calendarapi.Event, error) {
	args := m.Called(ctx, calendarID, timeMin, timeMax)
	if events, ok := args.Get(0).([]calendarapi.Event); ok {
		return events, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Calendar) InsertEvent(ctx context.Context, calendarID string, ev *calendarapi.Event) (*calendarapi.Event, error) {
	args := m.Called(ctx, calendarID, ev)
	if created, ok := args.Get(0).(*calendarapi.Event); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Calendar) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	args := m.Called(ctx, calendarID, eventID)
	return args.Error(0)
}
