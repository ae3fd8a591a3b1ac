package mocks

import (
	"context"
	"time"

	"staysync/core/bookingapi"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of bookingapi.Store
type Store struct {
	mock.Mock
}

func (m *Store) ListRange(ctx context.Context, start, end time.Time) ([]bookingapi.Booking, error) {
	args := m.Called(ctx, start, end)
	if bookings, ok := args.Get(0).([]bookingapi.Booking); ok {
		return bookings, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) Create(ctx context.Context, bookingTypeID int, startsAt time.Time, name, email string) error {
	args := m.Called(ctx, bookingTypeID, startsAt, name, email)
	return args.Error(0)
}

func (m *Store) Cancel(ctx context.Context, bookingID int, reason string) error {
	args := m.Called(ctx, bookingID, reason)
	return args.Error(0)
}
