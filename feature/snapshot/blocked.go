package snapshot

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"staysync/core/bookingapi"
	"staysync/core/config"
)

// Collector lists a property's blocked future nights from the booking
// platform. All bookings of the property's type count, whoever made them: a
// direct guest reservation blocks its nights just as an imported one does.
type Collector struct {
	store   bookingapi.Store
	loc     *time.Location
	horizon int
	logger  *zap.Logger
	now     func() time.Time
}

// NewCollector creates a blocked-night collector bounded by horizonDays.
func NewCollector(store bookingapi.Store, loc *time.Location, horizonDays int, logger *zap.Logger) *Collector {
	return &Collector{
		store:   store,
		loc:     loc,
		horizon: horizonDays,
		logger:  logger,
		now:     time.Now,
	}
}

// BlockedNights returns the sorted, deduplicated local dates of the
// property's blocked nights from today through the horizon.
func (c *Collector) BlockedNights(ctx context.Context, prop config.Property) ([]string, error) {
	local := c.now().In(c.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)

	bookings, err := c.store.ListRange(ctx, today, today.AddDate(0, 0, c.horizon))
	if err != nil {
		return nil, fmt.Errorf("list blocked nights for %q: %w", prop.Name, err)
	}

	todayISO := today.Format("2006-01-02")
	seen := make(map[string]struct{})
	for _, b := range bookings {
		if b.BookingTypeID != prop.BookingTypeID {
			continue
		}
		date, ok := b.LocalDate(c.loc)
		if !ok || date < todayISO {
			continue
		}
		seen[date] = struct{}{}
	}

	nights := make([]string, 0, len(seen))
	for date := range seen {
		nights = append(nights, date)
	}
	sort.Strings(nights)
	return nights, nil
}
