package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"staysync/core/bookingapi"
	"staysync/core/config"
	"staysync/feature/feed"
)

// Stats counts what one reconciliation run actually did.
type Stats struct {
	Created   int `json:"created"`
	Cancelled int `json:"cancelled"`
	Errors    int `json:"errors"`
}

// Reconciler diffs a property's occupied nights against its managed bookings
// on the platform and applies the difference.
type Reconciler struct {
	store    bookingapi.Store
	loc      *time.Location
	horizon  int
	platform string
	logger   *zap.Logger
	now      func() time.Time
}

// NewReconciler creates a booking reconciler. horizonDays bounds how far into
// the future managed bookings are listed; platform names the feed's origin in
// generated booking text.
func NewReconciler(store bookingapi.Store, loc *time.Location, horizonDays int, platform string, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		store:    store,
		loc:      loc,
		horizon:  horizonDays,
		platform: platform,
		logger:   logger,
		now:      time.Now,
	}
}

// Reconcile converges the platform with the given slot set. A listing failure
// aborts the property's run; individual create/cancel failures are counted
// and the run continues. Every date in the listing window participates in the
// diff, including dates already behind today when the feed still carries them.
func (r *Reconciler) Reconcile(ctx context.Context, prop config.Property, slots map[string]feed.Slot) (Stats, error) {
	var stats Stats

	if prop.BookingTypeID == 0 || prop.ContactEmail == "" {
		return stats, fmt.Errorf("property %q is missing booking_type_id or contact_email", prop.Name)
	}

	today := midnight(r.now().In(r.loc))
	start, end := r.window(today, slots)

	bookings, err := r.store.ListRange(ctx, start, end)
	if err != nil {
		return stats, fmt.Errorf("list bookings for %q: %w", prop.Name, err)
	}

	managed := r.managedByDate(prop, bookings)

	for _, date := range r.datesToCreate(slots, managed) {
		slot := slots[date]
		name := fmt.Sprintf("Imported %s stay - %s", r.platform, date)
		err := r.store.Create(ctx, prop.BookingTypeID, slot.StartUTC, name, prop.ContactEmail)
		switch {
		case errors.Is(err, bookingapi.ErrSlotUnavailable):
			stats.Errors++
			r.logger.Warn("slot already taken on platform",
				zap.String("property", prop.Name),
				zap.String("date", date))
		case err != nil:
			stats.Errors++
			r.logger.Error("create booking failed",
				zap.String("property", prop.Name),
				zap.String("date", date),
				zap.Error(err))
		default:
			stats.Created++
			r.logger.Info("created booking",
				zap.String("property", prop.Name),
				zap.String("date", date))
		}
	}

	for _, b := range r.bookingsToCancel(slots, managed) {
		date, _ := b.LocalDate(r.loc)
		reason := fmt.Sprintf("Night %s no longer present in %s feed", date, r.platform)
		if err := r.store.Cancel(ctx, b.ID, reason); err != nil {
			stats.Errors++
			r.logger.Error("cancel booking failed",
				zap.String("property", prop.Name),
				zap.String("date", date),
				zap.Int("booking_id", b.ID),
				zap.Error(err))
			continue
		}
		stats.Cancelled++
		r.logger.Info("cancelled booking",
			zap.String("property", prop.Name),
			zap.String("date", date),
			zap.Int("booking_id", b.ID))
	}

	return stats, nil
}

// window is the listing range: from today (or the earliest slot, if the feed
// still carries past nights) through the horizon or the latest slot,
// whichever is farther.
func (r *Reconciler) window(today time.Time, slots map[string]feed.Slot) (time.Time, time.Time) {
	start := today
	end := today.AddDate(0, 0, r.horizon)

	for _, date := range feed.Dates(slots) {
		d, err := time.ParseInLocation("2006-01-02", date, r.loc)
		if err != nil {
			continue
		}
		if d.Before(start) {
			start = d
		}
		if next := d.AddDate(0, 0, 1); next.After(end) {
			end = next
		}
	}
	return start, end
}

// managedByDate indexes the property's managed bookings by local date. When
// the platform somehow holds two managed bookings for one night, the first
// listed wins and the duplicate is ignored.
func (r *Reconciler) managedByDate(prop config.Property, bookings []bookingapi.Booking) map[string]bookingapi.Booking {
	managed := make(map[string]bookingapi.Booking)
	for _, b := range bookings {
		if !r.isManaged(prop, b) {
			continue
		}
		date, ok := b.LocalDate(r.loc)
		if !ok {
			continue
		}
		if _, dup := managed[date]; dup {
			r.logger.Warn("duplicate managed booking for night, keeping first",
				zap.String("property", prop.Name),
				zap.String("date", date),
				zap.Int("booking_id", b.ID))
			continue
		}
		managed[date] = b
	}
	return managed
}

func (r *Reconciler) isManaged(prop config.Property, b bookingapi.Booking) bool {
	return b.BookingTypeID == prop.BookingTypeID &&
		strings.EqualFold(b.Contact.Email, prop.ContactEmail)
}

func (r *Reconciler) datesToCreate(slots map[string]feed.Slot, managed map[string]bookingapi.Booking) []string {
	var out []string
	for _, date := range feed.Dates(slots) {
		if _, ok := managed[date]; ok {
			continue
		}
		out = append(out, date)
	}
	return out
}

// bookingsToCancel diffs against the deduplicated managed index, so a
// duplicate managed booking on a vanished night is left alone along with
// being ignored for coverage: only the tracked booking is ever cancelled.
func (r *Reconciler) bookingsToCancel(slots map[string]feed.Slot, managed map[string]bookingapi.Booking) []bookingapi.Booking {
	var out []bookingapi.Booking
	for date, b := range managed {
		if _, keep := slots[date]; keep {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		di, _ := out[i].LocalDate(r.loc)
		dj, _ := out[j].LocalDate(r.loc)
		return di < dj
	})
	return out
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
