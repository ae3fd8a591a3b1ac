package bookingapi

import "time"

// Contact identifies the person a booking was made for.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Booking is a reservation as the booking platform reports it.
// The engine never owns bookings; it only reads, creates and cancels them.
type Booking struct {
	ID            int     `json:"id"`
	BookingTypeID int     `json:"booking_type_id"`
	StartsAt      string  `json:"starts_at"`
	CancelledAt   *string `json:"cancelled_at"`
	Contact       Contact `json:"contact"`
}

// LocalDate converts the booking's UTC start instant into a calendar date in
// the given location, formatted as YYYY-MM-DD. ok is false when starts_at is
// missing or unparseable.
func (b Booking) LocalDate(loc *time.Location) (string, bool) {
	if b.StartsAt == "" {
		return "", false
	}
	t, err := time.Parse(time.RFC3339, b.StartsAt)
	if err != nil {
		return "", false
	}
	return t.In(loc).Format("2006-01-02"), true
}
