// Package feed fetches a property's raw availability feed (iCal) and
// normalizes its multi-day entries into canonical per-night occupancy slots.
//
// Only entries whose label marks an actual reservation become slots;
// blocking-only entries ("Not available" and friends) are intentionally
// excluded so they never turn into bookings. Each qualifying entry expands
// into one slot per night in [start, end), and each slot's UTC start instant
// is derived from the property's local check-in time in the business
// timezone.
//
// The local calendar date is the slot's stable identity downstream, not the
// exact instant.
package feed
