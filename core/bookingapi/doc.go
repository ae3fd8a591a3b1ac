// Package bookingapi provides a client for the booking platform's REST API.
//
// The engine treats the booking platform as the system of record for
// reservations: it lists bookings over a date window, creates bookings for
// imported feed nights, and cancels bookings that disappeared from the feed.
//
// # Quirks
//
// The upstream API rejects most filter combinations with 422, so listing
// sends only starts_at + page and filters client-side (date window, cancelled
// flag). Pagination carries a hard page ceiling to defend against a
// misbehaving upstream.
//
// # Outcomes
//
// Expected non-error outcomes are modeled as sentinels or absorbed:
//   - Create on an occupied slot returns ErrSlotUnavailable (HTTP 409).
//   - Cancel of an already-cancelled booking succeeds (HTTP 400 is absorbed).
package bookingapi
