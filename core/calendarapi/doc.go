// Package calendarapi provides a client for the calendar service's REST API.
//
// The mirror reconciler reads the principal calendar (where the booking
// platform writes confirmed reservations) and writes all-day block events to
// the mirror calendar. Events carry a private-properties bag that the engine
// uses to tag the mirror events it owns; that tag is the only signal future
// runs use to recognize engine-owned events.
//
// Credential acquisition is outside this package: callers hand a ready
// bearer token to NewClient, scoped to a single run.
package calendarapi
