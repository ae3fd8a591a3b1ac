// Package sync orchestrates one full reconciliation run across every
// configured property: fetch and normalize the feed, converge the booking
// platform, converge the mirror calendar, then publish the availability
// snapshot.
//
// Failure containment is per property. One property's feed being unreachable
// marks that property failed and moves on; it never stops the others. The
// snapshot push happens after all properties and is itself non-fatal.
package sync
