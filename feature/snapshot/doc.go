// Package snapshot publishes a public availability view: per property, the
// future nights that are blocked, plus the descriptive metadata a booking
// site needs to render the listing.
//
// The snapshot is derived output. It is rebuilt from scratch on every run and
// pushed whole to object storage; a failed push is logged and never fails the
// run that produced it.
package snapshot
