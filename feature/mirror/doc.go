// Package mirror projects a property's principal calendar onto its mirror
// calendar as all-day blocking events, so the feed's origin platform sees the
// nights as unavailable.
//
// Feedback loops are the central hazard: the principal calendar also holds
// events the origin platform itself created from the feed. Those are detected
// by origin (platform name in the summary and in a participant email) and
// never mirrored back. Every event the mirror reconciler creates is tagged in
// its private property bag, and only tagged events are ever deleted.
package mirror
