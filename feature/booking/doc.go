// Package booking converges the booking platform with a property's occupied
// nights.
//
// The engine only ever touches bookings it created itself: a booking is
// managed when it belongs to the property's booking type and carries the
// property's imported-contact email. Guest bookings made directly on the
// platform are never created, cancelled, or counted by the reconciler.
//
// Each run is a pure diff. Nights present in the feed but without a managed
// booking get one created; managed bookings whose night left the feed get
// cancelled. Running twice in a row changes nothing the second time.
package booking
