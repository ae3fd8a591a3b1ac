package mirror

import (
	"crypto/sha1"
	"encoding/hex"

	"staysync/core/calendarapi"
)

// StableKey derives a deterministic identity for a source event from its
// start, end and summary. Calendar event ids are not usable here: the same
// logical block gets a fresh id every time the booking platform rewrites it,
// while the key below survives rewrites that keep the event's substance.
func StableKey(ev calendarapi.Event) string {
	h := sha1.New()
	h.Write([]byte(ev.Start.Value()))
	h.Write([]byte("|"))
	h.Write([]byte(ev.End.Value()))
	h.Write([]byte("|"))
	h.Write([]byte(ev.Summary))
	return hex.EncodeToString(h.Sum(nil))
}
