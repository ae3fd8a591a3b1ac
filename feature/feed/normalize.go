package feed

import (
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"staysync/core/config"
)

// Slot is one occupied night. Date (the local calendar date of the night) is
// the slot's identity everywhere downstream; the instants only matter when a
// booking has to be created.
type Slot struct {
	// Date is the night's local calendar date as YYYY-MM-DD.
	Date string
	// StartLocal is the night's check-in instant in the business timezone.
	StartLocal time.Time
	// StartUTC is StartLocal in UTC, truncated to whole seconds.
	StartUTC time.Time
}

// Normalizer expands reservation entries from a parsed feed into per-night
// slots keyed by local date.
type Normalizer struct {
	loc    *time.Location
	marker string
	logger *zap.Logger
}

// NewNormalizer creates a normalizer for the business timezone. marker is the
// case-insensitive substring an entry's summary must contain to count as a
// reservation.
func NewNormalizer(loc *time.Location, marker string, logger *zap.Logger) *Normalizer {
	return &Normalizer{loc: loc, marker: strings.ToLower(marker), logger: logger}
}

// Normalize turns a feed into the property's occupied-night set. Entries
// without the reservation marker are skipped. Each entry covers the nights
// [start, end) in local dates; an entry whose end does not land after its
// start still occupies its start night. When two entries claim the same
// night, the first one seen wins.
func (n *Normalizer) Normalize(cal *ics.Calendar, prop config.Property) map[string]Slot {
	slots := make(map[string]Slot)

	for _, ev := range cal.Events() {
		summary := propertyValue(ev, ics.ComponentPropertySummary)
		if !strings.Contains(strings.ToLower(summary), n.marker) {
			continue
		}

		start, err := parseFeedTime(ev.GetProperty(ics.ComponentPropertyDtStart), n.loc)
		if err != nil {
			n.logger.Warn("skipping feed entry with bad start",
				zap.String("property", prop.Name),
				zap.String("summary", summary),
				zap.Error(err))
			continue
		}
		end, err := parseFeedTime(ev.GetProperty(ics.ComponentPropertyDtEnd), n.loc)
		if err != nil {
			n.logger.Warn("skipping feed entry with bad end",
				zap.String("property", prop.Name),
				zap.String("summary", summary),
				zap.Error(err))
			continue
		}

		for _, day := range nights(start.In(n.loc), end.In(n.loc)) {
			slot := n.slotFor(day, prop.CheckInClock)
			if prev, ok := slots[slot.Date]; ok {
				n.logger.Warn("overlapping feed entries for night, keeping first",
					zap.String("property", prop.Name),
					zap.String("date", prev.Date))
				continue
			}
			slots[slot.Date] = slot
		}
	}

	return slots
}

// Dates returns the sorted local dates of a slot set.
func Dates(slots map[string]Slot) []string {
	out := make([]string, 0, len(slots))
	for d := range slots {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (n *Normalizer) slotFor(day time.Time, clock config.Clock) Slot {
	local := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour, clock.Minute, 0, 0, n.loc)
	return Slot{
		Date:       local.Format("2006-01-02"),
		StartLocal: local,
		StartUTC:   local.UTC().Truncate(time.Second),
	}
}

// nights lists the local dates in [start, end). A degenerate range still
// yields the start night so zero-length entries keep blocking their day.
func nights(start, end time.Time) []time.Time {
	startDay := dateOf(start)
	endDay := dateOf(end)
	if !endDay.After(startDay) {
		return []time.Time{startDay}
	}

	var days []time.Time
	for d := startDay; d.Before(endDay); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func propertyValue(ev *ics.VEvent, name ics.ComponentProperty) string {
	if p := ev.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

// parseFeedTime handles the three value forms feeds actually emit: date-only,
// floating local date-time, and UTC date-time. Floating values are read in
// the business timezone.
func parseFeedTime(p *ics.IANAProperty, loc *time.Location) (time.Time, error) {
	if p == nil || p.Value == "" {
		return time.Time{}, fmt.Errorf("missing date property")
	}
	v := strings.TrimSpace(p.Value)

	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
