package mirror

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"staysync/core/calendarapi"
	"staysync/core/config"
)

// Private-bag keys marking events this reconciler owns.
const (
	tagOrigin        = "origin"
	tagOriginDerived = "derived"
	tagProperty      = "property"
	tagMirrorKey     = "mirror_key"
	tagSrcCalendar   = "src_calendar_id"
)

// blockedPrefix marks mirror summaries so they read as blocks, not stays.
const blockedPrefix = "[Blocked] "

// Stats counts what one mirror run actually did.
type Stats struct {
	Created int `json:"created"`
	Deleted int `json:"deleted"`
	Errors  int `json:"errors"`
}

// Reconciler converges a property's mirror calendar with its principal
// calendar.
type Reconciler struct {
	cal      calendarapi.Calendar
	loc      *time.Location
	horizon  int
	platform string
	logger   *zap.Logger
	now      func() time.Time
}

// NewReconciler creates a mirror reconciler. platform names the feed's origin
// platform, used to recognize (and never re-mirror) its own events.
func NewReconciler(cal calendarapi.Calendar, loc *time.Location, horizonDays int, platform string, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		cal:      cal,
		loc:      loc,
		horizon:  horizonDays,
		platform: platform,
		logger:   logger,
		now:      time.Now,
	}
}

// Reconcile projects the principal calendar's relevant events onto the mirror
// calendar. Listing failures abort the property's mirror run; individual
// create/delete failures are counted and the run continues. Only events the
// reconciler tagged as its own are ever deleted from the mirror.
func (r *Reconciler) Reconcile(ctx context.Context, prop config.Property) (Stats, error) {
	var stats Stats

	if prop.MirrorCalendarID == "" {
		return stats, nil
	}
	if prop.CalendarID == prop.MirrorCalendarID {
		// Mirroring a calendar onto itself would cascade on every run.
		r.logger.Warn("mirror calendar equals principal calendar, skipping",
			zap.String("property", prop.Name))
		return stats, nil
	}

	today := time.Date(r.now().In(r.loc).Year(), r.now().In(r.loc).Month(), r.now().In(r.loc).Day(), 0, 0, 0, 0, r.loc)
	timeMax := today.AddDate(0, 0, r.horizon)

	srcEvents, err := r.cal.ListEvents(ctx, prop.CalendarID, today, timeMax)
	if err != nil {
		stats.Errors++
		return stats, fmt.Errorf("list principal calendar for %q: %w", prop.Name, err)
	}
	dstEvents, err := r.cal.ListEvents(ctx, prop.MirrorCalendarID, today, timeMax)
	if err != nil {
		stats.Errors++
		return stats, fmt.Errorf("list mirror calendar for %q: %w", prop.Name, err)
	}

	owned := ownedByKey(dstEvents)
	desired := r.desiredByKey(prop, srcEvents)

	for _, key := range sortedKeys(desired) {
		want := desired[key]
		have, ok := owned[key]
		if ok && mirrorsEqual(have, want) {
			continue
		}
		if ok {
			if err := r.cal.DeleteEvent(ctx, prop.MirrorCalendarID, have.ID); err != nil {
				stats.Errors++
				r.logger.Error("replace mirror block: delete failed",
					zap.String("property", prop.Name),
					zap.String("mirror_key", key),
					zap.Error(err))
				continue
			}
			stats.Deleted++
		}
		if _, err := r.cal.InsertEvent(ctx, prop.MirrorCalendarID, want); err != nil {
			stats.Errors++
			r.logger.Error("create mirror block failed",
				zap.String("property", prop.Name),
				zap.String("mirror_key", key),
				zap.Error(err))
			continue
		}
		stats.Created++
	}

	// Sweep blocks whose source event vanished.
	for _, key := range sortedKeys(owned) {
		if _, still := desired[key]; still {
			continue
		}
		ev := owned[key]
		if err := r.cal.DeleteEvent(ctx, prop.MirrorCalendarID, ev.ID); err != nil {
			stats.Errors++
			r.logger.Error("sweep mirror block failed",
				zap.String("property", prop.Name),
				zap.String("mirror_key", key),
				zap.Error(err))
			continue
		}
		stats.Deleted++
		r.logger.Info("swept orphaned mirror block",
			zap.String("property", prop.Name),
			zap.String("mirror_key", key))
	}

	return stats, nil
}

// desiredByKey maps source events to the mirror blocks they should produce.
// Cancelled events, events without a start, already-derived events and
// feed-origin events produce nothing.
func (r *Reconciler) desiredByKey(prop config.Property, srcEvents []calendarapi.Event) map[string]*calendarapi.Event {
	desired := make(map[string]*calendarapi.Event)
	for _, src := range srcEvents {
		if src.Status == "cancelled" || src.Start.Value() == "" {
			continue
		}
		if src.Private()[tagOrigin] == tagOriginDerived {
			continue
		}
		if FromFeed(src, r.platform) {
			// This event IS the feed; mirroring it back would loop.
			continue
		}

		day, ok := r.localDate(src.Start.Value())
		if !ok {
			r.logger.Warn("skipping source event with unparseable start",
				zap.String("property", prop.Name),
				zap.String("start", src.Start.Value()))
			continue
		}

		key := StableKey(src)
		if _, dup := desired[key]; dup {
			continue
		}
		desired[key] = r.mirrorBlock(prop, src, day, key)
	}
	return desired
}

// mirrorBlock builds the all-day block a source event projects onto the
// mirror: the night's local date with an exclusive next-day end.
func (r *Reconciler) mirrorBlock(prop config.Property, src calendarapi.Event, day time.Time, key string) *calendarapi.Event {
	description := src.Description
	if description != "" {
		description += "\n"
	}
	description += fmt.Sprintf("Mirrored block for %s", prop.Name)

	return &calendarapi.Event{
		Summary:      blockedPrefix + src.Summary,
		Description:  description,
		Start:        calendarapi.EventTime{Date: day.Format("2006-01-02")},
		End:          calendarapi.EventTime{Date: day.AddDate(0, 0, 1).Format("2006-01-02")},
		Transparency: "opaque",
		ExtendedProperties: &calendarapi.ExtendedProperties{
			Private: map[string]string{
				tagOrigin:      tagOriginDerived,
				tagProperty:    prop.Slug(),
				tagMirrorKey:   key,
				tagSrcCalendar: prop.CalendarID,
			},
		},
	}
}

func (r *Reconciler) localDate(value string) (time.Time, bool) {
	if len(value) == len("2006-01-02") {
		d, err := time.ParseInLocation("2006-01-02", value, r.loc)
		if err != nil {
			return time.Time{}, false
		}
		return d, true
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	local := t.In(r.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, r.loc), true
}

// ownedByKey indexes the mirror's engine-created blocks by their mirror key.
// Untagged events (manual blocks, anything else living on the calendar) are
// invisible to the reconciler.
func ownedByKey(dstEvents []calendarapi.Event) map[string]calendarapi.Event {
	owned := make(map[string]calendarapi.Event)
	for _, ev := range dstEvents {
		if ev.Status == "cancelled" {
			continue
		}
		private := ev.Private()
		if private[tagOrigin] != tagOriginDerived {
			continue
		}
		key := private[tagMirrorKey]
		if key == "" {
			continue
		}
		if _, dup := owned[key]; dup {
			continue
		}
		owned[key] = ev
	}
	return owned
}

// mirrorsEqual reports whether an existing block already matches the desired
// one, ownership tags included: a block whose src_calendar_id (or any other
// tag) went stale after a config change gets refreshed like any other drift.
func mirrorsEqual(have calendarapi.Event, want *calendarapi.Event) bool {
	if have.Summary != want.Summary ||
		have.Description != want.Description ||
		have.Start.Value() != want.Start.Value() ||
		have.End.Value() != want.End.Value() {
		return false
	}
	for _, tag := range []string{tagOrigin, tagProperty, tagMirrorKey, tagSrcCalendar} {
		if have.Private()[tag] != want.Private()[tag] {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
