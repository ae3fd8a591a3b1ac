package mirror

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"staysync/core/calendarapi"
	"staysync/core/calendarapi/mocks"
	"staysync/core/config"
)

func mustLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)
	return loc
}

func testProperty() config.Property {
	return config.Property{
		Name:             "Cabin Two",
		CalendarID:       "principal@example.com",
		MirrorCalendarID: "mirror@example.com",
		BookingTypeID:    7,
		ContactEmail:     "imports@example.com",
	}
}

func newReconciler(t *testing.T, cal calendarapi.Calendar) *Reconciler {
	t.Helper()
	r := NewReconciler(cal, mustLocation(t), 365, "airbnb", zap.NewNop())
	r.now = func() time.Time {
		return time.Date(2025, 3, 15, 10, 0, 0, 0, mustLocation(t))
	}
	return r
}

func directStay(summary, start, end string) calendarapi.Event {
	return calendarapi.Event{
		ID:      "src-" + summary,
		Status:  "confirmed",
		Summary: summary,
		Start:   calendarapi.EventTime{DateTime: start},
		End:     calendarapi.EventTime{DateTime: end},
	}
}

func ownedBlock(src calendarapi.Event, prop config.Property) calendarapi.Event {
	block := calendarapi.Event{
		ID:          "dst-" + src.ID,
		Status:      "confirmed",
		Summary:     blockedPrefix + src.Summary,
		Description: "Mirrored block for " + prop.Name,
		ExtendedProperties: &calendarapi.ExtendedProperties{
			Private: map[string]string{
				tagOrigin:      tagOriginDerived,
				tagProperty:    prop.Slug(),
				tagMirrorKey:   StableKey(src),
				tagSrcCalendar: prop.CalendarID,
			},
		},
	}
	// 20:00Z on the 20th is the evening of the 20th locally.
	block.Start = calendarapi.EventTime{Date: "2025-03-20"}
	block.End = calendarapi.EventTime{Date: "2025-03-21"}
	return block
}

func TestFromFeed(t *testing.T) {
	platformEvent := calendarapi.Event{
		Summary:     "Airbnb guest stay",
		Description: "Contact: host-abc123@guest.airbnb.com",
	}
	assert.True(t, FromFeed(platformEvent, "airbnb"))

	// Platform name in the summary alone is not enough.
	mention := calendarapi.Event{
		Summary:   "Booked via airbnb referral",
		Attendees: []calendarapi.Attendee{{Email: "guest@example.com"}},
	}
	assert.False(t, FromFeed(mention, "airbnb"))

	// Nor is a platform email without the summary.
	emailOnly := calendarapi.Event{
		Summary:   "Family visit",
		Attendees: []calendarapi.Attendee{{Email: "abc@guest.airbnb.com"}},
	}
	assert.False(t, FromFeed(emailOnly, "airbnb"))
}

func TestStableKey_Deterministic(t *testing.T) {
	a := directStay("Guest stay", "2025-03-20T20:00:00Z", "2025-03-22T17:00:00Z")
	b := directStay("Guest stay", "2025-03-20T20:00:00Z", "2025-03-22T17:00:00Z")
	b.ID = "completely-different-id"

	assert.Equal(t, StableKey(a), StableKey(b))

	c := directStay("Other guest", "2025-03-20T20:00:00Z", "2025-03-22T17:00:00Z")
	assert.NotEqual(t, StableKey(a), StableKey(c))
}

func TestReconcile_CreatesMissingBlock(t *testing.T) {
	prop := testProperty()
	src := directStay("Guest stay", "2025-03-21T02:00:00Z", "2025-03-23T17:00:00Z")

	cal := new(mocks.Calendar)
	cal.On("ListEvents", mock.Anything, prop.CalendarID, mock.Anything, mock.Anything).
		Return([]calendarapi.Event{src}, nil)
	cal.On("ListEvents", mock.Anything, prop.MirrorCalendarID, mock.Anything, mock.Anything).
		Return([]calendarapi.Event{}, nil)
	cal.On("InsertEvent", mock.Anything, prop.MirrorCalendarID, mock.MatchedBy(func(ev *calendarapi.Event) bool {
		return ev.Summary == "[Blocked] Guest stay" &&
			ev.Start.Date == "2025-03-20" &&
			ev.End.Date == "2025-03-21" &&
			ev.Private()[tagOrigin] == tagOriginDerived &&
			ev.Private()[tagMirrorKey] == StableKey(src)
	})).Return(&calendarapi.Event{ID: "new"}, nil)

	r := newReconciler(t, cal)
	stats, err := r.Reconcile(context.Background(), prop)

	require.NoError(t, err)
	assert.Equal(t, Stats{Created: 1}, stats)
	cal.AssertExpectations(t)
}

func TestReconcile_Idempotent(t *testing.T) {
	prop := testProperty()
	src := directStay("Guest stay", "2025-03-21T02:00:00Z", "2025-03-23T17:00:00Z")
	existing := ownedBlock(src, prop)

	cal := new(mocks.Calendar)
	cal.On("ListEvents", mock.Anything, prop.CalendarID, mock.Anything, mock.Anything).
		Return([]calendarapi.Event{src}, nil)
	cal.On("ListEvents", mock.Anything, prop.MirrorCalendarID, mock.Anything, mock.Anything).
		Return([]calendarapi.Event{existing}, nil)

	r := newReconciler(t, cal)
	stats, err := r.Reconcile(context.Background(), prop)

	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	cal.AssertNotCalled(t, "InsertEvent", mock.Anything, mock.Anything, mock.Anything)
	cal.AssertNotCalled(t, "DeleteEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_ReplacesDriftedBlock(t *testing.T) {
	prop := testProperty()
	src := directStay("Guest stay", "2025-03-21T02:00:00Z", "2025-03-23T17:00:00Z")
	drifted := ownedBlock(src, prop)
	drifted.Summary = "[Blocked] stale summary"

	cal := new(mocks.Calendar)
	cal.On("ListEvents", mock.Anything, prop.CalendarID, mock.Anything, mock.Anything).
		Return([]calendarapi.Event{src}, nil)
	cal.On("ListEvents", mock.Anything, prop.MirrorCalendarID, mock.Anything, mock.Anything).
		Return([]calendarapi.Event{drifted}, nil)
	cal.On("DeleteEvent", mock.Anything, prop.MirrorCalendarID, drifted.ID).Return(nil)
	cal.On("InsertEvent", mock.Anything, prop.MirrorCalendarID, mock.Anything).
		Return(&calendarapi.Event{ID: "new"}, nil)

	r := newReconciler(t, cal)
	stats, err := r.Reconcile(context.Background(), prop)

	require.NoError(t, err)
	assert.Equal(t, Stats{Created: 1, Deleted: 1}, stats)
	cal.AssertExpectations(t)
}

func TestReconcile_RefreshesStaleTags(t *testing.T) {
	prop := testProperty()
	src := directStay("Guest stay", "2025-03-21T02:00:00Z", "2025-03-23T17:00:00Z")

	// Visible fields still match, but the block was created before the
	// property moved to a new principal calendar.
	stale := ownedBlock(src, prop)
	stale.ExtendedProperties.Private[tagSrcCalendar] = "old-principal@example.com"

	cal := new(mocks.Calendar)
	cal.On("ListEvents", mock.Anything, prop.CalendarID, mock.Anything, mock.Anything).
		Return([]calendarapi.Event{src}, nil)
	cal.On("ListEvents", mock.Anything, prop.MirrorCalendarID, mock.Anything, mock.Anything).
		Return([]calendarapi.Event{stale}, nil)
	cal.On("DeleteEvent", mock.Anything, prop.MirrorCalendarID, stale.ID).Return(nil)
	cal.On("InsertEvent", mock.Anything, prop.MirrorCalendarID, mock.MatchedBy(func(ev *calendarapi.Event) bool {
		return ev.Private()[tagSrcCalendar] == prop.CalendarID
	})).Return(&calendarapi.Event{ID: "new"}, nil)

	r := newReconciler(t, cal)
	stats, err := r.Reconcile(context.Background(), prop)

	require.NoError(t, err)
	assert.Equal(t, Stats{Created: 1, Deleted: 1}, stats)
	cal.AssertExpectations(t)
}

func TestReconcile_SweepsOrphanedBlocks(t *testing.T) {
	prop := testProperty()
	vanished := directStay("Gone stay", "2025-03-21T02:00:00Z", "2025-03-23T17:00:00Z")
	orphan := ownedBlock(vanished, prop)

	cal := new(mocks.Calendar)
	cal.On("ListEvents", mock.Anything, prop.CalendarID, mock.Anything, mock.Anything).
		Return([]calendarapi.Event{}, nil)
	cal.On("ListEvents", mock.Anything, prop.MirrorCalendarID, mock.Anything, mock.Anything).
		Return([]calendarapi.Event{orphan}, nil)
	cal.On("DeleteEvent", mock.Anything, prop.MirrorCalendarID, orphan.ID).Return(nil)

	r := newReconciler(t, cal)
	stats, err := r.Reconcile(context.Background(), prop)

	require.NoError(t, err)
	assert.Equal(t, Stats{Deleted: 1}, stats)
	cal.AssertExpectations(t)
}

func TestReconcile_NeverDeletesUntaggedEvents(t *testing.T) {
	prop := testProperty()
	manual := calendarapi.Event{
		ID:      "manual-1",
		Status:  "confirmed",
		Summary: "Maintenance block",
		Start:   calendarapi.EventTime{Date: "2025-03-20"},
		End:     calendarapi.EventTime{Date: "2025-03-21"},
	}

	cal := new(mocks.Calendar)
	cal.On("ListEvents", mock.Anything, prop.CalendarID, mock.Anything, mock.Anything).
		Return([]calendarapi.Event{}, nil)
	cal.On("ListEvents", mock.Anything, prop.MirrorCalendarID, mock.Anything, mock.Anything).
		Return([]calendarapi.Event{manual}, nil)

	r := newReconciler(t, cal)
	stats, err := r.Reconcile(context.Background(), prop)

	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	cal.AssertNotCalled(t, "DeleteEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_SkipsFeedOriginEvents(t *testing.T) {
	prop := testProperty()
	feedEvent := calendarapi.Event{
		ID:          "feed-1",
		Status:      "confirmed",
		Summary:     "Airbnb (Reserved)",
		Description: "guest-xyz@guest.airbnb.com",
		Start:       calendarapi.EventTime{DateTime: "2025-03-21T02:00:00Z"},
		End:         calendarapi.EventTime{DateTime: "2025-03-23T17:00:00Z"},
	}

	cal := new(mocks.Calendar)
	cal.On("ListEvents", mock.Anything, prop.CalendarID, mock.Anything, mock.Anything).
		Return([]calendarapi.Event{feedEvent}, nil)
	cal.On("ListEvents", mock.Anything, prop.MirrorCalendarID, mock.Anything, mock.Anything).
		Return([]calendarapi.Event{}, nil)

	r := newReconciler(t, cal)
	stats, err := r.Reconcile(context.Background(), prop)

	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	cal.AssertNotCalled(t, "InsertEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_SameCalendarIsSoftAbort(t *testing.T) {
	prop := testProperty()
	prop.MirrorCalendarID = prop.CalendarID

	cal := new(mocks.Calendar)
	r := newReconciler(t, cal)
	stats, err := r.Reconcile(context.Background(), prop)

	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	cal.AssertNotCalled(t, "ListEvents", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_NoMirrorConfigured(t *testing.T) {
	prop := testProperty()
	prop.MirrorCalendarID = ""

	cal := new(mocks.Calendar)
	r := newReconciler(t, cal)
	stats, err := r.Reconcile(context.Background(), prop)

	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestReconcile_ListFailureAborts(t *testing.T) {
	prop := testProperty()

	cal := new(mocks.Calendar)
	cal.On("ListEvents", mock.Anything, prop.CalendarID, mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	r := newReconciler(t, cal)
	stats, err := r.Reconcile(context.Background(), prop)

	assert.Error(t, err)
	assert.Equal(t, 1, stats.Errors)
}
