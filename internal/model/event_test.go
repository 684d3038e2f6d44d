package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *EventDraft {
	return &EventDraft{
		Kind:       KindOneShot,
		Organizer:  "user-1",
		Title:      "Movie night",
		DMMessage:  "grab your popcorn",
		StartTime:  1_700_000_000,
		NotifyLead: 600,
	}
}

func validRecurringDraft() *EventDraft {
	d := validDraft()
	d.Kind = KindRecurring
	d.QueueChannel = "chan-queue"
	d.TargetChannel = "chan-target"
	d.RepeatDays = 7
	d.PostTemplate = "Today: %CONTENT%"
	return d
}

func TestEventDraft_Validate(t *testing.T) {
	assert.NoError(t, validDraft().Validate())
	assert.NoError(t, validRecurringDraft().Validate())

	cases := []struct {
		name   string
		mutate func(*EventDraft)
	}{
		{"unknown kind", func(d *EventDraft) { d.Kind = "monthly" }},
		{"missing organizer", func(d *EventDraft) { d.Organizer = "" }},
		{"missing title", func(d *EventDraft) { d.Title = "" }},
		{"missing start time", func(d *EventDraft) { d.StartTime = 0 }},
		{"negative notify lead", func(d *EventDraft) { d.NotifyLead = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.mutate(d)
			assert.ErrorIs(t, d.Validate(), ErrInvalidDraft)
		})
	}

	recurringCases := []struct {
		name   string
		mutate func(*EventDraft)
	}{
		{"missing queue channel", func(d *EventDraft) { d.QueueChannel = "" }},
		{"missing target channel", func(d *EventDraft) { d.TargetChannel = "" }},
		{"zero repeat interval", func(d *EventDraft) { d.RepeatDays = 0 }},
		{"lead longer than interval", func(d *EventDraft) { d.RepeatDays = 1; d.NotifyLead = 2 * 24 * 60 * 60 }},
	}
	for _, tc := range recurringCases {
		t.Run(tc.name, func(t *testing.T) {
			d := validRecurringDraft()
			tc.mutate(d)
			assert.ErrorIs(t, d.Validate(), ErrInvalidDraft)
		})
	}
}

func TestNewEvent_DerivesNotifyTime(t *testing.T) {
	evt, err := NewEvent(validDraft())
	require.NoError(t, err)

	assert.Equal(t, KindOneShot, evt.Kind())
	assert.Equal(t, int64(1_700_000_000-600), evt.Base().NotifyTime)

	_, ok := AsRecurring(evt)
	assert.False(t, ok)
}

func TestEventBase_TimeWindows(t *testing.T) {
	evt, err := NewEvent(validDraft())
	require.NoError(t, err)

	beforeNotify := time.Unix(1_700_000_000-601, 0)
	atNotify := time.Unix(1_700_000_000-600, 0)
	atStart := time.Unix(1_700_000_000, 0)

	assert.False(t, evt.TimeToNotify(beforeNotify))
	assert.True(t, evt.TimeToNotify(atNotify))
	assert.False(t, evt.TimeToStart(atNotify))
	assert.True(t, evt.TimeToStart(atStart))
}

func TestEventBase_Merge(t *testing.T) {
	evt, err := NewEvent(validDraft())
	require.NoError(t, err)

	newTitle := "Movie marathon"
	newStart := int64(1_700_100_000)
	evt.Base().Merge(&EventEdit{NewTitle: &newTitle, NewStartTime: &newStart})

	assert.Equal(t, "Movie marathon", evt.Base().Title)
	assert.Equal(t, newStart, evt.Base().StartTime)
	assert.Equal(t, newStart-600, evt.Base().NotifyTime)
	assert.Equal(t, "grab your popcorn", evt.Base().DMMessage)

	evt.Base().Merge(&EventEdit{})
	assert.Equal(t, "Movie marathon", evt.Base().Title)
}

func TestEventBase_SubscribeUnsubscribe(t *testing.T) {
	evt, err := NewEvent(validDraft())
	require.NoError(t, err)

	evt.Base().Subscribe("user-2")
	evt.Base().Subscribe("user-2")
	evt.Base().Subscribe("user-3")
	assert.Equal(t, []UserID{"user-2", "user-3"}, evt.Base().Subscribers)

	assert.True(t, evt.Base().Unsubscribe("user-2"))
	assert.False(t, evt.Base().Unsubscribe("user-2"))
	assert.Equal(t, []UserID{"user-3"}, evt.Base().Subscribers)
}

func TestEventBase_Recipients(t *testing.T) {
	evt, err := NewEvent(validDraft())
	require.NoError(t, err)

	evt.Base().Subscribe("user-2")
	assert.Equal(t, []UserID{"user-2", "user-1"}, evt.Base().Recipients())
}

func TestEventBase_FormatVars(t *testing.T) {
	evt, err := NewEvent(validDraft())
	require.NoError(t, err)

	out := evt.Base().FormatVars("%NOTIF_NAME%: %TITLE% by %NAME%, %DM_MSG%", "user-9")
	assert.Equal(t, "user-9: Movie night by user-1, grab your popcorn", out)
}

func TestRecurringEvent_Advance(t *testing.T) {
	evt, err := NewEvent(validRecurringDraft())
	require.NoError(t, err)
	rec, ok := AsRecurring(evt)
	require.True(t, ok)

	rec.Notified = true
	rec.Cancelled = true

	// One second past the start, one interval forward.
	rec.Advance(time.Unix(1_700_000_001, 0))

	week := int64(7 * 24 * 60 * 60)
	assert.Equal(t, 1_700_000_000+week, rec.StartTime)
	assert.Equal(t, 1_700_000_000+week-600, rec.NotifyTime)
	assert.False(t, rec.Notified)
	assert.False(t, rec.Cancelled)

	// Three missed cycles advance by whole intervals past now.
	rec.Advance(time.Unix(1_700_000_000+3*week+10, 0))
	assert.Equal(t, 1_700_000_000+4*week, rec.StartTime)
}

func TestEventSnapshot_RoundTrip(t *testing.T) {
	evt, err := NewEvent(validRecurringDraft())
	require.NoError(t, err)
	rec, _ := AsRecurring(evt)
	rec.Notified = true
	rec.NextContent = &QueueItem{ID: "queued-1", Content: "ignored"}
	rec.Subscribe("user-2")

	restored, err := EventFromSnapshot(EventToSnapshot(rec))
	require.NoError(t, err)

	restoredRec, ok := AsRecurring(restored)
	require.True(t, ok)
	assert.Equal(t, rec.Title, restoredRec.Title)
	assert.Equal(t, rec.NotifyTime, restoredRec.NotifyTime)
	assert.Equal(t, []UserID{"user-2"}, restoredRec.Subscribers)
	assert.True(t, restoredRec.Notified)
	assert.False(t, restoredRec.Cancelled)
	assert.Nil(t, restoredRec.NextContent, "queue handle must not survive a reload")
}

func TestEventFromSnapshot_RejectsUnknownKind(t *testing.T) {
	snap := EventToSnapshot(mustEvent(t, validDraft()))
	snap.Kind = "lunar"

	_, err := EventFromSnapshot(snap)
	assert.ErrorIs(t, err, ErrInvalidDraft)
}

func TestOngoingAnnouncement_TimedOut(t *testing.T) {
	a := &OngoingAnnouncement{CountdownTime: 1_700_000_000, TimeoutLength: 36_000}

	assert.False(t, a.TimedOut(time.Unix(1_700_000_000+35_999, 0)))
	assert.True(t, a.TimedOut(time.Unix(1_700_000_000+36_001, 0)))
}

func mustEvent(t *testing.T, d *EventDraft) Event {
	t.Helper()
	evt, err := NewEvent(d)
	require.NoError(t, err)
	return evt
}
