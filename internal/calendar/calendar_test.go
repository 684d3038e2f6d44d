package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/notify"
)

const (
	approvalChan = model.ChannelID("chan-approval")
	calendarChan = model.ChannelID("chan-calendar")
	queueChan    = model.ChannelID("chan-queue")
	targetChan   = model.ChannelID("chan-target")

	eventStart = int64(1_700_000_000)
	eventLead  = int64(600)
	weekSecs   = int64(7 * 24 * 60 * 60)
)

func testSettings() Settings {
	return Settings{
		ApprovalChannel: approvalChan,
		CalendarChannel: calendarChan,
		EventTimeout:    36_000,
	}.withDefaults()
}

func newTestCalendar(t *testing.T) (*GuildCalendar, *notify.MemorySink) {
	t.Helper()
	sink := notify.NewMemorySink()
	return New(testSettings(), sink, zap.NewNop().Sugar()), sink
}

func oneShotDraft() *model.EventDraft {
	return &model.EventDraft{
		Kind:       model.KindOneShot,
		Organizer:  "user-1",
		Title:      "Movie night",
		DMMessage:  "bring snacks",
		StartTime:  eventStart,
		NotifyLead: eventLead,
	}
}

func recurringDraft() *model.EventDraft {
	d := oneShotDraft()
	d.Kind = model.KindRecurring
	d.Title = "Weekly digest"
	d.QueueChannel = queueChan
	d.TargetChannel = targetChan
	d.RepeatDays = 7
	d.PostTemplate = "Today: %CONTENT%"
	return d
}

func submit(t *testing.T, c *GuildCalendar, d *model.EventDraft) model.PostID {
	t.Helper()
	id, err := c.Submit(context.Background(), d)
	require.NoError(t, err)
	return id
}

// publish walks a draft through the full approval flow and returns the
// calendar post id.
func publish(t *testing.T, c *GuildCalendar, d *model.EventDraft) model.PostID {
	t.Helper()
	id := submit(t, c, d)
	require.NoError(t, c.Approve(context.Background(), id))
	for _, pid := range sortedKeys(c.published) {
		if c.published[pid].Base().Title == d.Title {
			return pid
		}
	}
	t.Fatalf("event %q not published", d.Title)
	return ""
}

func TestSubmit_PostsProposalForReview(t *testing.T) {
	c, sink := newTestCalendar(t)

	id := submit(t, c, oneShotDraft())

	post := sink.Lookup(id)
	require.NotNil(t, post)
	assert.Equal(t, approvalChan, post.Channel)
	assert.Equal(t, "Awaiting review: Movie night by user-1", post.Content.Text)
	assert.Equal(t, []model.Signal{model.SignalApprove, model.SignalDecline}, post.Options)

	assert.Contains(t, c.pending, id)
	assert.Empty(t, c.published)
}

func TestSubmit_InvalidDraftLeavesNoTrace(t *testing.T) {
	c, sink := newTestCalendar(t)

	d := oneShotDraft()
	d.Title = ""
	_, err := c.Submit(context.Background(), d)

	assert.ErrorIs(t, err, model.ErrInvalidDraft)
	assert.Empty(t, c.pending)
	assert.Empty(t, sink.PostsIn(approvalChan))
}

func TestSubmit_PostFailureLeavesNoTrace(t *testing.T) {
	c, sink := newTestCalendar(t)
	sink.FailPost = errors.New("platform down")

	_, err := c.Submit(context.Background(), oneShotDraft())

	assert.Error(t, err)
	assert.Empty(t, c.pending)
}

func TestApprove_PublishesToCalendar(t *testing.T) {
	c, sink := newTestCalendar(t)
	id := submit(t, c, oneShotDraft())

	require.NoError(t, c.Approve(context.Background(), id))

	assert.Empty(t, c.pending)
	require.Len(t, c.published, 1)

	posts := sink.PostsIn(calendarChan)
	require.Len(t, posts, 1)
	assert.Equal(t, "New event: Movie night by user-1", posts[0].Content.Text)
	assert.Equal(t, []model.Signal{model.SignalSubscribe}, posts[0].Options)
	assert.Contains(t, c.published, posts[0].ID)

	assert.Equal(t, "Approved: Movie night by user-1", sink.Lookup(id).Content.Text)

	dms := sink.DMsTo("user-1")
	require.Len(t, dms, 1)
	assert.Equal(t, "Your event Movie night has been approved and is now on the calendar.", dms[0].Content.Text)
}

func TestApprove_PostFailureKeepsProposalPending(t *testing.T) {
	c, sink := newTestCalendar(t)
	id := submit(t, c, oneShotDraft())

	sink.FailPost = errors.New("platform down")
	assert.Error(t, c.Approve(context.Background(), id))
	assert.Contains(t, c.pending, id)
	assert.Empty(t, c.published)

	// The signal can simply be retried once the platform recovers.
	sink.FailPost = nil
	require.NoError(t, c.Approve(context.Background(), id))
	assert.Empty(t, c.pending)
	assert.Len(t, c.published, 1)
}

func TestApprove_SideEffectFailuresDoNotBlock(t *testing.T) {
	c, sink := newTestCalendar(t)
	id := submit(t, c, oneShotDraft())

	sink.FailDM = errors.New("dms closed")
	sink.FailRepost = errors.New("post gone")
	sink.FailOptions = errors.New("no options")

	require.NoError(t, c.Approve(context.Background(), id))
	assert.Empty(t, c.pending)
	assert.Len(t, c.published, 1)
}

func TestApprove_UnknownPostIsNoOp(t *testing.T) {
	c, sink := newTestCalendar(t)

	require.NoError(t, c.Approve(context.Background(), "never-seen"))
	assert.Empty(t, sink.PostsIn(calendarChan))
}

func TestReject_DropsProposal(t *testing.T) {
	c, sink := newTestCalendar(t)
	id := submit(t, c, oneShotDraft())

	require.NoError(t, c.Reject(context.Background(), id))

	assert.Empty(t, c.pending)
	assert.Empty(t, c.published)
	assert.Equal(t, "Declined: Movie night by user-1", sink.Lookup(id).Content.Text)

	dms := sink.DMsTo("user-1")
	require.Len(t, dms, 1)
	assert.Equal(t, "Your event Movie night was declined by the staff.", dms[0].Content.Text)
}

func TestReject_DMFailureStillDrops(t *testing.T) {
	c, sink := newTestCalendar(t)
	id := submit(t, c, oneShotDraft())

	sink.FailDM = errors.New("dms closed")
	require.NoError(t, c.Reject(context.Background(), id))
	assert.Empty(t, c.pending)
}

func TestSubmitEdit_UnknownTargetFails(t *testing.T) {
	c, _ := newTestCalendar(t)

	title := "Game night"
	_, err := c.SubmitEdit(context.Background(), "never-seen", &model.EventEdit{NewTitle: &title})
	assert.ErrorIs(t, err, model.ErrNoRecord)
	assert.Empty(t, c.edits)
}

func TestSubmitEdit_RefusesEmptyEdit(t *testing.T) {
	c, sink := newTestCalendar(t)
	target := publish(t, c, oneShotDraft())
	before := len(sink.PostsIn(approvalChan))

	_, err := c.SubmitEdit(context.Background(), target, &model.EventEdit{})
	assert.ErrorIs(t, err, model.ErrInvalidDraft)
	assert.Empty(t, c.edits)
	assert.Len(t, sink.PostsIn(approvalChan), before)
}

func TestSubmitEdit_PostsProposal(t *testing.T) {
	c, sink := newTestCalendar(t)
	target := publish(t, c, oneShotDraft())

	title := "Game night"
	id, err := c.SubmitEdit(context.Background(), target, &model.EventEdit{NewTitle: &title})
	require.NoError(t, err)

	post := sink.Lookup(id)
	require.NotNil(t, post)
	assert.Equal(t, approvalChan, post.Channel)
	assert.Equal(t, "Proposed edit: Movie night by user-1", post.Content.Text)
	assert.Equal(t, []model.Signal{model.SignalApprove, model.SignalDecline}, post.Options)
	assert.Equal(t, target, c.edits[id].Target)
}

func TestApproveEdit_MergesIntoTarget(t *testing.T) {
	c, sink := newTestCalendar(t)
	target := publish(t, c, oneShotDraft())

	title := "Game night"
	newStart := eventStart + 3_600
	id, err := c.SubmitEdit(context.Background(), target, &model.EventEdit{NewTitle: &title, NewStartTime: &newStart})
	require.NoError(t, err)

	require.NoError(t, c.ApproveEdit(context.Background(), id))

	assert.Empty(t, c.edits)
	evt := c.published[target]
	require.NotNil(t, evt)
	assert.Equal(t, "Game night", evt.Base().Title)
	assert.Equal(t, newStart, evt.Base().StartTime)
	assert.Equal(t, newStart-eventLead, evt.Base().NotifyTime)

	// The calendar post keeps its id and shows the merged event.
	assert.Equal(t, "New event: Game night by user-1", sink.Lookup(target).Content.Text)

	dms := sink.DMsTo("user-1")
	require.Len(t, dms, 2)
	assert.Equal(t, "Your edit to Game night has been applied.", dms[1].Content.Text)
}

func TestApproveEdit_MissingTargetKeepsEdit(t *testing.T) {
	c, _ := newTestCalendar(t)
	target := publish(t, c, oneShotDraft())

	title := "Game night"
	id, err := c.SubmitEdit(context.Background(), target, &model.EventEdit{NewTitle: &title})
	require.NoError(t, err)
	require.NoError(t, c.DeletePublished(context.Background(), target))

	require.NoError(t, c.ApproveEdit(context.Background(), id))
	assert.Contains(t, c.edits, id)
}

func TestRejectEdit_DropsEdit(t *testing.T) {
	c, sink := newTestCalendar(t)
	target := publish(t, c, oneShotDraft())

	title := "Game night"
	id, err := c.SubmitEdit(context.Background(), target, &model.EventEdit{NewTitle: &title})
	require.NoError(t, err)

	require.NoError(t, c.RejectEdit(context.Background(), id))

	assert.Empty(t, c.edits)
	assert.Equal(t, "Movie night", c.published[target].Base().Title)
	assert.Equal(t, "Edit declined: Movie night by user-1", sink.Lookup(id).Content.Text)
}

func TestRejectEdit_MissingTargetKeepsEdit(t *testing.T) {
	c, _ := newTestCalendar(t)
	target := publish(t, c, oneShotDraft())

	title := "Game night"
	id, err := c.SubmitEdit(context.Background(), target, &model.EventEdit{NewTitle: &title})
	require.NoError(t, err)
	require.NoError(t, c.DeletePublished(context.Background(), target))

	require.NoError(t, c.RejectEdit(context.Background(), id))
	assert.Contains(t, c.edits, id)
}

func TestDropEdit_RemovesWithoutMessages(t *testing.T) {
	c, sink := newTestCalendar(t)
	target := publish(t, c, oneShotDraft())

	title := "Game night"
	id, err := c.SubmitEdit(context.Background(), target, &model.EventEdit{NewTitle: &title})
	require.NoError(t, err)

	before := len(sink.DMsTo("user-1"))
	c.DropEdit(id)
	assert.Empty(t, c.edits)
	assert.Len(t, sink.DMsTo("user-1"), before)
}

func TestSubscribe_AddsAndConfirms(t *testing.T) {
	c, sink := newTestCalendar(t)
	target := publish(t, c, oneShotDraft())

	require.NoError(t, c.Subscribe(context.Background(), target, "user-2", false))
	assert.Equal(t, []model.UserID{"user-2"}, c.published[target].Base().Subscribers)

	dms := sink.DMsTo("user-2")
	require.Len(t, dms, 1)
	assert.Equal(t, "You will be reminded about Movie night.", dms[0].Content.Text)
}

func TestSubscribe_RemoveConfirmsOnlyWhenSubscribed(t *testing.T) {
	c, sink := newTestCalendar(t)
	target := publish(t, c, oneShotDraft())
	require.NoError(t, c.Subscribe(context.Background(), target, "user-2", false))

	require.NoError(t, c.Subscribe(context.Background(), target, "user-2", true))
	assert.Empty(t, c.published[target].Base().Subscribers)
	dms := sink.DMsTo("user-2")
	require.Len(t, dms, 2)
	assert.Equal(t, "You will no longer be reminded about Movie night.", dms[1].Content.Text)

	// A stale unsubscribe stays silent.
	require.NoError(t, c.Subscribe(context.Background(), target, "user-2", true))
	assert.Len(t, sink.DMsTo("user-2"), 2)
}

func TestSubscribe_UnknownPostIsNoOp(t *testing.T) {
	c, sink := newTestCalendar(t)

	require.NoError(t, c.Subscribe(context.Background(), "never-seen", "user-2", false))
	assert.Empty(t, sink.DMsTo("user-2"))
}

func TestDeletePublished_RemovesPostAndAnnounces(t *testing.T) {
	c, sink := newTestCalendar(t)
	target := publish(t, c, oneShotDraft())

	require.NoError(t, c.DeletePublished(context.Background(), target))

	assert.Empty(t, c.published)
	assert.Nil(t, sink.Lookup(target))

	posts := sink.PostsIn(approvalChan)
	require.NotEmpty(t, posts)
	assert.Equal(t, "An event has been removed from the calendar. (Movie night)", posts[len(posts)-1].Content.Text)
}

func TestEndLive_RemovesAnnouncement(t *testing.T) {
	c, sink := newTestCalendar(t)
	id, err := sink.Post(context.Background(), calendarChan, model.Content{Text: "live"})
	require.NoError(t, err)
	c.live[id] = &model.OngoingAnnouncement{Organizer: "user-1", CountdownTime: eventStart, TimeoutLength: 36_000}

	require.NoError(t, c.EndLive(context.Background(), id))
	assert.Empty(t, c.live)
	assert.Nil(t, sink.Lookup(id))

	require.NoError(t, c.EndLive(context.Background(), "never-seen"))
}

func TestOverview_ListsEveryStage(t *testing.T) {
	c, _ := newTestCalendar(t)
	pendingID := submit(t, c, recurringDraft())
	target := publish(t, c, oneShotDraft())
	title := "Game night"
	editID, err := c.SubmitEdit(context.Background(), target, &model.EventEdit{NewTitle: &title})
	require.NoError(t, err)
	c.live["post-live"] = &model.OngoingAnnouncement{Organizer: "user-1", CountdownTime: eventStart, TimeoutLength: 36_000}

	o := c.Overview()

	require.Len(t, o.Pending, 1)
	assert.Equal(t, pendingID, o.Pending[0].Post)
	assert.Equal(t, model.KindRecurring, o.Pending[0].Kind)

	require.Len(t, o.Published, 1)
	assert.Equal(t, target, o.Published[0].Post)
	assert.Equal(t, "Movie night", o.Published[0].Title)

	require.Len(t, o.Live, 1)
	assert.Equal(t, int64(36_000), o.Live[0].TimeoutLength)

	require.Len(t, o.Edits, 1)
	assert.Equal(t, editID, o.Edits[0].Post)
	assert.Equal(t, target, o.Edits[0].Target)
}

func TestUserEvents_FiltersByOrganizer(t *testing.T) {
	c, _ := newTestCalendar(t)
	mine := publish(t, c, oneShotDraft())
	other := oneShotDraft()
	other.Organizer = "user-2"
	other.Title = "Karaoke"
	publish(t, c, other)

	events := c.UserEvents("user-1")
	require.Len(t, events, 1)
	assert.Equal(t, mine, events[0].Post)
}

func TestExpand_MaterializesOccurrences(t *testing.T) {
	c, _ := newTestCalendar(t)
	oneShot := publish(t, c, oneShotDraft())
	recurring := publish(t, c, recurringDraft())

	from := time.Unix(eventStart-10, 0).UTC()
	to := time.Unix(eventStart+2*weekSecs+10, 0).UTC()
	occ, err := c.Expand(from, to)
	require.NoError(t, err)

	byPost := map[model.PostID]int{}
	for _, o := range occ {
		byPost[o.Post]++
	}
	assert.Equal(t, 1, byPost[oneShot])
	assert.Equal(t, 3, byPost[recurring], "one occurrence per cycle inside the window")

	for i := 1; i < len(occ); i++ {
		assert.False(t, occ[i].Start.Before(occ[i-1].Start), "occurrences sorted by start")
	}
}

func TestExpand_WindowExcludesOutsideStarts(t *testing.T) {
	c, _ := newTestCalendar(t)
	publish(t, c, oneShotDraft())

	occ, err := c.Expand(time.Unix(eventStart+1, 0).UTC(), time.Unix(eventStart+1000, 0).UTC())
	require.NoError(t, err)
	assert.Empty(t, occ)
}
