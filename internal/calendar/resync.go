package calendar

import (
	"context"

	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/templates"
)

// ResyncCalendar re-renders every published event and live announcement
// into the configured calendar channel, re-keying both maps by the
// freshly assigned post ids. The superseded posts are taken down best
// effort and pending edits follow their re-keyed targets. The whole
// resync holds the tenant lock, so no other operation can observe a
// half-moved calendar.
func (c *GuildCalendar) ResyncCalendar(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range sortedKeys(c.published) {
		if err := c.sink.Delete(ctx, id); err != nil {
			c.logger.Warnw("removing stale calendar post failed", "post", id, "err", err)
		}
	}
	for _, id := range sortedKeys(c.live) {
		if err := c.sink.Delete(ctx, id); err != nil {
			c.logger.Warnw("removing stale announcement post failed", "post", id, "err", err)
		}
	}

	remap := make(map[model.PostID]model.PostID, len(c.published))
	fresh := make(map[model.PostID]model.Event, len(c.published))
	for _, id := range sortedKeys(c.published) {
		evt := c.published[id]
		newID, err := c.sink.Post(ctx, c.settings.CalendarChannel, calendarContent(evt, c.settings.Templates.NewEvent))
		if err != nil {
			c.logger.Errorw("re-rendering event failed, entry lost", "title", evt.Base().Title, "err", err)
			continue
		}
		if err := c.sink.AddOptions(ctx, newID, []model.Signal{model.SignalSubscribe}); err != nil {
			c.logger.Warnw("attaching subscribe option failed", "post", newID, "err", err)
		}
		fresh[newID] = evt
		remap[id] = newID
	}
	c.published = fresh

	freshLive := make(map[model.PostID]*model.OngoingAnnouncement, len(c.live))
	for _, id := range sortedKeys(c.live) {
		a := c.live[id]
		newID, err := c.sink.Post(ctx, c.settings.CalendarChannel, a.Content)
		if err != nil {
			c.logger.Errorw("re-rendering announcement failed, entry lost", "post", id, "err", err)
			continue
		}
		if err := c.sink.AddOptions(ctx, newID, []model.Signal{model.SignalEnd}); err != nil {
			c.logger.Warnw("attaching end option failed", "post", newID, "err", err)
		}
		freshLive[newID] = a
	}
	c.live = freshLive

	for _, e := range c.edits {
		if nid, ok := remap[e.Target]; ok {
			e.Target = nid
		}
	}
	return nil
}

// ResyncApproval does the same for the approval surface: pending
// proposals and edit posts get fresh posts in the configured approval
// channel. An edit whose target vanished is dropped here rather than
// re-posted.
func (c *GuildCalendar) ResyncApproval(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range sortedKeys(c.pending) {
		if err := c.sink.Delete(ctx, id); err != nil {
			c.logger.Warnw("removing stale approval post failed", "post", id, "err", err)
		}
	}
	for _, id := range sortedKeys(c.edits) {
		if err := c.sink.Delete(ctx, id); err != nil {
			c.logger.Warnw("removing stale edit post failed", "post", id, "err", err)
		}
	}

	sys := templates.Current().System
	fresh := make(map[model.PostID]model.Event, len(c.pending))
	for _, id := range sortedKeys(c.pending) {
		evt := c.pending[id]
		newID, err := c.sink.Post(ctx, c.settings.ApprovalChannel, approvalContent(evt, sys.Pending))
		if err != nil {
			c.logger.Errorw("re-rendering proposal failed, entry lost", "title", evt.Base().Title, "err", err)
			continue
		}
		if err := c.sink.AddOptions(ctx, newID, []model.Signal{model.SignalApprove, model.SignalDecline}); err != nil {
			c.logger.Warnw("attaching review options failed", "post", newID, "err", err)
		}
		fresh[newID] = evt
	}
	c.pending = fresh

	freshEdits := make(map[model.PostID]*model.EventEdit, len(c.edits))
	for _, id := range sortedKeys(c.edits) {
		edit := c.edits[id]
		target, ok := c.published[edit.Target]
		if !ok {
			c.logger.Warnw("dropping edit without target", "post", id, "target", edit.Target)
			continue
		}
		newID, err := c.sink.Post(ctx, c.settings.ApprovalChannel, editContent(edit, target, sys.EditProposed))
		if err != nil {
			c.logger.Errorw("re-rendering edit failed, entry lost", "post", id, "err", err)
			continue
		}
		if err := c.sink.AddOptions(ctx, newID, []model.Signal{model.SignalApprove, model.SignalDecline}); err != nil {
			c.logger.Warnw("attaching review options failed", "post", newID, "err", err)
		}
		freshEdits[newID] = edit
	}
	c.edits = freshEdits
	return nil
}
