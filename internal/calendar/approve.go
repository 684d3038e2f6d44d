package calendar

import (
	"context"
	"fmt"

	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/templates"
)

// Approve publishes a pending proposal to the calendar. The calendar post
// is created first: if that fails the entry stays pending and the error
// surfaces, since losing the proposal here would be unrecoverable. Every
// later step of the hand-off is best effort.
func (c *GuildCalendar) Approve(ctx context.Context, id model.PostID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	evt, ok := c.pending[id]
	if !ok {
		return nil
	}

	newID, err := c.sink.Post(ctx, c.settings.CalendarChannel, calendarContent(evt, c.settings.Templates.NewEvent))
	if err != nil {
		return fmt.Errorf("c.sink.Post: %w", err)
	}
	if err := c.sink.AddOptions(ctx, newID, []model.Signal{model.SignalSubscribe}); err != nil {
		c.logger.Warnw("attaching subscribe option failed", "post", newID, "err", err)
	}
	c.published[newID] = evt
	delete(c.pending, id)

	if err := c.sink.Repost(ctx, id, approvalContent(evt, templates.Current().System.Approved)); err != nil {
		c.logger.Warnw("marking approval post failed", "post", id, "err", err)
	}
	c.dm(ctx, evt, evt.Base().Organizer, c.settings.Templates.Accept)
	return nil
}

// Reject drops a pending proposal and tells the organizer. Unknown ids
// are ignored, so a stale decline signal is harmless.
func (c *GuildCalendar) Reject(ctx context.Context, id model.PostID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	evt, ok := c.pending[id]
	if !ok {
		return nil
	}
	delete(c.pending, id)

	if err := c.sink.Repost(ctx, id, approvalContent(evt, templates.Current().System.Declined)); err != nil {
		c.logger.Warnw("marking approval post failed", "post", id, "err", err)
	}
	c.dm(ctx, evt, evt.Base().Organizer, c.settings.Templates.Reject)
	return nil
}

// ApproveEdit merges a pending edit into its target and re-renders the
// calendar post under its existing id. A vanished target leaves the edit
// untouched.
func (c *GuildCalendar) ApproveEdit(ctx context.Context, id model.PostID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	edit, ok := c.edits[id]
	if !ok {
		return nil
	}
	evt, ok := c.published[edit.Target]
	if !ok {
		return nil
	}

	evt.Base().Merge(edit)
	delete(c.edits, id)

	if err := c.sink.Repost(ctx, id, editContent(edit, evt, templates.Current().System.EditApproved)); err != nil {
		c.logger.Warnw("marking edit post failed", "post", id, "err", err)
	}
	if err := c.sink.Repost(ctx, edit.Target, calendarContent(evt, c.settings.Templates.NewEvent)); err != nil {
		c.logger.Warnw("re-rendering calendar post failed", "post", edit.Target, "err", err)
	}
	c.dm(ctx, evt, evt.Base().Organizer, c.settings.Templates.AcceptEdit)
	return nil
}

// RejectEdit declines a pending edit, leaving its target as it was.
func (c *GuildCalendar) RejectEdit(ctx context.Context, id model.PostID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	edit, ok := c.edits[id]
	if !ok {
		return nil
	}
	evt, ok := c.published[edit.Target]
	if !ok {
		return nil
	}

	delete(c.edits, id)

	if err := c.sink.Repost(ctx, id, editContent(edit, evt, templates.Current().System.EditDeclined)); err != nil {
		c.logger.Warnw("marking edit post failed", "post", id, "err", err)
	}
	c.dm(ctx, evt, evt.Base().Organizer, c.settings.Templates.RejectEdit)
	return nil
}

// DropEdit discards a pending edit without ceremony, used when its
// approval post disappears from the platform.
func (c *GuildCalendar) DropEdit(id model.PostID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.edits, id)
}
