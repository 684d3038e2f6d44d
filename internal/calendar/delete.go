package calendar

import (
	"context"

	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/templates"
)

// DeletePublished removes a calendar entry, announces the removal on the
// approval surface and takes the calendar post down best effort.
func (c *GuildCalendar) DeletePublished(ctx context.Context, id model.PostID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	evt, ok := c.published[id]
	if !ok {
		return nil
	}
	title := evt.Base().Title
	c.removePublishedLocked(ctx, id)
	if _, err := c.sink.Post(ctx, c.settings.ApprovalChannel, noticeContent(templates.Current().System.EventDeleted, title)); err != nil {
		c.logger.Warnw("posting deletion notice failed", "post", id, "err", err)
	}
	return nil
}

// removePublishedLocked drops the map entry and the platform post. The
// post may already be gone, which is fine.
func (c *GuildCalendar) removePublishedLocked(ctx context.Context, id model.PostID) {
	delete(c.published, id)
	if err := c.sink.Delete(ctx, id); err != nil {
		c.logger.Warnw("removing calendar post failed", "post", id, "err", err)
	}
}

// EndLive takes down a live announcement.
func (c *GuildCalendar) EndLive(ctx context.Context, id model.PostID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endLiveLocked(ctx, id)
	return nil
}

func (c *GuildCalendar) endLiveLocked(ctx context.Context, id model.PostID) {
	if _, ok := c.live[id]; !ok {
		return
	}
	delete(c.live, id)
	if err := c.sink.Delete(ctx, id); err != nil {
		c.logger.Warnw("removing announcement post failed", "post", id, "err", err)
	}
}
