package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/notify"
)

// Sweep runs the scheduler passes in their fixed order: retrieve queued
// content, announce due events, post started recurring content, roll
// recurring events into their next cycle, retire timed-out
// announcements. Each pass takes the tenant lock for its whole duration;
// between passes other operations may interleave.
func (c *GuildCalendar) Sweep(ctx context.Context, now time.Time) error {
	c.checkRetrieve(ctx, now)
	c.checkNotify(ctx, now)
	c.checkStart(ctx, now)
	c.checkUpdate(ctx, now)
	c.checkTimeout(ctx, now)
	return ctx.Err()
}

// checkRetrieve caches the oldest queued item for every recurring event
// inside its notify window. An empty queue cancels the cycle; a queue
// read failure leaves the event alone so the next sweep retries.
func (c *GuildCalendar) checkRetrieve(ctx context.Context, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range sortedKeys(c.published) {
		rec, ok := model.AsRecurring(c.published[id])
		if !ok || !rec.TimeToNotify(now) || rec.Cancelled || rec.NextContent != nil {
			continue
		}
		item, err := c.sink.OldestQueued(ctx, rec.QueueChannel)
		if err != nil {
			if errors.Is(err, notify.ErrEmptyQueue) {
				rec.Cancelled = true
			} else {
				c.logger.Warnw("reading content queue failed", "queue", rec.QueueChannel, "err", err)
			}
			continue
		}
		rec.NextContent = item
	}
}

// checkNotify publishes the announcement for every due event and fans the
// reminder DMs out. A one-shot event leaves the calendar the moment its
// announcement is due, whether or not any delivery succeeds; a recurring
// event is marked notified before anything is sent so it cannot announce
// twice in one cycle.
func (c *GuildCalendar) checkNotify(ctx context.Context, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range sortedKeys(c.published) {
		evt, ok := c.published[id]
		if !ok || !evt.TimeToNotify(now) {
			continue
		}
		if rec, ok := model.AsRecurring(evt); ok {
			if rec.Cancelled || rec.Notified {
				continue
			}
			rec.Notified = true
		} else {
			c.removePublishedLocked(ctx, id)
		}

		content := announcementContent(evt, c.settings.Templates.Announcement)
		postID, err := c.sink.Post(ctx, c.settings.CalendarChannel, content)
		if err != nil {
			c.logger.Errorw("publishing announcement failed", "title", evt.Base().Title, "err", err)
			continue
		}
		if err := c.sink.AddOptions(ctx, postID, []model.Signal{model.SignalEnd}); err != nil {
			c.logger.Warnw("attaching end option failed", "post", postID, "err", err)
		}
		c.live[postID] = &model.OngoingAnnouncement{
			Organizer:     evt.Base().Organizer,
			CountdownTime: evt.Base().StartTime,
			TimeoutLength: c.settings.EventTimeout,
			Content:       content,
		}
		for _, u := range evt.Base().Recipients() {
			tmpl := c.settings.Templates.SubscriberDM
			if u == evt.Base().Organizer {
				tmpl = c.settings.Templates.OrganizerDM
			}
			c.dm(ctx, evt, u, tmpl)
		}
	}
}

// checkStart posts the cached queue content of every started recurring
// event to its target channel and consumes the queue item. A failed post
// keeps the cache so the content is not lost.
func (c *GuildCalendar) checkStart(ctx context.Context, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range sortedKeys(c.published) {
		rec, ok := model.AsRecurring(c.published[id])
		if !ok || !rec.TimeToStart(now) || rec.Cancelled || rec.NextContent == nil {
			continue
		}
		item := rec.NextContent
		if _, err := c.sink.Post(ctx, rec.TargetChannel, queuedContent(rec, item.Content)); err != nil {
			c.logger.Errorw("posting queued content failed", "target", rec.TargetChannel, "err", err)
			continue
		}
		if err := c.sink.Delete(ctx, item.ID); err != nil {
			c.logger.Warnw("consuming queue item failed", "item", item.ID, "err", err)
		}
		rec.NextContent = nil
	}
}

// checkUpdate rolls every started recurring event into its next cycle and
// re-renders its calendar post in place. The notified and cancelled flags
// reset here and nowhere else.
func (c *GuildCalendar) checkUpdate(ctx context.Context, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range sortedKeys(c.published) {
		rec, ok := model.AsRecurring(c.published[id])
		if !ok || !rec.TimeToStart(now) {
			continue
		}
		rec.Advance(now)
		if err := c.sink.Repost(ctx, id, calendarContent(rec, c.settings.Templates.NewEvent)); err != nil {
			c.logger.Warnw("re-rendering calendar post failed", "post", id, "err", err)
		}
	}
}

// checkTimeout retires live announcements whose window has passed.
func (c *GuildCalendar) checkTimeout(ctx context.Context, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range sortedKeys(c.live) {
		if c.live[id].TimedOut(now) {
			c.endLiveLocked(ctx, id)
		}
	}
}
