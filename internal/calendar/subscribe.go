package calendar

import (
	"context"

	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/templates"
)

// Subscribe adds or removes a reminder subscription on a published event
// and confirms the change over DM. Subscribing twice is a no-op that
// still confirms; an unsubscribe without a subscription stays silent.
func (c *GuildCalendar) Subscribe(ctx context.Context, id model.PostID, user model.UserID, remove bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	evt, ok := c.published[id]
	if !ok {
		return nil
	}
	sys := templates.Current().System
	if remove {
		if evt.Base().Unsubscribe(user) {
			c.dm(ctx, evt, user, sys.Unsubscribed)
		}
		return nil
	}
	evt.Base().Subscribe(user)
	c.dm(ctx, evt, user, sys.Subscribed)
	return nil
}
