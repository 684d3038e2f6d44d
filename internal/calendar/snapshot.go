package calendar

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/notify"
)

// Snapshot captures the full tenant state for persistence.
func (c *GuildCalendar) Snapshot() *model.TenantSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := settingsToSnapshot(c.settings)
	snap.PendingApproval = make(map[string]*model.EventSnapshot, len(c.pending))
	for id, e := range c.pending {
		snap.PendingApproval[string(id)] = model.EventToSnapshot(e)
	}
	snap.Published = make(map[string]*model.EventSnapshot, len(c.published))
	for id, e := range c.published {
		snap.Published[string(id)] = model.EventToSnapshot(e)
	}
	snap.Live = make(map[string]*model.AnnouncementSnapshot, len(c.live))
	for id, a := range c.live {
		snap.Live[string(id)] = model.AnnouncementToSnapshot(a)
	}
	snap.PendingEdits = make(map[string]*model.EditSnapshot, len(c.edits))
	for id, e := range c.edits {
		snap.PendingEdits[string(id)] = model.EditToSnapshot(e)
	}
	return snap
}

// FromSnapshot rebuilds a calendar. A broken settings block fails the
// whole tenant; a single unreadable entry is dropped with a warning so
// one bad record cannot take the rest of the tenant down with it.
func FromSnapshot(snap *model.TenantSnapshot, sink notify.Sink, logger *zap.SugaredLogger) (*GuildCalendar, error) {
	settings, err := settingsFromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("settingsFromSnapshot: %w", err)
	}
	c := New(settings, sink, logger)
	for id, es := range snap.PendingApproval {
		e, err := model.EventFromSnapshot(es)
		if err != nil {
			logger.Warnw("dropping unreadable pending entry", "post", id, "err", err)
			continue
		}
		c.pending[model.PostID(id)] = e
	}
	for id, es := range snap.Published {
		e, err := model.EventFromSnapshot(es)
		if err != nil {
			logger.Warnw("dropping unreadable published entry", "post", id, "err", err)
			continue
		}
		c.published[model.PostID(id)] = e
	}
	for id, as := range snap.Live {
		c.live[model.PostID(id)] = model.AnnouncementFromSnapshot(as)
	}
	for id, es := range snap.PendingEdits {
		e, err := model.EditFromSnapshot(es)
		if err != nil {
			logger.Warnw("dropping unreadable edit entry", "post", id, "err", err)
			continue
		}
		c.edits[model.PostID(id)] = e
	}
	return c, nil
}
