// Package calendar implements the per-tenant event workflow: proposals
// waiting for review, the published calendar, live announcements and
// pending edits, together with the scheduler passes that move entries
// between those stages.
package calendar

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/notify"
)

// GuildCalendar is one tenant's aggregate. A single mutex guards all four
// maps and stays held across sink calls, so concurrent operations always
// observe map transitions whole. The platform post id is the only key an
// entry ever has.
type GuildCalendar struct {
	mu     sync.Mutex
	logger *zap.SugaredLogger
	sink   notify.Sink

	settings  Settings
	pending   map[model.PostID]model.Event
	published map[model.PostID]model.Event
	live      map[model.PostID]*model.OngoingAnnouncement
	edits     map[model.PostID]*model.EventEdit
}

func New(settings Settings, sink notify.Sink, logger *zap.SugaredLogger) *GuildCalendar {
	return &GuildCalendar{
		logger:    logger,
		sink:      sink,
		settings:  settings,
		pending:   make(map[model.PostID]model.Event),
		published: make(map[model.PostID]model.Event),
		live:      make(map[model.PostID]*model.OngoingAnnouncement),
		edits:     make(map[model.PostID]*model.EventEdit),
	}
}

func (c *GuildCalendar) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// adoptState moves the tracked entries of a replaced calendar into this
// one. The old calendar is discarded by the caller afterwards.
func (c *GuildCalendar) adoptState(old *GuildCalendar) {
	old.mu.Lock()
	defer old.mu.Unlock()
	c.pending = old.pending
	c.published = old.published
	c.live = old.live
	c.edits = old.edits
}

func (c *GuildCalendar) dm(ctx context.Context, evt model.Event, target model.UserID, tmpl string) {
	if _, err := c.sink.PostDM(ctx, target, dmContent(tmpl, evt, target)); err != nil {
		c.logger.Warnw("direct message failed", "user", target, "err", err)
	}
}

func sortedKeys[V any](m map[model.PostID]V) []model.PostID {
	out := make([]model.PostID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
