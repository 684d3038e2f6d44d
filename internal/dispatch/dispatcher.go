// Package dispatch turns platform callbacks, acknowledgements flipped on
// posts and post deletions, into calendar operations. Every handler is
// fire and forget: failures are logged, never returned to the platform.
package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/eventboardhq/eventboard-backend/internal/calendar"
	"github.com/eventboardhq/eventboard-backend/internal/model"
)

type calendarSource interface {
	Get(id model.TenantID) (*calendar.GuildCalendar, bool)
}

type Dispatcher struct {
	calendars calendarSource
	logger    *zap.SugaredLogger
}

func New(calendars calendarSource, logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{calendars: calendars, logger: logger}
}

// OnAcknowledgement routes a flipped acknowledgement. The post id alone
// decides what the signal means: an approve on a proposal approves it, on
// an edit post approves the edit, anywhere else it is a stale signal and
// falls through every no-op guard.
func (d *Dispatcher) OnAcknowledgement(ctx context.Context, tenant model.TenantID, post model.PostID, signal model.Signal, actor model.UserID, removed bool) {
	cal, ok := d.calendars.Get(tenant)
	if !ok {
		return
	}
	switch signal {
	case model.SignalApprove:
		if removed {
			return
		}
		if err := cal.Approve(ctx, post); err != nil {
			d.logger.Errorw("approving event failed", "tenant", tenant, "post", post, "err", err)
		}
		if err := cal.ApproveEdit(ctx, post); err != nil {
			d.logger.Errorw("approving edit failed", "tenant", tenant, "post", post, "err", err)
		}
	case model.SignalDecline:
		if removed {
			return
		}
		if err := cal.Reject(ctx, post); err != nil {
			d.logger.Errorw("rejecting event failed", "tenant", tenant, "post", post, "err", err)
		}
		if err := cal.RejectEdit(ctx, post); err != nil {
			d.logger.Errorw("rejecting edit failed", "tenant", tenant, "post", post, "err", err)
		}
	case model.SignalSubscribe:
		if err := cal.Subscribe(ctx, post, actor, removed); err != nil {
			d.logger.Errorw("updating subscription failed", "tenant", tenant, "post", post, "err", err)
		}
	case model.SignalEnd:
		if removed {
			return
		}
		if err := cal.EndLive(ctx, post); err != nil {
			d.logger.Errorw("ending announcement failed", "tenant", tenant, "post", post, "err", err)
		}
	default:
		d.logger.Debugw("ignoring unknown signal", "tenant", tenant, "signal", signal)
	}
}

// OnPostDeleted reacts to a post vanishing from the platform. The post is
// the primary key, so whichever map held it must drop the entry; a
// deleted proposal counts as a rejection, a deleted calendar post as a
// manual removal.
func (d *Dispatcher) OnPostDeleted(ctx context.Context, tenant model.TenantID, post model.PostID) {
	cal, ok := d.calendars.Get(tenant)
	if !ok {
		return
	}
	if err := cal.Reject(ctx, post); err != nil {
		d.logger.Errorw("rejecting event failed", "tenant", tenant, "post", post, "err", err)
	}
	cal.DropEdit(post)
	if err := cal.DeletePublished(ctx, post); err != nil {
		d.logger.Errorw("deleting published event failed", "tenant", tenant, "post", post, "err", err)
	}
	if err := cal.EndLive(ctx, post); err != nil {
		d.logger.Errorw("ending announcement failed", "tenant", tenant, "post", post, "err", err)
	}
}

func (d *Dispatcher) OnPostsBulkDeleted(ctx context.Context, tenant model.TenantID, posts []model.PostID) {
	for _, post := range posts {
		d.OnPostDeleted(ctx, tenant, post)
	}
}
