package calendar

import (
	"context"
	"fmt"

	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/templates"
)

// Submit validates a draft and posts it to the approval surface. Nothing
// is recorded if the post cannot be created, so a failed submission
// leaves no state behind.
func (c *GuildCalendar) Submit(ctx context.Context, draft *model.EventDraft) (model.PostID, error) {
	evt, err := model.NewEvent(draft)
	if err != nil {
		return "", fmt.Errorf("model.NewEvent: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	id, err := c.sink.Post(ctx, c.settings.ApprovalChannel, approvalContent(evt, templates.Current().System.Pending))
	if err != nil {
		return "", fmt.Errorf("c.sink.Post: %w", err)
	}
	if err := c.sink.AddOptions(ctx, id, []model.Signal{model.SignalApprove, model.SignalDecline}); err != nil {
		c.logger.Warnw("attaching review options failed", "post", id, "err", err)
	}
	c.pending[id] = evt
	return id, nil
}

// SubmitEdit proposes a change to a published event. The target must
// still be on the calendar when the proposal arrives.
func (c *GuildCalendar) SubmitEdit(ctx context.Context, target model.PostID, edit *model.EventEdit) (model.PostID, error) {
	if edit.Empty() {
		return "", fmt.Errorf("edit changes nothing: %w", model.ErrInvalidDraft)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	evt, ok := c.published[target]
	if !ok {
		return "", fmt.Errorf("target event %s: %w", target, model.ErrNoRecord)
	}
	edit.Target = target
	id, err := c.sink.Post(ctx, c.settings.ApprovalChannel, editContent(edit, evt, templates.Current().System.EditProposed))
	if err != nil {
		return "", fmt.Errorf("c.sink.Post: %w", err)
	}
	if err := c.sink.AddOptions(ctx, id, []model.Signal{model.SignalApprove, model.SignalDecline}); err != nil {
		c.logger.Warnw("attaching review options failed", "post", id, "err", err)
	}
	c.edits[id] = edit
	return id, nil
}
