// Package notify abstracts the messaging platform the calendar posts to.
// The platform owns every post: it assigns the identifiers, and a post
// can disappear underneath us at any time.
package notify

import (
	"context"
	"errors"

	"github.com/eventboardhq/eventboard-backend/internal/model"
)

var ErrUnreachable = errors.New("notification target unreachable")
var ErrEmptyQueue = errors.New("content queue empty")

// Sink delivers rendered content to the platform. Post and PostDM return
// the platform-assigned identifier for the freshly created post; Repost
// replaces the content of an existing post in place, keeping its id.
type Sink interface {
	Post(ctx context.Context, channel model.ChannelID, content model.Content) (model.PostID, error)
	PostDM(ctx context.Context, user model.UserID, content model.Content) (model.PostID, error)
	Repost(ctx context.Context, id model.PostID, content model.Content) error
	Delete(ctx context.Context, id model.PostID) error
	AddOptions(ctx context.Context, id model.PostID, options []model.Signal) error
	OldestQueued(ctx context.Context, queue model.ChannelID) (*model.QueueItem, error)
}
