package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/eventboardhq/eventboard-backend/internal/model"
)

// MemorySink keeps posts in process. It backs the development platform
// and the test suites; the Fail* fields let a test make a single
// operation misbehave.
type MemorySink struct {
	mu     sync.Mutex
	posts  map[model.PostID]*MemoryPost
	order  []model.PostID
	queues map[model.ChannelID][]model.PostID

	FailPost    error
	FailDM      error
	FailRepost  error
	FailDelete  error
	FailOptions error
	FailQueued  error
}

type MemoryPost struct {
	ID      model.PostID
	Channel model.ChannelID
	DM      model.UserID
	Content model.Content
	Options []model.Signal
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		posts:  make(map[model.PostID]*MemoryPost),
		queues: make(map[model.ChannelID][]model.PostID),
	}
}

func (s *MemorySink) Post(_ context.Context, channel model.ChannelID, content model.Content) (model.PostID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPost != nil {
		return "", s.FailPost
	}
	p := &MemoryPost{ID: model.PostID(uuid.NewString()), Channel: channel, Content: content}
	s.posts[p.ID] = p
	s.order = append(s.order, p.ID)
	return p.ID, nil
}

func (s *MemorySink) PostDM(_ context.Context, user model.UserID, content model.Content) (model.PostID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDM != nil {
		return "", s.FailDM
	}
	p := &MemoryPost{ID: model.PostID(uuid.NewString()), DM: user, Content: content}
	s.posts[p.ID] = p
	s.order = append(s.order, p.ID)
	return p.ID, nil
}

func (s *MemorySink) Repost(_ context.Context, id model.PostID, content model.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailRepost != nil {
		return s.FailRepost
	}
	p, ok := s.posts[id]
	if !ok {
		return fmt.Errorf("post %s: %w", id, ErrUnreachable)
	}
	p.Content = content
	return nil
}

func (s *MemorySink) Delete(_ context.Context, id model.PostID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete != nil {
		return s.FailDelete
	}
	p, ok := s.posts[id]
	if !ok {
		return fmt.Errorf("post %s: %w", id, ErrUnreachable)
	}
	delete(s.posts, id)
	q := s.queues[p.Channel]
	for i, qid := range q {
		if qid == id {
			s.queues[p.Channel] = append(q[:i], q[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemorySink) AddOptions(_ context.Context, id model.PostID, options []model.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOptions != nil {
		return s.FailOptions
	}
	p, ok := s.posts[id]
	if !ok {
		return fmt.Errorf("post %s: %w", id, ErrUnreachable)
	}
	p.Options = append(p.Options, options...)
	return nil
}

func (s *MemorySink) OldestQueued(_ context.Context, queue model.ChannelID) (*model.QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailQueued != nil {
		return nil, s.FailQueued
	}
	q := s.queues[queue]
	if len(q) == 0 {
		return nil, fmt.Errorf("queue %s: %w", queue, ErrEmptyQueue)
	}
	p := s.posts[q[0]]
	return &model.QueueItem{ID: p.ID, Content: p.Content.Text}, nil
}

// Seed appends a queued post to a content queue, oldest first.
func (s *MemorySink) Seed(queue model.ChannelID, text string) model.PostID {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &MemoryPost{ID: model.PostID(uuid.NewString()), Channel: queue, Content: model.Content{Text: text}}
	s.posts[p.ID] = p
	s.order = append(s.order, p.ID)
	s.queues[queue] = append(s.queues[queue], p.ID)
	return p.ID
}

// PostsIn returns the live posts of a channel in creation order.
func (s *MemorySink) PostsIn(channel model.ChannelID) []*MemoryPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*MemoryPost
	for _, id := range s.order {
		if p, ok := s.posts[id]; ok && p.Channel == channel {
			out = append(out, p)
		}
	}
	return out
}

// DMsTo returns the direct posts delivered to a user.
func (s *MemorySink) DMsTo(user model.UserID) []*MemoryPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*MemoryPost
	for _, id := range s.order {
		if p, ok := s.posts[id]; ok && p.DM == user {
			out = append(out, p)
		}
	}
	return out
}

// Lookup returns a post by id, nil when it has been deleted.
func (s *MemorySink) Lookup(id model.PostID) *MemoryPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posts[id]
}
