package model

import "time"

// Content is what gets rendered into a post: a text line plus an opaque
// structured payload the platform lays out however it likes.
type Content struct {
	Text   string `json:"text"`
	Blocks string `json:"blocks,omitempty"`
}

// QueueItem is one queued post pulled from a content queue channel.
type QueueItem struct {
	ID      PostID
	Content string
}

// OngoingAnnouncement is a live happening-now post. It keeps its own copy
// of the rendered content so it can be re-rendered after a resync.
type OngoingAnnouncement struct {
	Organizer     UserID
	CountdownTime int64
	TimeoutLength int64
	Content       Content
}

func (a *OngoingAnnouncement) TimedOut(now time.Time) bool {
	return now.Unix() >= a.CountdownTime+a.TimeoutLength
}
