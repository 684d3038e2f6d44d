package model

import (
	"fmt"
	"strings"
	"time"
)

const daySeconds = 24 * 60 * 60

type EventKind string

const (
	KindOneShot   EventKind = "one_shot"
	KindRecurring EventKind = "recurring"
)

type EventDraft struct {
	Kind        EventKind
	Organizer   UserID
	Title       string
	Description string
	Image       string
	DMMessage   string
	StartTime   int64
	NotifyLead  int64

	QueueChannel  ChannelID
	TargetChannel ChannelID
	PostTemplate  string
	PostBlocks    string
	RepeatDays    int64
}

func (d *EventDraft) Validate() error {
	switch {
	case d.Kind != KindOneShot && d.Kind != KindRecurring:
		return fmt.Errorf("unknown kind %q: %w", d.Kind, ErrInvalidDraft)
	case d.Organizer == "":
		return fmt.Errorf("missing organizer: %w", ErrInvalidDraft)
	case d.Title == "":
		return fmt.Errorf("missing title: %w", ErrInvalidDraft)
	case d.StartTime <= 0:
		return fmt.Errorf("missing start time: %w", ErrInvalidDraft)
	case d.NotifyLead < 0:
		return fmt.Errorf("negative notify lead: %w", ErrInvalidDraft)
	}
	if d.Kind != KindRecurring {
		return nil
	}
	switch {
	case d.QueueChannel == "":
		return fmt.Errorf("missing queue channel: %w", ErrInvalidDraft)
	case d.TargetChannel == "":
		return fmt.Errorf("missing target channel: %w", ErrInvalidDraft)
	case d.RepeatDays < 1:
		return fmt.Errorf("repeat interval below one day: %w", ErrInvalidDraft)
	case d.NotifyLead > d.RepeatDays*daySeconds:
		return fmt.Errorf("notify lead longer than repeat interval: %w", ErrInvalidDraft)
	}
	return nil
}

// NewEvent validates the draft and builds the concrete event variant.
func NewEvent(d *EventDraft) (Event, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("d.Validate: %w", err)
	}
	base := EventBase{
		Organizer:   d.Organizer,
		Title:       d.Title,
		Description: d.Description,
		Image:       d.Image,
		DMMessage:   d.DMMessage,
		StartTime:   d.StartTime,
		NotifyLead:  d.NotifyLead,
		NotifyTime:  d.StartTime - d.NotifyLead,
	}
	if d.Kind == KindOneShot {
		return &OneShotEvent{EventBase: base}, nil
	}
	return &RecurringEvent{
		EventBase:     base,
		QueueChannel:  d.QueueChannel,
		TargetChannel: d.TargetChannel,
		PostTemplate:  d.PostTemplate,
		PostBlocks:    d.PostBlocks,
		RepeatDays:    d.RepeatDays,
	}, nil
}

// Event is a tracked calendar entry. Implementations are *OneShotEvent
// and *RecurringEvent.
type Event interface {
	Kind() EventKind
	Base() *EventBase
	TimeToNotify(now time.Time) bool
	TimeToStart(now time.Time) bool
}

type EventBase struct {
	Organizer   UserID
	Title       string
	Description string
	Image       string
	DMMessage   string
	StartTime   int64
	NotifyLead  int64
	NotifyTime  int64
	Subscribers []UserID
}

func (b *EventBase) TimeToNotify(now time.Time) bool {
	return now.Unix() >= b.NotifyTime
}

func (b *EventBase) TimeToStart(now time.Time) bool {
	return now.Unix() >= b.StartTime
}

// Merge applies the non-nil fields of an edit. A changed start time
// recomputes the notify time from the kept lead.
func (b *EventBase) Merge(e *EventEdit) {
	if e.NewTitle != nil {
		b.Title = *e.NewTitle
	}
	if e.NewDescription != nil {
		b.Description = *e.NewDescription
	}
	if e.NewImage != nil {
		b.Image = *e.NewImage
	}
	if e.NewStartTime != nil {
		b.StartTime = *e.NewStartTime
		b.NotifyTime = b.StartTime - b.NotifyLead
	}
}

func (b *EventBase) Subscribe(user UserID) {
	for _, u := range b.Subscribers {
		if u == user {
			return
		}
	}
	b.Subscribers = append(b.Subscribers, user)
}

func (b *EventBase) Unsubscribe(user UserID) bool {
	for i, u := range b.Subscribers {
		if u == user {
			b.Subscribers = append(b.Subscribers[:i], b.Subscribers[i+1:]...)
			return true
		}
	}
	return false
}

// Recipients lists everyone a reminder goes to, organizer last.
func (b *EventBase) Recipients() []UserID {
	out := make([]UserID, 0, len(b.Subscribers)+1)
	out = append(out, b.Subscribers...)
	return append(out, b.Organizer)
}

// FormatVars substitutes the event placeholders a tenant template may use.
func (b *EventBase) FormatVars(s string, target UserID) string {
	r := strings.NewReplacer(
		"%NAME%", string(b.Organizer),
		"%TITLE%", b.Title,
		"%DESC%", b.Description,
		"%DM_MSG%", b.DMMessage,
		"%NOTIF_NAME%", string(target),
	)
	return r.Replace(s)
}

type OneShotEvent struct {
	EventBase
}

func (e *OneShotEvent) Kind() EventKind { return KindOneShot }
func (e *OneShotEvent) Base() *EventBase {
	return &e.EventBase
}

type RecurringEvent struct {
	EventBase
	QueueChannel  ChannelID
	TargetChannel ChannelID
	PostTemplate  string
	PostBlocks    string
	RepeatDays    int64

	// Cycle state. NextContent is a handle into the external queue and
	// is never persisted; the flags survive restarts.
	NextContent *QueueItem
	Cancelled   bool
	Notified    bool
}

func (e *RecurringEvent) Kind() EventKind { return KindRecurring }
func (e *RecurringEvent) Base() *EventBase {
	return &e.EventBase
}

// Advance moves the start time forward by whole repeat intervals until it
// is in the future, recomputes the notify time and opens a fresh cycle.
func (e *RecurringEvent) Advance(now time.Time) {
	for e.TimeToStart(now) {
		e.StartTime += e.RepeatDays * daySeconds
	}
	e.NotifyTime = e.StartTime - e.NotifyLead
	e.Cancelled = false
	e.Notified = false
}

// AsRecurring unwraps the recurring variant of an event, if that is what
// it is.
func AsRecurring(e Event) (*RecurringEvent, bool) {
	r, ok := e.(*RecurringEvent)
	return r, ok
}
