package model

import "fmt"

// Snapshot types are the storage form of a tenant calendar. Every store
// backend marshals exactly these structs, so the layouts are shared here
// rather than per driver.

type TenantSnapshot struct {
	ApprovalChannel string            `json:"approval_channel"`
	CalendarChannel string            `json:"calendar_channel"`
	StaffRole       string            `json:"staff_role,omitempty"`
	EventTimeout    int64             `json:"event_timeout"`
	Templates       map[string]string `json:"templates,omitempty"`

	PendingApproval map[string]*EventSnapshot        `json:"pending_approval,omitempty"`
	Published       map[string]*EventSnapshot        `json:"published,omitempty"`
	Live            map[string]*AnnouncementSnapshot `json:"live,omitempty"`
	PendingEdits    map[string]*EditSnapshot         `json:"pending_edits,omitempty"`
}

type EventSnapshot struct {
	Kind        string   `json:"kind"`
	Organizer   string   `json:"organizer"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	DMMessage   string   `json:"dm_message,omitempty"`
	StartTime   int64    `json:"start_time"`
	NotifyLead  int64    `json:"notify_lead"`
	Subscribers []string `json:"subscribers,omitempty"`

	QueueChannel  string `json:"queue_channel,omitempty"`
	TargetChannel string `json:"target_channel,omitempty"`
	PostTemplate  string `json:"post_template,omitempty"`
	PostBlocks    string `json:"post_blocks,omitempty"`
	RepeatDays    int64  `json:"repeat_days,omitempty"`
	Cancelled     bool   `json:"cancelled,omitempty"`
	Notified      bool   `json:"notified,omitempty"`
}

type AnnouncementSnapshot struct {
	Organizer     string `json:"organizer"`
	CountdownTime int64  `json:"countdown_time"`
	TimeoutLength int64  `json:"timeout_length"`
	Text          string `json:"text,omitempty"`
	Blocks        string `json:"blocks,omitempty"`
}

type EditSnapshot struct {
	Target         string  `json:"target"`
	NewTitle       *string `json:"new_title,omitempty"`
	NewDescription *string `json:"new_description,omitempty"`
	NewImage       *string `json:"new_image,omitempty"`
	NewStartTime   *int64  `json:"new_start_time,omitempty"`
}

func EventToSnapshot(e Event) *EventSnapshot {
	b := e.Base()
	s := &EventSnapshot{
		Kind:        string(e.Kind()),
		Organizer:   string(b.Organizer),
		Title:       b.Title,
		Description: b.Description,
		Image:       b.Image,
		DMMessage:   b.DMMessage,
		StartTime:   b.StartTime,
		NotifyLead:  b.NotifyLead,
	}
	for _, u := range b.Subscribers {
		s.Subscribers = append(s.Subscribers, string(u))
	}
	if r, ok := AsRecurring(e); ok {
		s.QueueChannel = string(r.QueueChannel)
		s.TargetChannel = string(r.TargetChannel)
		s.PostTemplate = r.PostTemplate
		s.PostBlocks = r.PostBlocks
		s.RepeatDays = r.RepeatDays
		s.Cancelled = r.Cancelled
		s.Notified = r.Notified
	}
	return s
}

// EventFromSnapshot rebuilds an event. The notify time is derived, not
// stored, so a hand-edited start time stays consistent after a reload.
func EventFromSnapshot(s *EventSnapshot) (Event, error) {
	d := &EventDraft{
		Kind:          EventKind(s.Kind),
		Organizer:     UserID(s.Organizer),
		Title:         s.Title,
		Description:   s.Description,
		Image:         s.Image,
		DMMessage:     s.DMMessage,
		StartTime:     s.StartTime,
		NotifyLead:    s.NotifyLead,
		QueueChannel:  ChannelID(s.QueueChannel),
		TargetChannel: ChannelID(s.TargetChannel),
		PostTemplate:  s.PostTemplate,
		PostBlocks:    s.PostBlocks,
		RepeatDays:    s.RepeatDays,
	}
	e, err := NewEvent(d)
	if err != nil {
		return nil, fmt.Errorf("NewEvent: %w", err)
	}
	for _, u := range s.Subscribers {
		e.Base().Subscribe(UserID(u))
	}
	if r, ok := AsRecurring(e); ok {
		r.Cancelled = s.Cancelled
		r.Notified = s.Notified
	}
	return e, nil
}

func AnnouncementToSnapshot(a *OngoingAnnouncement) *AnnouncementSnapshot {
	return &AnnouncementSnapshot{
		Organizer:     string(a.Organizer),
		CountdownTime: a.CountdownTime,
		TimeoutLength: a.TimeoutLength,
		Text:          a.Content.Text,
		Blocks:        a.Content.Blocks,
	}
}

func AnnouncementFromSnapshot(s *AnnouncementSnapshot) *OngoingAnnouncement {
	return &OngoingAnnouncement{
		Organizer:     UserID(s.Organizer),
		CountdownTime: s.CountdownTime,
		TimeoutLength: s.TimeoutLength,
		Content:       Content{Text: s.Text, Blocks: s.Blocks},
	}
}

func EditToSnapshot(e *EventEdit) *EditSnapshot {
	return &EditSnapshot{
		Target:         string(e.Target),
		NewTitle:       e.NewTitle,
		NewDescription: e.NewDescription,
		NewImage:       e.NewImage,
		NewStartTime:   e.NewStartTime,
	}
}

func EditFromSnapshot(s *EditSnapshot) (*EventEdit, error) {
	if s.Target == "" {
		return nil, fmt.Errorf("edit without a target")
	}
	return &EventEdit{
		Target:         PostID(s.Target),
		NewTitle:       s.NewTitle,
		NewDescription: s.NewDescription,
		NewImage:       s.NewImage,
		NewStartTime:   s.NewStartTime,
	}, nil
}
