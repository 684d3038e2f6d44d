package calendar

import (
	"fmt"

	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/templates"
)

const defaultEventTimeout = 10 * 60 * 60

type Settings struct {
	ApprovalChannel model.ChannelID
	CalendarChannel model.ChannelID
	StaffRole       model.RoleID
	EventTimeout    int64
	Templates       Templates
}

// Templates are the tenant's message templates. Empty fields fall back to
// the catalog defaults at setup time.
type Templates struct {
	Accept       string
	Reject       string
	AcceptEdit   string
	RejectEdit   string
	SubscriberDM string
	OrganizerDM  string
	NewEvent     string
	Announcement string
}

func (s Settings) withDefaults() Settings {
	def := templates.Current().Tenant
	t := &s.Templates
	if t.Accept == "" {
		t.Accept = def.Accept
	}
	if t.Reject == "" {
		t.Reject = def.Reject
	}
	if t.AcceptEdit == "" {
		t.AcceptEdit = def.AcceptEdit
	}
	if t.RejectEdit == "" {
		t.RejectEdit = def.RejectEdit
	}
	if t.SubscriberDM == "" {
		t.SubscriberDM = def.SubscriberDM
	}
	if t.OrganizerDM == "" {
		t.OrganizerDM = def.OrganizerDM
	}
	if t.NewEvent == "" {
		t.NewEvent = def.NewEvent
	}
	if t.Announcement == "" {
		t.Announcement = def.Announcement
	}
	if s.EventTimeout <= 0 {
		s.EventTimeout = defaultEventTimeout
	}
	return s
}

func (s Settings) validate() error {
	if s.ApprovalChannel == "" {
		return fmt.Errorf("missing approval channel")
	}
	if s.CalendarChannel == "" {
		return fmt.Errorf("missing calendar channel")
	}
	return nil
}

func settingsToSnapshot(s Settings) *model.TenantSnapshot {
	return &model.TenantSnapshot{
		ApprovalChannel: string(s.ApprovalChannel),
		CalendarChannel: string(s.CalendarChannel),
		StaffRole:       string(s.StaffRole),
		EventTimeout:    s.EventTimeout,
		Templates: map[string]string{
			"accept":        s.Templates.Accept,
			"reject":        s.Templates.Reject,
			"accept_edit":   s.Templates.AcceptEdit,
			"reject_edit":   s.Templates.RejectEdit,
			"subscriber_dm": s.Templates.SubscriberDM,
			"organizer_dm":  s.Templates.OrganizerDM,
			"new_event":     s.Templates.NewEvent,
			"announcement":  s.Templates.Announcement,
		},
	}
}

func settingsFromSnapshot(snap *model.TenantSnapshot) (Settings, error) {
	s := Settings{
		ApprovalChannel: model.ChannelID(snap.ApprovalChannel),
		CalendarChannel: model.ChannelID(snap.CalendarChannel),
		StaffRole:       model.RoleID(snap.StaffRole),
		EventTimeout:    snap.EventTimeout,
		Templates: Templates{
			Accept:       snap.Templates["accept"],
			Reject:       snap.Templates["reject"],
			AcceptEdit:   snap.Templates["accept_edit"],
			RejectEdit:   snap.Templates["reject_edit"],
			SubscriberDM: snap.Templates["subscriber_dm"],
			OrganizerDM:  snap.Templates["organizer_dm"],
			NewEvent:     snap.Templates["new_event"],
			Announcement: snap.Templates["announcement"],
		},
	}
	s = s.withDefaults()
	if err := s.validate(); err != nil {
		return Settings{}, fmt.Errorf("s.validate: %w", err)
	}
	return s, nil
}
