package api

import (
	"time"

	"github.com/eventboardhq/eventboard-backend/internal/calendar"
	"github.com/eventboardhq/eventboard-backend/internal/model"
)

type templatesReq struct {
	Accept       string `json:"accept,omitempty"`
	Reject       string `json:"reject,omitempty"`
	AcceptEdit   string `json:"accept_edit,omitempty"`
	RejectEdit   string `json:"reject_edit,omitempty"`
	SubscriberDM string `json:"subscriber_dm,omitempty"`
	OrganizerDM  string `json:"organizer_dm,omitempty"`
	NewEvent     string `json:"new_event,omitempty"`
	Announcement string `json:"announcement,omitempty"`
}

type settingsReq struct {
	ApprovalChannel string       `json:"approval_channel"`
	CalendarChannel string       `json:"calendar_channel"`
	StaffRole       string       `json:"staff_role,omitempty"`
	EventTimeout    int64        `json:"event_timeout,omitempty"`
	Templates       templatesReq `json:"templates"`
}

func mapToSettings(req *settingsReq) calendar.Settings {
	return calendar.Settings{
		ApprovalChannel: model.ChannelID(req.ApprovalChannel),
		CalendarChannel: model.ChannelID(req.CalendarChannel),
		StaffRole:       model.RoleID(req.StaffRole),
		EventTimeout:    req.EventTimeout,
		Templates: calendar.Templates{
			Accept:       req.Templates.Accept,
			Reject:       req.Templates.Reject,
			AcceptEdit:   req.Templates.AcceptEdit,
			RejectEdit:   req.Templates.RejectEdit,
			SubscriberDM: req.Templates.SubscriberDM,
			OrganizerDM:  req.Templates.OrganizerDM,
			NewEvent:     req.Templates.NewEvent,
			Announcement: req.Templates.Announcement,
		},
	}
}

type settingsResp struct {
	ApprovalChannel string `json:"approval_channel"`
	CalendarChannel string `json:"calendar_channel"`
	StaffRole       string `json:"staff_role,omitempty"`
	EventTimeout    int64  `json:"event_timeout"`
}

func mapToSettingsResp(s calendar.Settings) (*settingsResp, error) {
	return &settingsResp{
		ApprovalChannel: string(s.ApprovalChannel),
		CalendarChannel: string(s.CalendarChannel),
		StaffRole:       string(s.StaffRole),
		EventTimeout:    s.EventTimeout,
	}, nil
}

type entryResp struct {
	PostID      string `json:"post_id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Organizer   string `json:"organizer"`
	StartTime   int64  `json:"start_time"`
	Subscribers int    `json:"subscribers"`
}

func mapToEntryResp(e calendar.EntrySummary) (*entryResp, error) {
	return &entryResp{
		PostID:      string(e.Post),
		Kind:        string(e.Kind),
		Title:       e.Title,
		Organizer:   string(e.Organizer),
		StartTime:   e.StartTime,
		Subscribers: e.Subscribers,
	}, nil
}

type occurrenceResp struct {
	PostID    string `json:"post_id"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Organizer string `json:"organizer"`
	Start     string `json:"start"`
}

func mapToOccurrenceResp(o calendar.Occurrence) (*occurrenceResp, error) {
	return &occurrenceResp{
		PostID:    string(o.Post),
		Kind:      string(o.Kind),
		Title:     o.Title,
		Organizer: string(o.Organizer),
		Start:     o.Start.UTC().Format(time.RFC3339),
	}, nil
}
