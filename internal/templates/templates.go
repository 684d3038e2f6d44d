// Package templates holds the message string catalog. Tenants get a copy
// of the tenant section as their starting templates; the system section
// is fixed wording for banners and confirmations.
package templates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Tenant TenantTemplates `yaml:"tenant"`
	System SystemStrings   `yaml:"system"`
}

// TenantTemplates are the per-tenant message templates, overridable at
// setup time. Placeholders: %NAME%, %TITLE%, %DESC%, %DM_MSG%,
// %NOTIF_NAME%.
type TenantTemplates struct {
	Accept       string `yaml:"accept"`
	Reject       string `yaml:"reject"`
	AcceptEdit   string `yaml:"accept_edit"`
	RejectEdit   string `yaml:"reject_edit"`
	SubscriberDM string `yaml:"subscriber_dm"`
	OrganizerDM  string `yaml:"organizer_dm"`
	NewEvent     string `yaml:"new_event"`
	Announcement string `yaml:"announcement"`
}

type SystemStrings struct {
	Approved     string `yaml:"approved"`
	Declined     string `yaml:"declined"`
	EditProposed string `yaml:"edit_proposed"`
	EditApproved string `yaml:"edit_approved"`
	EditDeclined string `yaml:"edit_declined"`
	EventDeleted string `yaml:"event_deleted"`
	Subscribed   string `yaml:"subscribed"`
	Unsubscribed string `yaml:"unsubscribed"`
	Pending      string `yaml:"pending"`
}

var current = Defaults()

func Defaults() *Catalog {
	return &Catalog{
		Tenant: TenantTemplates{
			Accept:       "Your event %TITLE% has been approved and is now on the calendar.",
			Reject:       "Your event %TITLE% was declined by the staff.",
			AcceptEdit:   "Your edit to %TITLE% has been applied.",
			RejectEdit:   "Your edit to %TITLE% was declined by the staff.",
			SubscriberDM: "%TITLE% is starting soon: %DM_MSG%",
			OrganizerDM:  "Your event %TITLE% is starting soon.",
			NewEvent:     "New event: %TITLE% by %NAME%",
			Announcement: "%TITLE% is happening now!",
		},
		System: SystemStrings{
			Approved:     "Approved",
			Declined:     "Declined",
			EditProposed: "Proposed edit",
			EditApproved: "Edit approved",
			EditDeclined: "Edit declined",
			EventDeleted: "An event has been removed from the calendar.",
			Subscribed:   "You will be reminded about %TITLE%.",
			Unsubscribed: "You will no longer be reminded about %TITLE%.",
			Pending:      "Awaiting review",
		},
	}
}

// Load replaces the catalog with the file contents layered over the
// defaults, so a partial file only overrides what it names.
func Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("os.ReadFile: %w", err)
	}
	c := Defaults()
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("yaml.Unmarshal: %w", err)
	}
	current = c
	return nil
}

func Current() *Catalog {
	return current
}
