package model

// Identifiers are opaque strings assigned by the notification platform.
// PostID is the only primary key the calendar ever keeps for an entry.
type (
	TenantID  string
	PostID    string
	ChannelID string
	UserID    string
	RoleID    string
)

// Signal is an acknowledgement option attached to a post.
type Signal string

const (
	SignalApprove   Signal = "approve"
	SignalDecline   Signal = "decline"
	SignalSubscribe Signal = "subscribe"
	SignalEnd       Signal = "end"
)
