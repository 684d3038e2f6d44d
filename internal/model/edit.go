package model

// EventEdit is a proposed change to a published event, held until staff
// decide on it. Nil fields are left untouched on merge.
type EventEdit struct {
	Target         PostID
	NewTitle       *string
	NewDescription *string
	NewImage       *string
	NewStartTime   *int64
}

func (e *EventEdit) Empty() bool {
	return e.NewTitle == nil && e.NewDescription == nil && e.NewImage == nil && e.NewStartTime == nil
}
