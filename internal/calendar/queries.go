package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/eventboardhq/eventboard-backend/internal/model"
)

type EntrySummary struct {
	Post        model.PostID    `json:"post_id"`
	Kind        model.EventKind `json:"kind"`
	Title       string          `json:"title"`
	Organizer   model.UserID    `json:"organizer"`
	StartTime   int64           `json:"start_time"`
	Subscribers int             `json:"subscribers"`
}

type LiveSummary struct {
	Post          model.PostID `json:"post_id"`
	Organizer     model.UserID `json:"organizer"`
	CountdownTime int64        `json:"countdown_time"`
	TimeoutLength int64        `json:"timeout_length"`
}

type EditSummary struct {
	Post   model.PostID `json:"post_id"`
	Target model.PostID `json:"target"`
}

type TenantOverview struct {
	Pending   []EntrySummary `json:"pending"`
	Published []EntrySummary `json:"published"`
	Live      []LiveSummary  `json:"live"`
	Edits     []EditSummary  `json:"edits"`
}

type Occurrence struct {
	Post      model.PostID    `json:"post_id"`
	Kind      model.EventKind `json:"kind"`
	Title     string          `json:"title"`
	Organizer model.UserID    `json:"organizer"`
	Start     time.Time       `json:"start"`
}

func summarize(id model.PostID, e model.Event) EntrySummary {
	b := e.Base()
	return EntrySummary{
		Post:        id,
		Kind:        e.Kind(),
		Title:       b.Title,
		Organizer:   b.Organizer,
		StartTime:   b.StartTime,
		Subscribers: len(b.Subscribers),
	}
}

// Overview lists every tracked entry of the tenant, ordered by post id.
func (c *GuildCalendar) Overview() *TenantOverview {
	c.mu.Lock()
	defer c.mu.Unlock()
	o := &TenantOverview{
		Pending:   []EntrySummary{},
		Published: []EntrySummary{},
		Live:      []LiveSummary{},
		Edits:     []EditSummary{},
	}
	for _, id := range sortedKeys(c.pending) {
		o.Pending = append(o.Pending, summarize(id, c.pending[id]))
	}
	for _, id := range sortedKeys(c.published) {
		o.Published = append(o.Published, summarize(id, c.published[id]))
	}
	for _, id := range sortedKeys(c.live) {
		a := c.live[id]
		o.Live = append(o.Live, LiveSummary{
			Post:          id,
			Organizer:     a.Organizer,
			CountdownTime: a.CountdownTime,
			TimeoutLength: a.TimeoutLength,
		})
	}
	for _, id := range sortedKeys(c.edits) {
		o.Edits = append(o.Edits, EditSummary{Post: id, Target: c.edits[id].Target})
	}
	return o
}

// UserEvents lists the published events a user organizes, the set they
// may propose edits against.
func (c *GuildCalendar) UserEvents(user model.UserID) []EntrySummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []EntrySummary{}
	for _, id := range sortedKeys(c.published) {
		if evt := c.published[id]; evt.Base().Organizer == user {
			out = append(out, summarize(id, evt))
		}
	}
	return out
}

// Expand materializes the occurrences of every published event inside
// [from, to]. Recurring events contribute one occurrence per cycle.
func (c *GuildCalendar) Expand(from, to time.Time) ([]Occurrence, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []Occurrence{}
	for _, id := range sortedKeys(c.published) {
		evt := c.published[id]
		b := evt.Base()
		start := time.Unix(b.StartTime, 0).UTC()
		rec, recurring := model.AsRecurring(evt)
		if !recurring {
			if !start.Before(from) && !start.After(to) {
				out = append(out, Occurrence{Post: id, Kind: evt.Kind(), Title: b.Title, Organizer: b.Organizer, Start: start})
			}
			continue
		}
		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:     rrule.DAILY,
			Interval: int(rec.RepeatDays),
			Dtstart:  start,
		})
		if err != nil {
			return nil, fmt.Errorf("rrule.NewRRule: %w", err)
		}
		for _, t := range rule.Between(from, to, true) {
			out = append(out, Occurrence{Post: id, Kind: evt.Kind(), Title: b.Title, Organizer: b.Organizer, Start: t})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].Post < out[j].Post
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}
