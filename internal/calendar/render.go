package calendar

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eventboardhq/eventboard-backend/internal/model"
)

// blockPayload carries the structured event fields; the platform decides
// how to lay them out.
func blockPayload(e model.Event) string {
	b := e.Base()
	payload := map[string]any{
		"kind":        e.Kind(),
		"title":       b.Title,
		"description": b.Description,
		"image":       b.Image,
		"organizer":   b.Organizer,
		"start_time":  b.StartTime,
		"notify_lead": b.NotifyLead,
	}
	if r, ok := model.AsRecurring(e); ok {
		payload["repeat_days"] = r.RepeatDays
		payload["target_channel"] = r.TargetChannel
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func approvalContent(e model.Event, banner string) model.Content {
	b := e.Base()
	return model.Content{
		Text:   fmt.Sprintf("%s: %s by %s", banner, b.Title, b.Organizer),
		Blocks: blockPayload(e),
	}
}

func editContent(edit *model.EventEdit, target model.Event, banner string) model.Content {
	payload := map[string]any{"target": edit.Target}
	if edit.NewTitle != nil {
		payload["new_title"] = *edit.NewTitle
	}
	if edit.NewDescription != nil {
		payload["new_description"] = *edit.NewDescription
	}
	if edit.NewImage != nil {
		payload["new_image"] = *edit.NewImage
	}
	if edit.NewStartTime != nil {
		payload["new_start_time"] = *edit.NewStartTime
	}
	raw, _ := json.Marshal(payload)
	return model.Content{
		Text:   fmt.Sprintf("%s: %s by %s", banner, target.Base().Title, target.Base().Organizer),
		Blocks: string(raw),
	}
}

func calendarContent(e model.Event, tmpl string) model.Content {
	return model.Content{
		Text:   e.Base().FormatVars(tmpl, e.Base().Organizer),
		Blocks: blockPayload(e),
	}
}

func announcementContent(e model.Event, tmpl string) model.Content {
	return calendarContent(e, tmpl)
}

// queuedContent expands the queued text into the recurring post template.
// A template-less event posts the queued content as is.
func queuedContent(rec *model.RecurringEvent, item string) model.Content {
	tmpl := rec.PostTemplate
	if tmpl == "" && rec.PostBlocks == "" {
		tmpl = "%CONTENT%"
	}
	return model.Content{
		Text:   strings.ReplaceAll(tmpl, "%CONTENT%", item),
		Blocks: strings.ReplaceAll(rec.PostBlocks, "%CONTENT%", item),
	}
}

func dmContent(tmpl string, e model.Event, target model.UserID) model.Content {
	return model.Content{Text: e.Base().FormatVars(tmpl, target)}
}

func noticeContent(banner, title string) model.Content {
	return model.Content{Text: fmt.Sprintf("%s (%s)", banner, title)}
}
