package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/pkg/validator"
)

func (a *Api) submitEventHandler(w http.ResponseWriter, r *http.Request) {
	_, cal, ok := a.tenantFromContext(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveTenant)
		return
	}

	req := &struct {
		Kind          string `json:"kind"`
		Organizer     string `json:"organizer"`
		Title         string `json:"title"`
		Description   string `json:"description"`
		Image         string `json:"image"`
		DMMessage     string `json:"dm_message"`
		StartTime     int64  `json:"start_time"`
		NotifyLead    int64  `json:"notify_lead"`
		QueueChannel  string `json:"queue_channel"`
		TargetChannel string `json:"target_channel"`
		PostTemplate  string `json:"post_template"`
		PostBlocks    string `json:"post_blocks"`
		RepeatDays    int64  `json:"repeat_days"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.Kind == string(model.KindOneShot) || req.Kind == string(model.KindRecurring), "kind", "kind must be one_shot or recurring")
	v.Check(req.Organizer != "", "organizer", "organizer must be provided")
	v.Check(req.Title != "", "title", "title must be provided")
	v.Check(req.StartTime > 0, "start_time", "start_time must be provided")
	v.Check(req.NotifyLead >= 0, "notify_lead", "notify_lead must not be negative")

	if req.Kind == string(model.KindRecurring) {
		v.Check(req.QueueChannel != "", "queue_channel", "queue_channel must be provided")
		v.Check(req.TargetChannel != "", "target_channel", "target_channel must be provided")
		v.Check(req.RepeatDays >= 1, "repeat_days", "repeat_days must be at least 1")
		v.Check(req.NotifyLead <= req.RepeatDays*24*60*60, "notify_lead", "notify_lead must not exceed the repeat interval")
	}

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	id, err := cal.Submit(r.Context(), &model.EventDraft{
		Kind:          model.EventKind(req.Kind),
		Organizer:     model.UserID(req.Organizer),
		Title:         req.Title,
		Description:   req.Description,
		Image:         req.Image,
		DMMessage:     req.DMMessage,
		StartTime:     req.StartTime,
		NotifyLead:    req.NotifyLead,
		QueueChannel:  model.ChannelID(req.QueueChannel),
		TargetChannel: model.ChannelID(req.TargetChannel),
		PostTemplate:  req.PostTemplate,
		PostBlocks:    req.PostBlocks,
		RepeatDays:    req.RepeatDays,
	})
	if err != nil {
		if errors.Is(err, model.ErrInvalidDraft) {
			a.badRequestResponse(w, r, err)
			return
		}
		a.serverErrorResponse(w, r, fmt.Errorf("submit event: %w", err))
		return
	}

	resp := &struct {
		PostID string `json:"post_id"`
	}{PostID: string(id)}

	if err := a.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) listEventsHandler(w http.ResponseWriter, r *http.Request) {
	_, cal, ok := a.tenantFromContext(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveTenant)
		return
	}

	from, to, err := parseEventsQuery(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	occurrences, err := cal.Expand(from, to)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("expand events: %w", err))
		return
	}

	events, _ := mapSlice(occurrences, mapToOccurrenceResp)

	resp := &struct {
		Events []*occurrenceResp `json:"events"`
	}{Events: events}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) userEventsHandler(w http.ResponseWriter, r *http.Request) {
	_, cal, ok := a.tenantFromContext(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveTenant)
		return
	}

	user := model.UserID(chi.URLParam(r, "userID"))
	if user == "" {
		a.notFoundResponse(w, r)
		return
	}

	events, _ := mapSlice(cal.UserEvents(user), mapToEntryResp)

	resp := &struct {
		Events []*entryResp `json:"events"`
	}{Events: events}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) submitEditHandler(w http.ResponseWriter, r *http.Request) {
	_, cal, ok := a.tenantFromContext(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveTenant)
		return
	}

	req := &struct {
		Target         string  `json:"target"`
		NewTitle       *string `json:"new_title"`
		NewDescription *string `json:"new_description"`
		NewImage       *string `json:"new_image"`
		NewStartTime   *int64  `json:"new_start_time"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.Target != "", "target", "target must be provided")
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	id, err := cal.SubmitEdit(r.Context(), model.PostID(req.Target), &model.EventEdit{
		NewTitle:       req.NewTitle,
		NewDescription: req.NewDescription,
		NewImage:       req.NewImage,
		NewStartTime:   req.NewStartTime,
	})
	if err != nil {
		if errors.Is(err, model.ErrNoRecord) {
			a.notFoundResponse(w, r)
			return
		}
		if errors.Is(err, model.ErrInvalidDraft) {
			a.badRequestResponse(w, r, err)
			return
		}
		a.serverErrorResponse(w, r, fmt.Errorf("submit edit: %w", err))
		return
	}

	resp := &struct {
		PostID string `json:"post_id"`
	}{PostID: string(id)}

	if err := a.writeJSON(w, http.StatusCreated, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) forceDeleteHandler(w http.ResponseWriter, r *http.Request) {
	tenant, _, ok := a.tenantFromContext(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveTenant)
		return
	}

	post := model.PostID(chi.URLParam(r, "postID"))
	if post == "" {
		a.notFoundResponse(w, r)
		return
	}

	a.events.OnPostDeleted(r.Context(), tenant, post)
	w.WriteHeader(http.StatusNoContent)
}

func parseEventsQuery(r *http.Request) (time.Time, time.Time, error) {
	v := r.URL.Query().Get("from")
	if v == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("from must be provided")
	}
	from, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time format: %w", err)
	}

	v = r.URL.Query().Get("to")
	if v == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("to must be provided")
	}
	to, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time format: %w", err)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must not be before from")
	}

	return from, to, nil
}
