package api

import (
	"net/http"

	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/pkg/validator"
)

// acknowledgementHandler receives an acknowledgement change relayed by a
// platform adapter. The call is fire and forget: a stale or misdirected
// signal dies inside the calendar as a no-op, so the adapter always gets
// 202 back once the payload parses.
func (a *Api) acknowledgementHandler(w http.ResponseWriter, r *http.Request) {
	tenant, _, ok := a.tenantFromContext(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveTenant)
		return
	}

	req := &struct {
		PostID  string `json:"post_id"`
		Signal  string `json:"signal"`
		Actor   string `json:"actor"`
		Removed bool   `json:"removed"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.PostID != "", "post_id", "post_id must be provided")
	v.Check(req.Signal != "", "signal", "signal must be provided")
	v.Check(req.Actor != "", "actor", "actor must be provided")
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	a.events.OnAcknowledgement(r.Context(), tenant, model.PostID(req.PostID), model.Signal(req.Signal), model.UserID(req.Actor), req.Removed)
	w.WriteHeader(http.StatusAccepted)
}

// postDeletedHandler receives platform-side deletions, single or bulk.
func (a *Api) postDeletedHandler(w http.ResponseWriter, r *http.Request) {
	tenant, _, ok := a.tenantFromContext(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveTenant)
		return
	}

	req := &struct {
		PostIDs []string `json:"post_ids"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(len(req.PostIDs) != 0, "post_ids", "post_ids must be provided")
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	posts, _ := mapSlice(req.PostIDs, func(s string) (model.PostID, error) { return model.PostID(s), nil })
	a.events.OnPostsBulkDeleted(r.Context(), tenant, posts)
	w.WriteHeader(http.StatusAccepted)
}
