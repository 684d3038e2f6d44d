package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventboardhq/eventboard-backend/internal/calendar"
	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/pkg/validator"
)

// setupTenantHandler creates or reconfigures a tenant. Reconfiguring
// with changed channels makes the calendar re-render every tracked post
// into the new place.
func (a *Api) setupTenantHandler(w http.ResponseWriter, r *http.Request) {
	id := model.TenantID(chi.URLParam(r, "tenantID"))
	if id == "" {
		a.notFoundResponse(w, r)
		return
	}

	req := &settingsReq{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(req.ApprovalChannel != "", "approval_channel", "approval_channel must be provided")
	v.Check(req.CalendarChannel != "", "calendar_channel", "calendar_channel must be provided")
	v.Check(req.EventTimeout >= 0, "event_timeout", "event_timeout must not be negative")
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	cal, err := a.calendars.Setup(r.Context(), id, mapToSettings(req))
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("setup tenant: %w", err))
		return
	}

	resp, _ := mapToSettingsResp(cal.Settings())
	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) listTenantsHandler(w http.ResponseWriter, r *http.Request) {
	resp := &struct {
		Tenants []model.TenantID `json:"tenants"`
	}{Tenants: a.calendars.Tenants()}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getTenantHandler(w http.ResponseWriter, r *http.Request) {
	_, cal, ok := a.tenantFromContext(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveTenant)
		return
	}

	settings, _ := mapToSettingsResp(cal.Settings())
	resp := &struct {
		Settings *settingsResp            `json:"settings"`
		Overview *calendar.TenantOverview `json:"overview"`
	}{Settings: settings, Overview: cal.Overview()}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

// saveTenantHandler forces an immediate snapshot, the manual counterpart
// of the periodic autosave.
func (a *Api) saveTenantHandler(w http.ResponseWriter, r *http.Request) {
	tenant, _, ok := a.tenantFromContext(r)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveTenant)
		return
	}

	if err := a.calendars.SaveTenant(r.Context(), tenant); err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("save tenant: %w", err))
		return
	}

	w.WriteHeader(http.StatusOK)
}
