package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/eventboardhq/eventboard-backend/internal/calendar"
	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/pkg/jwt"
)

type contextKey string

const (
	contextKeyOperator = contextKey("operator")
	contextKeyTenantID = contextKey("tenant_id")
	contextKeyCalendar = contextKey("calendar")
)

var errCantRetrieveTenant = errors.New("can't retrieve tenant from context")

func (a *Api) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			a.unauthorizedResponse(w, r, errors.New("no token provided"))
			return
		}

		token = strings.TrimPrefix(token, "Bearer ")

		subject, err := a.jwts.GetSubjectFromToken(token)
		if err != nil {
			invalidTokenErr := &jwt.InvalidTokenError{}
			switch {
			case errors.As(err, &invalidTokenErr):
				a.unauthorizedResponse(w, r, invalidTokenErr)
			default:
				a.serverErrorResponse(w, r, err)
			}
			return
		}

		subjectContext := context.WithValue(r.Context(), contextKeyOperator, subject)
		next.ServeHTTP(w, r.WithContext(subjectContext))
	})
}

func (a *Api) tenantCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := model.TenantID(chi.URLParam(r, "tenantID"))
		if id == "" {
			a.notFoundResponse(w, r)
			return
		}

		cal, ok := a.calendars.Get(id)
		if !ok {
			a.notFoundResponse(w, r)
			return
		}

		tenantContext := context.WithValue(r.Context(), contextKeyTenantID, id)
		tenantContext = context.WithValue(tenantContext, contextKeyCalendar, cal)
		next.ServeHTTP(w, r.WithContext(tenantContext))
	})
}

func (a *Api) tenantFromContext(r *http.Request) (model.TenantID, *calendar.GuildCalendar, bool) {
	id, ok := r.Context().Value(contextKeyTenantID).(model.TenantID)
	if !ok {
		return "", nil, false
	}
	cal, ok := r.Context().Value(contextKeyCalendar).(*calendar.GuildCalendar)
	if !ok {
		return "", nil, false
	}
	return id, cal, true
}
