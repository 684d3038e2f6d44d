package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/eventboardhq/eventboard-backend/internal/calendar"
	"github.com/eventboardhq/eventboard-backend/internal/model"
)

type Api struct {
	handler http.Handler
	logger  *zap.SugaredLogger

	jwts      jwtManager
	calendars calendarRegistry
	events    eventDispatcher
}

type jwtManager interface {
	CreateToken(subject string) (string, error)
	GetSubjectFromToken(token string) (string, error)
}

type calendarRegistry interface {
	Setup(ctx context.Context, id model.TenantID, settings calendar.Settings) (*calendar.GuildCalendar, error)
	Get(id model.TenantID) (*calendar.GuildCalendar, bool)
	Tenants() []model.TenantID
	SaveTenant(ctx context.Context, id model.TenantID) error
}

type eventDispatcher interface {
	OnAcknowledgement(ctx context.Context, tenant model.TenantID, post model.PostID, signal model.Signal, actor model.UserID, removed bool)
	OnPostDeleted(ctx context.Context, tenant model.TenantID, post model.PostID)
	OnPostsBulkDeleted(ctx context.Context, tenant model.TenantID, posts []model.PostID)
}

func NewApi(
	logger *zap.SugaredLogger,
	jwts jwtManager,
	calendars calendarRegistry,
	events eventDispatcher,
) (*Api, error) {
	a := &Api{
		logger:    logger,
		jwts:      jwts,
		calendars: calendars,
		events:    events,
	}
	a.setupHandler()

	return a, nil
}

func (a *Api) setupHandler() {
	middleware.DefaultLogger = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.logger.Debugw(r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"protocol", r.Proto,
				"method", r.Method,
			)
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewMux()

	r.Use(middleware.Logger, middleware.Recoverer, middleware.StripSlashes)
	r.NotFound(a.notFoundResponse)
	r.MethodNotAllowed(a.methodNotAllowedResponse)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/token", a.createTokenHandler)
	})

	r.With(a.auth).Route("/tenants", func(r chi.Router) {
		r.Get("/", a.listTenantsHandler)
		r.Route("/{tenantID}", func(r chi.Router) {
			r.Put("/", a.setupTenantHandler)
			r.Group(func(r chi.Router) {
				r.Use(a.tenantCtx)
				r.Get("/", a.getTenantHandler)
				r.Post("/save", a.saveTenantHandler)
				r.Route("/events", func(r chi.Router) {
					r.Post("/", a.submitEventHandler)
					r.Get("/", a.listEventsHandler)
					r.Delete("/{postID}", a.forceDeleteHandler)
				})
				r.Get("/users/{userID}/events", a.userEventsHandler)
				r.Post("/edits", a.submitEditHandler)
				r.Route("/platform", func(r chi.Router) {
					r.Post("/acks", a.acknowledgementHandler)
					r.Post("/deletions", a.postDeletedHandler)
				})
			})
		})
	})

	a.handler = r
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
