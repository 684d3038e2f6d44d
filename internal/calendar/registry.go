package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/notify"
)

// Store persists tenant snapshots. Implementations live under the
// storage packages; which one backs the process is a deployment choice.
type Store interface {
	LoadAll(ctx context.Context) (map[model.TenantID]*model.TenantSnapshot, error)
	Save(ctx context.Context, id model.TenantID, snap *model.TenantSnapshot) error
}

// Registry holds the calendar of every configured tenant.
type Registry struct {
	mu        sync.RWMutex
	calendars map[model.TenantID]*GuildCalendar

	store  Store
	sink   notify.Sink
	logger *zap.SugaredLogger
}

func NewRegistry(store Store, sink notify.Sink, logger *zap.SugaredLogger) *Registry {
	return &Registry{
		calendars: make(map[model.TenantID]*GuildCalendar),
		store:     store,
		sink:      sink,
		logger:    logger,
	}
}

// LoadAll hydrates every stored tenant. A tenant whose snapshot cannot be
// read is skipped with an error log rather than failing startup.
func (r *Registry) LoadAll(ctx context.Context) error {
	snaps, err := r.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("r.store.LoadAll: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, snap := range snaps {
		cal, err := FromSnapshot(snap, r.sink, r.logger)
		if err != nil {
			r.logger.Errorw("skipping tenant with unreadable state", "tenant", id, "err", err)
			continue
		}
		r.calendars[id] = cal
	}
	r.logger.Infow("calendars loaded", "tenants", len(r.calendars))
	return nil
}

func (r *Registry) Get(id model.TenantID) (*GuildCalendar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cal, ok := r.calendars[id]
	return cal, ok
}

func (r *Registry) Tenants() []model.TenantID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.TenantID, 0, len(r.calendars))
	for id := range r.calendars {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Setup configures a tenant, creating it on first call. Reconfiguring an
// existing tenant carries all tracked entries over; a surface whose
// channel moved gets its posts re-rendered in the new place, a surface
// whose channel stayed put is left untouched.
func (r *Registry) Setup(ctx context.Context, id model.TenantID, settings Settings) (*GuildCalendar, error) {
	settings = settings.withDefaults()
	if err := settings.validate(); err != nil {
		return nil, fmt.Errorf("settings.validate: %w", err)
	}

	r.mu.Lock()
	old := r.calendars[id]
	cal := New(settings, r.sink, r.logger)
	if old != nil {
		cal.adoptState(old)
	}
	r.calendars[id] = cal
	r.mu.Unlock()

	if old != nil {
		prev := old.Settings()
		if prev.CalendarChannel != settings.CalendarChannel {
			if err := cal.ResyncCalendar(ctx); err != nil {
				return nil, fmt.Errorf("cal.ResyncCalendar: %w", err)
			}
		}
		if prev.ApprovalChannel != settings.ApprovalChannel {
			if err := cal.ResyncApproval(ctx); err != nil {
				return nil, fmt.Errorf("cal.ResyncApproval: %w", err)
			}
		}
	}
	if err := r.store.Save(ctx, id, cal.Snapshot()); err != nil {
		return nil, fmt.Errorf("r.store.Save: %w", err)
	}
	return cal, nil
}

// SweepAll runs the scheduler passes for every tenant, tenants in
// parallel.
func (r *Registry) SweepAll(ctx context.Context, now time.Time) error {
	ids := r.Tenants()
	wg, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		wg.Go(func() error {
			cal, ok := r.Get(id)
			if !ok {
				return nil
			}
			return cal.Sweep(ctx, now)
		})
	}
	return wg.Wait()
}

// SaveAll snapshots every tenant to the store.
func (r *Registry) SaveAll(ctx context.Context) error {
	ids := r.Tenants()
	wg, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		wg.Go(func() error {
			cal, ok := r.Get(id)
			if !ok {
				return nil
			}
			if err := r.store.Save(ctx, id, cal.Snapshot()); err != nil {
				return fmt.Errorf("saving tenant %s: %w", id, err)
			}
			return nil
		})
	}
	return wg.Wait()
}

func (r *Registry) SaveTenant(ctx context.Context, id model.TenantID) error {
	cal, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("tenant %s: %w", id, model.ErrNoRecord)
	}
	if err := r.store.Save(ctx, id, cal.Snapshot()); err != nil {
		return fmt.Errorf("r.store.Save: %w", err)
	}
	return nil
}
