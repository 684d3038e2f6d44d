package calendar

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventboardhq/eventboard-backend/internal/database/memory"
	"github.com/eventboardhq/eventboard-backend/internal/model"
	"github.com/eventboardhq/eventboard-backend/internal/notify"
	"github.com/eventboardhq/eventboard-backend/internal/templates"
)

func newTestRegistry(t *testing.T) (*Registry, *memory.Store, *notify.MemorySink) {
	t.Helper()
	store := memory.NewStore()
	sink := notify.NewMemorySink()
	return NewRegistry(store, sink, zap.NewNop().Sugar()), store, sink
}

func TestRegistry_SetupCreatesTenant(t *testing.T) {
	r, store, _ := newTestRegistry(t)

	cal, err := r.Setup(context.Background(), "guild-1", Settings{
		ApprovalChannel: approvalChan,
		CalendarChannel: calendarChan,
	})
	require.NoError(t, err)

	got, ok := r.Get("guild-1")
	require.True(t, ok)
	assert.Same(t, cal, got)
	assert.Equal(t, []model.TenantID{"guild-1"}, r.Tenants())

	// Defaults fill in and the tenant is persisted right away.
	s := cal.Settings()
	assert.Equal(t, int64(defaultEventTimeout), s.EventTimeout)
	assert.Equal(t, templates.Defaults().Tenant.Accept, s.Templates.Accept)

	snap := store.Stored("guild-1")
	require.NotNil(t, snap)
	assert.Equal(t, string(approvalChan), snap.ApprovalChannel)
	assert.Equal(t, string(calendarChan), snap.CalendarChannel)
}

func TestRegistry_SetupRejectsMissingChannels(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	_, err := r.Setup(context.Background(), "guild-1", Settings{ApprovalChannel: approvalChan})
	assert.Error(t, err)
	_, ok := r.Get("guild-1")
	assert.False(t, ok)
}

func TestRegistry_SetupReconfigureMovesSurfaces(t *testing.T) {
	r, _, sink := newTestRegistry(t)
	cal, err := r.Setup(context.Background(), "guild-1", Settings{
		ApprovalChannel: approvalChan,
		CalendarChannel: calendarChan,
	})
	require.NoError(t, err)

	published := publish(t, cal, oneShotDraft())
	pending := submit(t, cal, recurringDraft())
	title := "Game night"
	editID, err := cal.SubmitEdit(context.Background(), published, &model.EventEdit{NewTitle: &title})
	require.NoError(t, err)

	moved, err := r.Setup(context.Background(), "guild-1", Settings{
		ApprovalChannel: "chan-rev2",
		CalendarChannel: "chan-cal2",
	})
	require.NoError(t, err)

	got, ok := r.Get("guild-1")
	require.True(t, ok)
	assert.Same(t, moved, got)

	// Every tracked entry survived the move under a fresh id.
	assert.Len(t, moved.published, 1)
	assert.Len(t, moved.pending, 1)
	assert.Len(t, moved.edits, 1)
	assert.NotContains(t, moved.published, published)
	assert.NotContains(t, moved.pending, pending)
	assert.NotContains(t, moved.edits, editID)

	assert.Nil(t, sink.Lookup(published))
	assert.Nil(t, sink.Lookup(pending))
	assert.Nil(t, sink.Lookup(editID))
	assert.Len(t, sink.PostsIn("chan-cal2"), 1)
	assert.Len(t, sink.PostsIn("chan-rev2"), 2)

	for _, id := range sortedKeys(moved.edits) {
		_, ok := moved.published[moved.edits[id].Target]
		assert.True(t, ok, "edit target must follow the re-keyed event")
	}
}

func TestRegistry_SetupSameChannelsKeepsPosts(t *testing.T) {
	r, _, sink := newTestRegistry(t)
	cal, err := r.Setup(context.Background(), "guild-1", Settings{
		ApprovalChannel: approvalChan,
		CalendarChannel: calendarChan,
	})
	require.NoError(t, err)

	published := publish(t, cal, oneShotDraft())
	pending := submit(t, cal, recurringDraft())
	calendarPosts := len(sink.PostsIn(calendarChan))
	approvalPosts := len(sink.PostsIn(approvalChan))

	same, err := r.Setup(context.Background(), "guild-1", Settings{
		ApprovalChannel: approvalChan,
		CalendarChannel: calendarChan,
		EventTimeout:    7200,
	})
	require.NoError(t, err)

	// Unmoved channels keep their posts and their keys; only the
	// settings change.
	assert.Contains(t, same.published, published)
	assert.Contains(t, same.pending, pending)
	assert.NotNil(t, sink.Lookup(published))
	assert.NotNil(t, sink.Lookup(pending))
	assert.Len(t, sink.PostsIn(calendarChan), calendarPosts)
	assert.Len(t, sink.PostsIn(approvalChan), approvalPosts)
	assert.Equal(t, int64(7200), same.Settings().EventTimeout)
}

func TestRegistry_LoadAllSkipsUnreadableTenant(t *testing.T) {
	r, store, sink := newTestRegistry(t)

	good := New(testSettings(), sink, zap.NewNop().Sugar())
	publish(t, good, oneShotDraft())
	require.NoError(t, store.Save(context.Background(), "guild-1", good.Snapshot()))
	require.NoError(t, store.Save(context.Background(), "guild-2", &model.TenantSnapshot{}))

	require.NoError(t, r.LoadAll(context.Background()))

	assert.Equal(t, []model.TenantID{"guild-1"}, r.Tenants())
	cal, ok := r.Get("guild-1")
	require.True(t, ok)
	assert.Len(t, cal.published, 1)
	_, ok = r.Get("guild-2")
	assert.False(t, ok)
}

func TestRegistry_LoadAllDropsUnreadableEntries(t *testing.T) {
	r, store, sink := newTestRegistry(t)

	good := New(testSettings(), sink, zap.NewNop().Sugar())
	publish(t, good, oneShotDraft())
	snap := good.Snapshot()
	snap.Published["post-broken"] = &model.EventSnapshot{Kind: "lunar", Title: "Broken"}
	require.NoError(t, store.Save(context.Background(), "guild-1", snap))

	require.NoError(t, r.LoadAll(context.Background()))

	cal, ok := r.Get("guild-1")
	require.True(t, ok)
	assert.Len(t, cal.published, 1, "the readable entry survives alone")
}

func TestRegistry_LoadAllFailsWhenStoreDown(t *testing.T) {
	store := &failingStore{err: errors.New("store down")}
	r := NewRegistry(store, notify.NewMemorySink(), zap.NewNop().Sugar())

	assert.Error(t, r.LoadAll(context.Background()))
}

func TestRegistry_SaveAllReportsStoreErrors(t *testing.T) {
	r, store, _ := newTestRegistry(t)
	_, err := r.Setup(context.Background(), "guild-1", Settings{
		ApprovalChannel: approvalChan,
		CalendarChannel: calendarChan,
	})
	require.NoError(t, err)

	require.NoError(t, r.SaveAll(context.Background()))

	store.FailSave = errors.New("store down")
	assert.Error(t, r.SaveAll(context.Background()))
}

func TestRegistry_SaveTenant(t *testing.T) {
	r, store, _ := newTestRegistry(t)
	cal, err := r.Setup(context.Background(), "guild-1", Settings{
		ApprovalChannel: approvalChan,
		CalendarChannel: calendarChan,
	})
	require.NoError(t, err)
	publish(t, cal, oneShotDraft())

	require.NoError(t, r.SaveTenant(context.Background(), "guild-1"))
	assert.Len(t, store.Stored("guild-1").Published, 1)

	assert.ErrorIs(t, r.SaveTenant(context.Background(), "guild-9"), model.ErrNoRecord)
}

func TestRegistry_SweepAllCoversEveryTenant(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	for _, id := range []model.TenantID{"guild-1", "guild-2"} {
		cal, err := r.Setup(context.Background(), id, Settings{
			ApprovalChannel: approvalChan,
			CalendarChannel: calendarChan,
		})
		require.NoError(t, err)
		publish(t, cal, oneShotDraft())
	}

	require.NoError(t, r.SweepAll(context.Background(), notifyAt))

	for _, id := range []model.TenantID{"guild-1", "guild-2"} {
		cal, ok := r.Get(id)
		require.True(t, ok)
		assert.Empty(t, cal.published)
		assert.Len(t, cal.live, 1)
	}
}

type failingStore struct{ err error }

func (s *failingStore) LoadAll(context.Context) (map[model.TenantID]*model.TenantSnapshot, error) {
	return nil, s.err
}

func (s *failingStore) Save(context.Context, model.TenantID, *model.TenantSnapshot) error {
	return s.err
}
