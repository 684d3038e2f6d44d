package calendars

import (
	"context"
	"fmt"

	"github.com/eventboardhq/eventboard-backend/internal/database"
	"github.com/eventboardhq/eventboard-backend/internal/model"
)

const schema = `
create table if not exists guild_calendars (
    guild_id   text primary key,
    state      jsonb not null,
    updated_at timestamptz not null default now()
)`

// Store binds the repository to a concrete pool, giving the registry its
// snapshot backend.
type Store struct {
	db   database.Queryable
	repo *Repository
}

func NewStore(ctx context.Context, db database.Queryable) (*Store, error) {
	if _, err := db.ExecRaw(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, repo: NewRepository()}, nil
}

func (s *Store) LoadAll(ctx context.Context) (map[model.TenantID]*model.TenantSnapshot, error) {
	return s.repo.GetCalendars(ctx, s.db)
}

func (s *Store) Save(ctx context.Context, id model.TenantID, snap *model.TenantSnapshot) error {
	return s.repo.UpsertCalendar(ctx, s.db, id, snap)
}
