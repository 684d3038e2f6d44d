package calendars

import (
	"context"
	"fmt"

	"github.com/eventboardhq/eventboard-backend/internal/database"
	"github.com/eventboardhq/eventboard-backend/internal/model"
)

func (*Repository) UpsertCalendar(ctx context.Context, q database.Queryable, id model.TenantID, snap *model.TenantSnapshot) error {
	state, err := mapToState(snap)
	if err != nil {
		return fmt.Errorf("mapToState: %w", err)
	}

	qb := database.PSQL.
		Insert(database.CalendarsTable).
		Columns(
			"guild_id",
			"state",
		).
		Values(
			string(id),
			state,
		).
		Suffix("on conflict (guild_id) do update set state = excluded.state, updated_at = now()")

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
