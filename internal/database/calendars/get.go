package calendars

import (
	"context"
	"fmt"

	"github.com/eventboardhq/eventboard-backend/internal/database"
	"github.com/eventboardhq/eventboard-backend/internal/model"
)

func (*Repository) GetCalendars(ctx context.Context, q database.Queryable) (map[model.TenantID]*model.TenantSnapshot, error) {
	var dtos []*calendarDTO
	if err := q.Select(ctx, &dtos, baseQuery); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make(map[model.TenantID]*model.TenantSnapshot, len(dtos))
	for _, d := range dtos {
		snap, err := mapToSnapshot(d)
		if err != nil {
			return nil, fmt.Errorf("guild %s: %w", d.GuildID, err)
		}
		res[model.TenantID(d.GuildID)] = snap
	}

	return res, nil
}
