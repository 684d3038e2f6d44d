package calendars

import (
	"github.com/eventboardhq/eventboard-backend/internal/database"
)

var baseQuery = database.PSQL.
	Select(
		"guild_id",
		"state",
	).
	From(database.CalendarsTable)

// Repository хранит снапшоты календарей, один jsonb-ряд на гильдию.
type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}
