package database

import (
	sq "github.com/Masterminds/squirrel"
)

// PSQL - squirrel builder с PostgreSQL-плейсхолдерами.
var PSQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const CalendarsTable = "guild_calendars"
