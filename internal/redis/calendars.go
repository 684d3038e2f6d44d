package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gomodule/redigo/redis"

	"github.com/eventboardhq/eventboard-backend/internal/model"
)

const calendarsKey = "eventboard:calendars"

// CalendarStore keeps every tenant snapshot in a single hash, one field
// per tenant.
type CalendarStore struct {
	pool *redis.Pool
}

func NewCalendarStore(pool *redis.Pool) *CalendarStore {
	return &CalendarStore{pool: pool}
}

func (s *CalendarStore) LoadAll(ctx context.Context) (map[model.TenantID]*model.TenantSnapshot, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.pool.GetContext: %w", err)
	}
	defer conn.Close()

	raw, err := redis.StringMap(conn.Do("HGETALL", calendarsKey))
	if err != nil {
		return nil, fmt.Errorf("HGETALL: %w", err)
	}

	res := make(map[model.TenantID]*model.TenantSnapshot, len(raw))
	for id, state := range raw {
		snap := &model.TenantSnapshot{}
		if err := json.Unmarshal([]byte(state), snap); err != nil {
			return nil, fmt.Errorf("guild %s: json.Unmarshal: %w", id, err)
		}
		res[model.TenantID(id)] = snap
	}

	return res, nil
}

func (s *CalendarStore) Save(ctx context.Context, id model.TenantID, snap *model.TenantSnapshot) error {
	state, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("s.pool.GetContext: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Do("HSET", calendarsKey, string(id), state); err != nil {
		return fmt.Errorf("HSET: %w", err)
	}

	return nil
}
