package calendars

import (
	"encoding/json"
	"fmt"

	"github.com/eventboardhq/eventboard-backend/internal/model"
)

type calendarDTO struct {
	GuildID string `db:"guild_id"`
	State   []byte `db:"state"`
}

func mapToSnapshot(dto *calendarDTO) (*model.TenantSnapshot, error) {
	snap := &model.TenantSnapshot{}
	if err := json.Unmarshal(dto.State, snap); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return snap, nil
}

func mapToState(snap *model.TenantSnapshot) ([]byte, error) {
	state, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return state, nil
}
