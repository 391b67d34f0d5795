// internal/room/events.go
package room

import (
	"context"

	"github.com/google/uuid"
)

// BattleEvent is the lifecycle record pushed to the external stats consumer.
// It carries identity only; score aggregation happens downstream.
type BattleEvent struct {
	Code      string      `json:"code"`
	Event     string      `json:"event"` // created | started | ended
	HostID    uuid.UUID   `json:"host_id"`
	Theme     string      `json:"theme"`
	Category  string      `json:"category"`
	PlayerIDs []uuid.UUID `json:"player_ids"`
	Timestamp int64       `json:"timestamp"`
}

// Battle event names.
const (
	EventCreated = "created"
	EventStarted = "started"
	EventEnded   = "ended"
)

// EventPublisher delivers battle lifecycle events to an external consumer.
// Publish failures are logged by the coordinator, never surfaced to callers:
// a committed room transition does not roll back because a queue was down.
type EventPublisher interface {
	PublishBattleEvent(ctx context.Context, ev BattleEvent) error
}

// ProfileResolver maps a user ID to a display name. A miss is not an error
// to the roster: the coordinator substitutes a placeholder.
type ProfileResolver interface {
	DisplayName(ctx context.Context, userID uuid.UUID) (string, error)
}
