// internal/handlers/server.go
package handlers

import (
	"context"

	"github.com/auxbattle/auxbattle/internal/room"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ProfileDirectory records guest identities so their display names resolve
// on later joins. May be nil when no profile store is wired.
type ProfileDirectory interface {
	UpsertProfile(ctx context.Context, userID uuid.UUID, username string) error
}

// BattleServer holds the coordinator and the collaborators the HTTP surface
// needs. All handlers hang off it.
type BattleServer struct {
	Coordinator *room.Coordinator
	Profiles    ProfileDirectory
	Logger      *logrus.Logger
}

// NewBattleServer wires a battle server.
func NewBattleServer(logger *logrus.Logger, coordinator *room.Coordinator, profiles ProfileDirectory) *BattleServer {
	return &BattleServer{
		Coordinator: coordinator,
		Profiles:    profiles,
		Logger:      logger,
	}
}
