// internal/models/room.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// RoomStatus is the lifecycle state of a battle room. Transitions are
// monotonic: waiting -> in_progress -> ended.
type RoomStatus string

const (
	StatusWaiting    RoomStatus = "waiting"
	StatusInProgress RoomStatus = "in_progress"
	StatusEnded      RoomStatus = "ended"
)

// Room is a joinable battle identified by its code. All fields except Status
// are fixed at creation.
type Room struct {
	Code       string     `json:"code"`
	HostID     uuid.UUID  `json:"hostId"`
	Theme      string     `json:"theme"`
	Category   string     `json:"category"`
	MaxPlayers int        `json:"maxPlayers"`
	Status     RoomStatus `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Membership ties a user to a room. Exactly one membership per room carries
// IsHost, and it is never reassigned.
type Membership struct {
	UserID      uuid.UUID `json:"userId"`
	DisplayName string    `json:"displayName"`
	IsHost      bool      `json:"isHost"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// RoomSnapshot is a complete, self-contained view of a room's roster at one
// committed point in its history. Subscribers receive snapshots, never live
// references, so a missed delivery self-heals on the next one.
type RoomSnapshot struct {
	Code        string       `json:"code"`
	Theme       string       `json:"theme"`
	Category    string       `json:"category"`
	MaxPlayers  int          `json:"maxPlayers"`
	Status      RoomStatus   `json:"status"`
	HostID      uuid.UUID    `json:"hostId"`
	Memberships []Membership `json:"memberships"`
}
