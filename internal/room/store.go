// internal/room/store.go
package room

import (
	"sync"
	"time"

	"github.com/auxbattle/auxbattle/internal/models"
)

// Store is the authoritative in-memory record of live rooms. The outer mutex
// only guards the code -> roomState map; each roomState carries its own lock,
// so operations on different rooms never contend beyond the map lookup.
type Store struct {
	mu    sync.Mutex
	rooms map[string]*roomState
}

// roomState holds one room plus its memberships. Every read or write of the
// fields below must hold mu; admission decisions (capacity, status, duplicate
// membership) and the matching mutation happen under a single acquisition, so
// no two concurrent joins can both claim the last seat.
type roomState struct {
	mu sync.Mutex

	// evicted marks a state that has been removed from the store. A caller
	// that resolved the pointer before removal must treat it as gone.
	evicted bool

	room       models.Room
	members    []models.Membership
	lastActive time.Time
}

// NewStore returns an empty room store.
func NewStore() *Store {
	return &Store{rooms: make(map[string]*roomState)}
}

// Insert adds a new room with its host membership in one step, so a room
// without a host is never observable. It fails with ErrDuplicateCode when a
// live (non-ended) room already holds the code; an ended room awaiting
// eviction does not block reuse.
func (s *Store) Insert(room models.Room, host models.Membership) (models.RoomSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.rooms[room.Code]; ok {
		prev.mu.Lock()
		live := prev.room.Status != models.StatusEnded
		if !live {
			prev.evicted = true
		}
		prev.mu.Unlock()
		if live {
			return models.RoomSnapshot{}, ErrDuplicateCode
		}
	}

	st := &roomState{
		room:       room,
		members:    []models.Membership{host},
		lastActive: time.Now(),
	}
	s.rooms[room.Code] = st
	return st.snapshotLocked(), nil
}

// get resolves a room state by code. The returned pointer may have been
// evicted by the time the caller locks it; callers must re-check evicted
// after acquiring st.mu.
func (s *Store) get(code string) (*roomState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.rooms[code]
	return st, ok
}

// remove deletes a room from the store and marks the state evicted. Taking
// the room lock inside the map lock closes the window where a caller holding
// a stale pointer could mutate a removed room.
func (s *Store) remove(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.rooms[code]
	if !ok {
		return
	}
	st.mu.Lock()
	st.evicted = true
	st.mu.Unlock()
	delete(s.rooms, code)
}

// codes returns the codes of all rooms currently in the store.
func (s *Store) codes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.rooms))
	for code := range s.rooms {
		out = append(out, code)
	}
	return out
}

// Len reports how many rooms the store currently tracks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// snapshotLocked builds an immutable snapshot of the room's current roster.
// Assumes st.mu is held (or the state is not yet shared).
func (st *roomState) snapshotLocked() models.RoomSnapshot {
	members := make([]models.Membership, len(st.members))
	copy(members, st.members)
	return models.RoomSnapshot{
		Code:        st.room.Code,
		Theme:       st.room.Theme,
		Category:    st.room.Category,
		MaxPlayers:  st.room.MaxPlayers,
		Status:      st.room.Status,
		HostID:      st.room.HostID,
		Memberships: members,
	}
}

// touchLocked records mutation time for idle eviction. Assumes st.mu is held.
func (st *roomState) touchLocked() {
	st.lastActive = time.Now()
}
