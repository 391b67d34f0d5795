// internal/room/admission.go
package room

import (
	"time"

	"github.com/auxbattle/auxbattle/internal/models"
	"github.com/google/uuid"
)

// The *Locked methods below are the admission state machine. Each assumes the
// caller holds st.mu, so the check-then-mutate sequence is indivisible with
// respect to other callers on the same room.

// joinLocked admits userID into the room. The duplicate-membership check runs
// before the capacity check on purpose: a player who already holds a seat
// must be able to resume even when the room looks full.
func (st *roomState) joinLocked(userID uuid.UUID, displayName string) (snap models.RoomSnapshot, changed bool, err error) {
	if st.room.Status != models.StatusWaiting {
		return models.RoomSnapshot{}, false, ErrNotJoinable
	}
	for _, m := range st.members {
		if m.UserID == userID {
			return st.snapshotLocked(), false, nil
		}
	}
	if len(st.members) >= st.room.MaxPlayers {
		return models.RoomSnapshot{}, false, ErrRoomFull
	}
	st.members = append(st.members, models.Membership{
		UserID:      userID,
		DisplayName: displayName,
		IsHost:      false,
		JoinedAt:    time.Now(),
	})
	st.touchLocked()
	return st.snapshotLocked(), true, nil
}

// leaveLocked removes userID's membership if present. A departing host ends a
// waiting room outright: no client holds host-only controls to reassign, so
// authority is removed rather than promoted.
func (st *roomState) leaveLocked(userID uuid.UUID) (snap models.RoomSnapshot, changed, ended bool) {
	idx := -1
	for i, m := range st.members {
		if m.UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.RoomSnapshot{}, false, false
	}
	st.members = append(st.members[:idx], st.members[idx+1:]...)
	if userID == st.room.HostID && st.room.Status == models.StatusWaiting {
		st.room.Status = models.StatusEnded
		ended = true
	}
	st.touchLocked()
	return st.snapshotLocked(), true, ended
}

// startLocked transitions waiting -> in_progress on behalf of the host.
func (st *roomState) startLocked(callerID uuid.UUID) (models.RoomSnapshot, error) {
	if callerID != st.room.HostID {
		return models.RoomSnapshot{}, ErrForbidden
	}
	if st.room.Status != models.StatusWaiting {
		return models.RoomSnapshot{}, ErrNotJoinable
	}
	if len(st.members) < 2 {
		return models.RoomSnapshot{}, ErrInsufficientPlayers
	}
	st.room.Status = models.StatusInProgress
	st.touchLocked()
	return st.snapshotLocked(), nil
}

// completeLocked transitions in_progress -> ended on behalf of the host.
func (st *roomState) completeLocked(callerID uuid.UUID) (models.RoomSnapshot, error) {
	if callerID != st.room.HostID {
		return models.RoomSnapshot{}, ErrForbidden
	}
	if st.room.Status != models.StatusInProgress {
		return models.RoomSnapshot{}, ErrNotJoinable
	}
	st.room.Status = models.StatusEnded
	st.touchLocked()
	return st.snapshotLocked(), nil
}
