// internal/room/coordinator.go
package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/auxbattle/auxbattle/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// codeAttempts bounds code-allocation retries before creation fails.
// Hitting 5 collisions in a row against a 36^7 code space means something is
// badly wrong; we surface ErrCreationFailed instead of looping.
const codeAttempts = 5

// The theme and category choices offered on the create screen.
var validThemes = map[string]bool{
	"Sad": true, "Hype": true, "Heartbreak": true,
	"Love": true, "Party": true, "Chill": true,
}
var validCategories = map[string]bool{
	"R&B": true, "Hip-Hop": true, "Rap": true,
	"Pop": true, "Rock": true, "Alternative": true,
}

// Archiver persists a concluded battle. Memory stays authoritative for live
// rooms; the archive is the durable record once a room ends.
type Archiver interface {
	ArchiveBattle(ctx context.Context, room models.Room, members []models.Membership) error
}

// Coordinator is the lobby session manager: the single entry point for
// create/join/leave/start/complete/subscribe. It owns the store, the
// subscription registry, and eviction of dead rooms.
type Coordinator struct {
	store       *Store
	broadcaster *Broadcaster
	profiles    ProfileResolver
	log         *logrus.Logger

	// Events and Archive are optional collaborators wired at startup.
	Events  EventPublisher
	Archive Archiver

	// generate is swapped out by tests to force code collisions.
	generate func() string
}

// NewCoordinator builds a coordinator with an empty store. profiles may be
// nil, in which case every roster entry gets a placeholder name.
func NewCoordinator(log *logrus.Logger, profiles ProfileResolver) *Coordinator {
	return &Coordinator{
		store:       NewStore(),
		broadcaster: NewBroadcaster(log),
		profiles:    profiles,
		log:         log,
		generate:    GenerateCode,
	}
}

// CreateRoom allocates a code and inserts the room together with the host's
// membership; no partial state (room without host) is ever observable.
func (c *Coordinator) CreateRoom(ctx context.Context, hostID uuid.UUID, theme, category string, maxPlayers int) (models.RoomSnapshot, error) {
	if maxPlayers < 2 {
		return models.RoomSnapshot{}, fmt.Errorf("%w: maxPlayers must be at least 2", ErrInvalidInput)
	}
	if !validThemes[theme] {
		return models.RoomSnapshot{}, fmt.Errorf("%w: unknown theme %q", ErrInvalidInput, theme)
	}
	if !validCategories[category] {
		return models.RoomSnapshot{}, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
	}

	hostName := c.displayName(ctx, hostID)
	now := time.Now()

	for attempt := 0; attempt < codeAttempts; attempt++ {
		r := models.Room{
			Code:       c.generate(),
			HostID:     hostID,
			Theme:      theme,
			Category:   category,
			MaxPlayers: maxPlayers,
			Status:     models.StatusWaiting,
			CreatedAt:  now,
		}
		host := models.Membership{
			UserID:      hostID,
			DisplayName: hostName,
			IsHost:      true,
			JoinedAt:    now,
		}
		snap, err := c.store.Insert(r, host)
		if errors.Is(err, ErrDuplicateCode) {
			c.log.Warnf("room code collision on %s, regenerating (attempt %d)", r.Code, attempt+1)
			continue
		}
		if err != nil {
			return models.RoomSnapshot{}, err
		}
		c.log.Infof("room %s created by %s (%s / %s, max %d)", r.Code, hostID, theme, category, maxPlayers)
		c.emit(ctx, EventCreated, snap)
		return snap, nil
	}
	return models.RoomSnapshot{}, fmt.Errorf("%w: code allocation exhausted after %d attempts", ErrCreationFailed, codeAttempts)
}

// JoinRoom admits userID into the room with the given code. Rejoining is
// idempotent: a user who already holds a seat gets success and the current
// snapshot back, even if the room has since filled up.
func (c *Coordinator) JoinRoom(ctx context.Context, code string, userID uuid.UUID) (models.RoomSnapshot, error) {
	code = NormalizeCode(code)
	// Resolve the name before taking the room lock; profile lookups do I/O.
	name := c.displayName(ctx, userID)

	st, ok := c.store.get(code)
	if !ok {
		return models.RoomSnapshot{}, ErrNotFound
	}
	st.mu.Lock()
	if st.evicted {
		st.mu.Unlock()
		return models.RoomSnapshot{}, ErrNotFound
	}
	snap, changed, err := st.joinLocked(userID, name)
	if err != nil {
		st.mu.Unlock()
		return models.RoomSnapshot{}, err
	}
	if changed {
		// Published under the room lock so delivery order is commit order.
		c.broadcaster.Publish(code, snap)
	}
	st.mu.Unlock()

	if changed {
		c.log.Infof("room %s: %s joined (%d/%d)", code, userID, len(snap.Memberships), snap.MaxPlayers)
	}
	return snap, nil
}

// LeaveRoom removes userID's membership. A missing room or membership is a
// no-op success. When the host leaves a waiting room the room ends: a
// hostless waiting room cannot proceed.
func (c *Coordinator) LeaveRoom(ctx context.Context, code string, userID uuid.UUID) error {
	code = NormalizeCode(code)
	st, ok := c.store.get(code)
	if !ok {
		return nil
	}
	st.mu.Lock()
	if st.evicted {
		st.mu.Unlock()
		return nil
	}
	snap, changed, ended := st.leaveLocked(userID)
	var room models.Room
	var members []models.Membership
	if changed {
		c.broadcaster.Publish(code, snap)
	}
	if ended {
		room = st.room
		members = append(members, st.members...)
	}
	st.mu.Unlock()

	if changed {
		c.log.Infof("room %s: %s left", code, userID)
	}
	if ended {
		c.log.Infof("room %s: host left while waiting, room ended", code)
		c.finishRoom(ctx, room, members, snap)
	}
	return nil
}

// StartBattle transitions the room to in_progress on behalf of its host and
// hands off to downstream gameplay.
func (c *Coordinator) StartBattle(ctx context.Context, code string, callerID uuid.UUID) (models.RoomSnapshot, error) {
	code = NormalizeCode(code)
	st, ok := c.store.get(code)
	if !ok {
		return models.RoomSnapshot{}, ErrNotFound
	}
	st.mu.Lock()
	if st.evicted {
		st.mu.Unlock()
		return models.RoomSnapshot{}, ErrNotFound
	}
	snap, err := st.startLocked(callerID)
	if err != nil {
		st.mu.Unlock()
		return models.RoomSnapshot{}, err
	}
	c.broadcaster.Publish(code, snap)
	st.mu.Unlock()

	c.log.Infof("room %s: battle started with %d players", code, len(snap.Memberships))
	c.emit(ctx, EventStarted, snap)
	return snap, nil
}

// CompleteBattle transitions in_progress -> ended. This is the hook the
// gameplay collaborator calls when a match concludes; the room is archived,
// its subscribers closed, and its code freed.
func (c *Coordinator) CompleteBattle(ctx context.Context, code string, callerID uuid.UUID) error {
	code = NormalizeCode(code)
	st, ok := c.store.get(code)
	if !ok {
		return ErrNotFound
	}
	st.mu.Lock()
	if st.evicted {
		st.mu.Unlock()
		return ErrNotFound
	}
	snap, err := st.completeLocked(callerID)
	if err != nil {
		st.mu.Unlock()
		return err
	}
	c.broadcaster.Publish(code, snap)
	room := st.room
	members := append([]models.Membership(nil), st.members...)
	st.mu.Unlock()

	c.log.Infof("room %s: battle completed", code)
	c.finishRoom(ctx, room, members, snap)
	return nil
}

// Subscribe opens a snapshot stream for the room. The first delivery is the
// current roster; subsequent ones follow committed transitions in order.
// Cancellation is the caller's Close, which is idempotent.
func (c *Coordinator) Subscribe(code string) (*Subscriber, error) {
	code = NormalizeCode(code)
	st, ok := c.store.get(code)
	if !ok {
		return nil, ErrNotFound
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.evicted {
		return nil, ErrNotFound
	}
	// Registered under the room lock: no committed transition can slip
	// between the initial snapshot and the first published event.
	return c.broadcaster.Subscribe(code, st.snapshotLocked()), nil
}

// StartJanitor evicts abandoned rooms on a timer until ctx is done. Rooms
// that saw no committed mutation for idleTTL while still waiting are treated
// as abandoned and ended; ended rooms left in the store are swept as well.
func (c *Coordinator) StartJanitor(ctx context.Context, interval, idleTTL time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep(ctx, idleTTL)
			}
		}
	}()
}

// sweep performs one janitor pass.
func (c *Coordinator) sweep(ctx context.Context, idleTTL time.Duration) {
	cutoff := time.Now().Add(-idleTTL)
	for _, code := range c.store.codes() {
		st, ok := c.store.get(code)
		if !ok {
			continue
		}
		st.mu.Lock()
		if st.evicted {
			st.mu.Unlock()
			continue
		}
		abandoned := st.room.Status == models.StatusWaiting && st.lastActive.Before(cutoff)
		stale := st.room.Status == models.StatusEnded
		if !abandoned && !stale {
			st.mu.Unlock()
			continue
		}
		if abandoned {
			st.room.Status = models.StatusEnded
		}
		snap := st.snapshotLocked()
		if abandoned {
			c.broadcaster.Publish(code, snap)
		}
		room := st.room
		members := append([]models.Membership(nil), st.members...)
		st.mu.Unlock()

		c.log.Infof("room %s: evicted by janitor (abandoned=%v)", code, abandoned)
		c.finishRoom(ctx, room, members, snap)
	}
}

// finishRoom tears down an ended room: it leaves the store, its subscriber
// streams close after draining the final snapshot, and the battle is handed
// to the archive and the event queue. Archive or publish failures are
// logged; the transition itself has already committed.
func (c *Coordinator) finishRoom(ctx context.Context, room models.Room, members []models.Membership, final models.RoomSnapshot) {
	c.store.remove(room.Code)
	c.broadcaster.CloseRoom(room.Code)

	if c.Archive != nil {
		if err := c.Archive.ArchiveBattle(ctx, room, members); err != nil {
			c.log.Warnf("room %s: archive failed: %v", room.Code, err)
		}
	}
	c.emit(ctx, EventEnded, final)
}

// emit publishes a lifecycle event if a publisher is wired.
func (c *Coordinator) emit(ctx context.Context, event string, snap models.RoomSnapshot) {
	if c.Events == nil {
		return
	}
	ev := BattleEvent{
		Code:      snap.Code,
		Event:     event,
		HostID:    snap.HostID,
		Theme:     snap.Theme,
		Category:  snap.Category,
		Timestamp: time.Now().Unix(),
	}
	for _, m := range snap.Memberships {
		ev.PlayerIDs = append(ev.PlayerIDs, m.UserID)
	}
	if err := c.Events.PublishBattleEvent(ctx, ev); err != nil {
		c.log.Warnf("room %s: failed to publish %s event: %v", snap.Code, event, err)
	}
}

// displayName resolves a roster name, falling back to a short placeholder
// when the profile collaborator has nothing for the user.
func (c *Coordinator) displayName(ctx context.Context, userID uuid.UUID) string {
	if c.profiles != nil {
		name, err := c.profiles.DisplayName(ctx, userID)
		if err == nil && name != "" {
			return name
		}
		if err != nil {
			c.log.Debugf("profile lookup failed for %s: %v", userID, err)
		}
	}
	return fmt.Sprintf("Guest_%s", userID.String()[:4])
}
