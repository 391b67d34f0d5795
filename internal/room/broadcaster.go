// internal/room/broadcaster.go
package room

import (
	"sync"

	"github.com/auxbattle/auxbattle/internal/models"
	"github.com/sirupsen/logrus"
)

// subscriberBuffer is how many snapshots a slow subscriber may fall behind
// before deliveries start being dropped. Because every delivery is a full
// snapshot, dropping intermediates is safe: the next one catches the
// subscriber up.
const subscriberBuffer = 16

// Broadcaster fans committed roster changes out to everyone viewing a room.
// Its lock only guards the subscriber registry and is disjoint from room
// state mutation, so fan-out never blocks admission decisions.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[string]map[*Subscriber]struct{}
	log  *logrus.Logger
}

// Subscriber is one client's live view of a room. Snapshots arrive in commit
// order; the channel closes when the room ends or Close is called.
type Subscriber struct {
	b      *Broadcaster
	code   string
	ch     chan models.RoomSnapshot
	closed bool // guarded by b.mu
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster(log *logrus.Logger) *Broadcaster {
	return &Broadcaster{
		subs: make(map[string]map[*Subscriber]struct{}),
		log:  log,
	}
}

// Subscribe registers a new subscriber for code and queues initial as its
// first delivery.
func (b *Broadcaster) Subscribe(code string, initial models.RoomSnapshot) *Subscriber {
	sub := &Subscriber{
		b:    b,
		code: code,
		ch:   make(chan models.RoomSnapshot, subscriberBuffer),
	}
	b.mu.Lock()
	set, ok := b.subs[code]
	if !ok {
		set = make(map[*Subscriber]struct{})
		b.subs[code] = set
	}
	set[sub] = struct{}{}
	sub.ch <- initial
	b.mu.Unlock()
	return sub
}

// Publish queues snap for every subscriber of code. Sends never block: a
// subscriber whose buffer is full misses this snapshot and self-heals on the
// next. Callers serialize Publish per room (they hold the room lock), which
// is what preserves commit order on each channel.
func (b *Broadcaster) Publish(code string, snap models.RoomSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[code] {
		select {
		case sub.ch <- snap:
		default:
			if b.log != nil {
				b.log.Warnf("room %s: subscriber lagging, dropped snapshot", code)
			}
		}
	}
}

// CloseRoom closes every subscriber stream for code. Snapshots already
// queued (including the final ended one) are still drained by readers.
func (b *Broadcaster) CloseRoom(code string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[code] {
		sub.closed = true
		close(sub.ch)
	}
	delete(b.subs, code)
}

// Snapshots is the subscriber's delivery channel.
func (s *Subscriber) Snapshots() <-chan models.RoomSnapshot {
	return s.ch
}

// Close releases the subscriber's registry entry. Safe to call any number of
// times, including after the room ended.
func (s *Subscriber) Close() {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
	if set, ok := s.b.subs[s.code]; ok {
		delete(set, s)
		if len(set) == 0 {
			delete(s.b.subs, s.code)
		}
	}
}
