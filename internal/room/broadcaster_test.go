// internal/room/broadcaster_test.go
package room

import (
	"testing"

	"github.com/auxbattle/auxbattle/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	b := NewBroadcaster(testLogger())
	sub := b.Subscribe("AAAA111", models.RoomSnapshot{Code: "AAAA111"})
	defer sub.Close()

	// Nobody is draining; publishing far past the buffer must not block.
	for i := 0; i < subscriberBuffer*3; i++ {
		b.Publish("AAAA111", models.RoomSnapshot{Code: "AAAA111"})
	}

	received := 0
	for {
		select {
		case <-sub.Snapshots():
			received++
			continue
		default:
		}
		break
	}
	// Initial snapshot plus at most a full buffer of published ones.
	assert.LessOrEqual(t, received, subscriberBuffer+1)
	assert.Greater(t, received, 0)
}

func TestPublishReachesEverySubscriber(t *testing.T) {
	b := NewBroadcaster(testLogger())
	s1 := b.Subscribe("BBBB222", models.RoomSnapshot{})
	s2 := b.Subscribe("BBBB222", models.RoomSnapshot{})
	other := b.Subscribe("CCCC333", models.RoomSnapshot{})
	defer s1.Close()
	defer s2.Close()
	defer other.Close()

	<-s1.Snapshots() // drain initials
	<-s2.Snapshots()
	<-other.Snapshots()

	b.Publish("BBBB222", models.RoomSnapshot{Code: "BBBB222"})

	require.Equal(t, "BBBB222", (<-s1.Snapshots()).Code)
	require.Equal(t, "BBBB222", (<-s2.Snapshots()).Code)
	select {
	case snap := <-other.Snapshots():
		t.Fatalf("subscriber of another room received %q", snap.Code)
	default:
	}
}

func TestCloseRoomClosesAllStreams(t *testing.T) {
	b := NewBroadcaster(testLogger())
	s1 := b.Subscribe("DDDD444", models.RoomSnapshot{})
	s2 := b.Subscribe("DDDD444", models.RoomSnapshot{})

	b.CloseRoom("DDDD444")

	for range s1.Snapshots() {
	}
	for range s2.Snapshots() {
	}

	// Close after CloseRoom stays idempotent.
	s1.Close()
	s2.Close()
	s2.Close()
}
