// internal/room/store_test.go
package room

import (
	"testing"
	"time"

	"github.com/auxbattle/auxbattle/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testRoom(code string, host uuid.UUID) (models.Room, models.Membership) {
	now := time.Now()
	r := models.Room{
		Code:       code,
		HostID:     host,
		Theme:      "Hype",
		Category:   "Rap",
		MaxPlayers: 4,
		Status:     models.StatusWaiting,
		CreatedAt:  now,
	}
	m := models.Membership{UserID: host, DisplayName: "host", IsHost: true, JoinedAt: now}
	return r, m
}

func TestInsertRejectsLiveDuplicate(t *testing.T) {
	s := NewStore()
	host := uuid.New()

	r, m := testRoom("AAAA111", host)
	snap, err := s.Insert(r, m)
	require.NoError(t, err)
	require.Len(t, snap.Memberships, 1)
	require.True(t, snap.Memberships[0].IsHost)

	_, err = s.Insert(testRoom("AAAA111", uuid.New()))
	require.ErrorIs(t, err, ErrDuplicateCode)
}

func TestInsertReusesEndedCode(t *testing.T) {
	s := NewStore()

	r, m := testRoom("BBBB222", uuid.New())
	_, err := s.Insert(r, m)
	require.NoError(t, err)

	st, ok := s.get("BBBB222")
	require.True(t, ok)
	st.mu.Lock()
	st.room.Status = models.StatusEnded
	st.mu.Unlock()

	// An ended room no longer defends its code.
	_, err = s.Insert(testRoom("BBBB222", uuid.New()))
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
}

func TestRemoveMarksEvicted(t *testing.T) {
	s := NewStore()

	r, m := testRoom("CCCC333", uuid.New())
	_, err := s.Insert(r, m)
	require.NoError(t, err)

	st, ok := s.get("CCCC333")
	require.True(t, ok)

	s.remove("CCCC333")
	require.Equal(t, 0, s.Len())

	// A caller that resolved the pointer before removal must see eviction.
	st.mu.Lock()
	defer st.mu.Unlock()
	require.True(t, st.evicted)
}
