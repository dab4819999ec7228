package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maitred/internal/types"
)

func TestGetOrCreate(t *testing.T) {
	m := NewManager()

	t.Run("creates then returns same session", func(t *testing.T) {
		s1 := m.GetOrCreate("abc")
		s2 := m.GetOrCreate("abc")
		assert.Same(t, s1, s2)
		assert.Equal(t, "abc", s1.SessionID)
		assert.Equal(t, types.StatusGathering, s1.Status)
	})

	t.Run("empty id gets a generated one", func(t *testing.T) {
		s := m.GetOrCreate("")
		assert.Len(t, s.SessionID, 8)
		assert.Same(t, s, m.GetOrCreate(s.SessionID))
	})

	t.Run("whitespace id is treated as empty", func(t *testing.T) {
		s := m.GetOrCreate("   ")
		assert.Len(t, s.SessionID, 8)
	})
}

func TestReset(t *testing.T) {
	m := NewManager()

	s := m.GetOrCreate("abc")
	s.CollectedSlots[types.SlotPartySize] = "4"
	s.AppendTurn(types.RoleUser, "hello")
	s.Status = types.StatusReady

	fresh := m.Reset("abc")

	assert.Equal(t, "abc", fresh.SessionID)
	assert.Empty(t, fresh.CollectedSlots)
	assert.Empty(t, fresh.TurnHistory)
	assert.Equal(t, types.StatusGathering, fresh.Status)
	assert.Same(t, fresh, m.GetOrCreate("abc"))
}

func TestWithSession_SerializesSameSession(t *testing.T) {
	m := NewManager()
	m.GetOrCreate("abc")

	var inFlight, maxInFlight int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.WithSession("abc", func(s *types.ConversationSession) error {
				mu.Lock()
				inFlight++
				if inFlight > maxInFlight {
					maxInFlight = inFlight
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inFlight--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight)
}

func TestWithSession_DistinctSessionsRunConcurrently(t *testing.T) {
	m := NewManager()
	m.GetOrCreate("a")
	m.GetOrCreate("b")

	started := make(chan string, 2)
	release := make(chan struct{})
	var wg sync.WaitGroup

	for _, id := range []string{"a", "b"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = m.WithSession(id, func(s *types.ConversationSession) error {
				started <- id
				<-release
				return nil
			})
		}(id)
	}

	// Both turns must enter their critical sections while the other is held.
	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatal("turns on distinct sessions blocked each other")
		}
	}
	close(release)
	wg.Wait()
}

func TestWithSession_CreatesMissingSession(t *testing.T) {
	m := NewManager()

	err := m.WithSession("new", func(s *types.ConversationSession) error {
		require.NotNil(t, s)
		assert.Equal(t, "new", s.SessionID)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())
}
