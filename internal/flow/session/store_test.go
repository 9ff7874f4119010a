package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionDefaults(t *testing.T) {
	s := New(42)
	assert.Equal(t, int64(42), s.ChatID)
	assert.Equal(t, StateLanguage, s.State)
	assert.Equal(t, MinQuantity, s.Quantity)
	assert.Zero(t, s.Depth())
}

func TestResetKeepsChatID(t *testing.T) {
	s := New(7)
	s.State = StatePayment
	s.Name = "Alisher"
	s.Quantity = 9
	s.Push(StateLanguage)
	s.Push(StatePersonType)

	s.Reset()

	assert.Equal(t, int64(7), s.ChatID)
	assert.Equal(t, StateLanguage, s.State)
	assert.Empty(t, s.Name)
	assert.Equal(t, MinQuantity, s.Quantity)
	assert.Zero(t, s.Depth())
}

func TestHistoryPushPop(t *testing.T) {
	s := New(1)
	s.Push(StateLanguage)
	s.Push(StatePersonType)
	require.Equal(t, 2, s.Depth())

	st, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, StatePersonType, st)

	st, ok = s.Pop()
	require.True(t, ok)
	assert.Equal(t, StateLanguage, st)

	_, ok = s.Pop()
	assert.False(t, ok)
	assert.Zero(t, s.Depth())
}

func TestStoreCreatesOncePerChat(t *testing.T) {
	st := NewStore()
	var first *Session
	err := st.Dispatch(5, func(s *Session) error {
		first = s
		return nil
	})
	require.NoError(t, err)

	err = st.Dispatch(5, func(s *Session) error {
		assert.Same(t, first, s)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Len())
}

func TestDispatchSerializesPerSession(t *testing.T) {
	st := NewStore()
	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_ = st.Dispatch(1, func(s *Session) error {
					// A read-modify-write that loses updates under a race.
					q := s.Quantity
					s.Quantity = q + 1
					return nil
				})
			}
		}()
	}
	wg.Wait()

	_ = st.Dispatch(1, func(s *Session) error {
		assert.Equal(t, MinQuantity+workers*perWorker, s.Quantity)
		return nil
	})
}

func TestDispatchParallelChats(t *testing.T) {
	st := NewStore()
	var wg sync.WaitGroup
	for chat := int64(1); chat <= 8; chat++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = st.Dispatch(id, func(s *Session) error {
				s.Name = "x"
				return nil
			})
		}(chat)
	}
	wg.Wait()
	assert.Equal(t, 8, st.Len())
}
