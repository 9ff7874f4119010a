package session

import (
	"sync"

	"log/slog"

	"github.com/m3rciful/suvbot/core/logger"
)

// entry pairs a session with its own lock so independent chats never contend.
type entry struct {
	mu sync.Mutex
	s  *Session
}

// Store owns all session records, keyed by chat id. Access to an individual
// session is serialized through Dispatch; the store-level mutex only guards
// the map itself and is never held while a handler runs.
type Store struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// NewStore constructs an empty in-memory session store.
func NewStore() *Store {
	return &Store{entries: make(map[int64]*entry)}
}

func (st *Store) entryFor(chatID int64) *entry {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.entries[chatID]
	if !ok {
		e = &entry{s: New(chatID)}
		st.entries[chatID] = e
		logger.Debug(logger.Background(), "service.sessions", "session.create",
			slog.Int64("chat_id", chatID),
		)
	}
	return e
}

// Dispatch runs fn with exclusive access to the chat's session, creating the
// session on first contact. Events for the same chat are applied in strict
// arrival order; different chats proceed in parallel.
func (st *Store) Dispatch(chatID int64, fn func(*Session) error) error {
	e := st.entryFor(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.s)
}

// Len reports the number of sessions currently held in memory.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}
