package session

import (
	"sync"
	"time"
)

// Store keeps the live conversation state per chat. Per-chat delivery is
// serialized by the transport, but different chats arrive concurrently, so
// access is guarded.
type Store struct {
	mu      sync.RWMutex
	states  map[int64]State
	touched map[int64]time.Time
}

func NewStore() *Store {
	return &Store{
		states:  make(map[int64]State),
		touched: make(map[int64]time.Time),
	}
}

// Get returns the state for a chat; an unseen chat is idle.
func (s *Store) Get(chatID int64) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[chatID]
}

func (s *Store) Set(chatID int64, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[chatID] = st
	s.touched[chatID] = time.Now()
}

// Clear drops any pending multi-step state for a chat.
func (s *Store) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, chatID)
	delete(s.touched, chatID)
}

// ExpireBefore drops states last touched before cutoff and reports how many
// were removed. An abandoned onboarding or food follow-up should not pin
// memory or swallow a plain number months later.
func (s *Store) ExpireBefore(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for chatID, at := range s.touched {
		if at.Before(cutoff) {
			delete(s.states, chatID)
			delete(s.touched, chatID)
			removed++
		}
	}
	return removed
}
