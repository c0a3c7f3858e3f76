// Package sessions owns the in-memory table of in-progress conversations,
// keyed by user id, with per-user locking and idle eviction.
package sessions

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/testimonianze/internal/survey"
)

type entry struct {
	session *survey.Session
	touched time.Time
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// Store maps user ids to their active session. Map access is internally
// synchronised; Lock additionally serialises whole turns for one user.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*entry

	locksMu sync.Mutex
	locks   map[int64]*keyLock
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*entry),
		locks:    make(map[int64]*keyLock),
	}
}

// Lock blocks until the caller holds userID's turn lock and returns the
// matching unlock func. Lock entries are dropped once nobody holds or waits
// for them, so the table does not grow with every user ever seen.
func (s *Store) Lock(userID int64) func() {
	s.locksMu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &keyLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.locksMu.Unlock()
	}
}

// Get returns the active session for userID.
func (s *Store) Get(userID int64) (*survey.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[userID]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Put stores sess as its user's active session, replacing any previous one,
// and marks it as touched at now.
func (s *Store) Put(sess *survey.Session, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.UserID] = &entry{session: sess, touched: now}
}

// Delete forgets userID's session, if any.
func (s *Store) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// EvictIdle drops sessions not touched within ttl of now and returns how
// many were removed. Nothing is persisted for evicted sessions.
func (s *Store) EvictIdle(now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.sessions {
		if now.Sub(e.touched) >= ttl {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}
