package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/hermecp/mapacuestionario/internal/survey"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = eris.New("session: not found or expired")

// Store is a concurrent-safe LRU of sessions with idle TTL expiration.
type Store struct {
	mu          sync.Mutex
	entries     map[string]*storeEntry
	order       []string // LRU order: front=oldest, back=newest
	maxSessions int
	ttl         time.Duration
	opts        Options
	now         func() time.Time

	created atomic.Int64
	evicted atomic.Int64
	expired atomic.Int64
}

type storeEntry struct {
	session  *Session
	lastSeen time.Time
}

// StoreStats reports store occupancy and churn.
type StoreStats struct {
	Sessions    int   `json:"sessions"`
	MaxSessions int   `json:"max_sessions"`
	Created     int64 `json:"created"`
	Evicted     int64 `json:"evicted"`
	Expired     int64 `json:"expired"`
}

// NewStore creates a Store holding at most maxSessions sessions, each
// expiring after ttl without access. Sessions inherit opts.
func NewStore(maxSessions int, ttl time.Duration, opts Options) *Store {
	if maxSessions < 1 {
		maxSessions = 1
	}
	return &Store{
		entries:     make(map[string]*storeEntry),
		maxSessions: maxSessions,
		ttl:         ttl,
		opts:        opts,
		now:         time.Now,
	}
}

// Create registers a new session over ds and returns it.
func (s *Store) Create(ds *survey.Dataset) *Session {
	sess := New(uuid.NewString(), ds, s.opts)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	for len(s.entries) >= s.maxSessions && len(s.order) > 0 {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.entries, oldest)
		s.evicted.Add(1)
	}

	s.entries[sess.ID] = &storeEntry{session: sess, lastSeen: s.now()}
	s.order = append(s.order, sess.ID)
	s.created.Add(1)
	return sess
}

// Get returns the session with id and marks it most recently used.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "id %q", id)
	}
	if s.expiredLocked(entry) {
		delete(s.entries, id)
		s.removeFromOrder(id)
		s.expired.Add(1)
		return nil, eris.Wrapf(ErrNotFound, "id %q", id)
	}

	entry.lastSeen = s.now()
	s.removeFromOrder(id)
	s.order = append(s.order, id)
	return entry.session, nil
}

// Delete drops a session. Unknown ids are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; ok {
		delete(s.entries, id)
		s.removeFromOrder(id)
	}
}

// Sweep removes every expired session and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

// Stats returns store statistics.
func (s *Store) Stats() StoreStats {
	s.mu.Lock()
	n := len(s.entries)
	s.mu.Unlock()

	return StoreStats{
		Sessions:    n,
		MaxSessions: s.maxSessions,
		Created:     s.created.Load(),
		Evicted:     s.evicted.Load(),
		Expired:     s.expired.Load(),
	}
}

func (s *Store) expiredLocked(e *storeEntry) bool {
	return s.ttl > 0 && s.now().Sub(e.lastSeen) > s.ttl
}

func (s *Store) sweepLocked() int {
	var dropped int
	remaining := s.order[:0]
	for _, id := range s.order {
		if s.expiredLocked(s.entries[id]) {
			delete(s.entries, id)
			dropped++
			continue
		}
		remaining = append(remaining, id)
	}
	s.order = remaining
	s.expired.Add(int64(dropped))
	return dropped
}

// removeFromOrder removes an id from the LRU order slice.
func (s *Store) removeFromOrder(id string) {
	for i, k := range s.order {
		if k == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
