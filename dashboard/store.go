package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an untouched session is kept
const DefaultSessionTTL = time.Hour

// SessionStore keeps the sessions in memory keyed by the id stored in the session cookie
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration

	now func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the live session with the given id and marks it as used
func (s *SessionStore) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	now := s.now()

	s.mu.Lock()
	sess, exists := s.sessions[id]
	s.mu.Unlock()
	if !exists {
		return nil, false
	}
	if sess.idleSince(now) > s.ttl {
		s.delete(id)
		return nil, false
	}
	sess.touch(now)
	return sess, true
}

// Create starts a new idle session with a random id
func (s *SessionStore) Create() *Session {
	sess := NewSession(uuid.NewString(), s.now())

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// GetOrCreate returns the session with the given id or a new one when it does not exist or
// expired. The boolean reports whether a new session was created.
func (s *SessionStore) GetOrCreate(id string) (*Session, bool) {
	if sess, exists := s.Get(id); exists {
		return sess, false
	}
	return s.Create(), true
}

// Len returns the number of tracked sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes every session idle for longer than the ttl and returns how many were removed
func (s *SessionStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions every interval until the context is done
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				slog.Debug("swept idle sessions", "removed", removed, "remaining", s.Len())
			}
		}
	}
}

func (s *SessionStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
