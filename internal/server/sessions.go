package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-reaform/pkg/session"
)

// sessionEntry is one browser session. mu serializes every request that
// touches the session; the form store is not safe for concurrent use.
type sessionEntry struct {
	mu       sync.Mutex
	id       string
	csrf     string
	session  *session.Session
	lastSeen time.Time
}

type sessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	factory func() *session.Session
	entries map[string]*sessionEntry
	// limit caps live sessions; zero means unbounded.
	limit int
	// onDrop is told how many sessions create pushed out to stay under limit.
	onDrop func(int)
}

func newSessionStore(ttl time.Duration, now func() time.Time, factory func() *session.Session) *sessionStore {
	if now == nil {
		now = time.Now
	}
	if factory == nil {
		factory = func() *session.Session { return session.New() }
	}
	return &sessionStore{
		ttl:     ttl,
		now:     now,
		factory: factory,
		entries: make(map[string]*sessionEntry),
	}
}

// lookup returns a live session and refreshes its idle clock. Expired
// sessions are dropped on sight.
func (s *sessionStore) lookup(id string) (*sessionEntry, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(entry, now) {
		s.dropLocked(id, entry)
		return nil, false
	}
	entry.lastSeen = now
	return entry, true
}

func (s *sessionStore) create() *sessionEntry {
	entry := &sessionEntry{
		id:      uuid.NewString(),
		csrf:    uuid.NewString(),
		session: s.factory(),
	}
	s.mu.Lock()
	now := s.now()
	dropped := s.makeRoomLocked(now)
	entry.lastSeen = now
	s.entries[entry.id] = entry
	s.mu.Unlock()

	if dropped > 0 && s.onDrop != nil {
		s.onDrop(dropped)
	}
	return entry
}

// makeRoomLocked frees one slot when the store is at its limit: expired
// sessions go first, then the least recently seen one.
func (s *sessionStore) makeRoomLocked(now time.Time) int {
	if s.limit <= 0 || len(s.entries) < s.limit {
		return 0
	}
	dropped := 0
	for id, entry := range s.entries {
		if s.expired(entry, now) {
			s.dropLocked(id, entry)
			dropped++
		}
	}
	for len(s.entries) >= s.limit {
		var oldest *sessionEntry
		for _, entry := range s.entries {
			if oldest == nil || entry.lastSeen.Before(oldest.lastSeen) {
				oldest = entry
			}
		}
		s.dropLocked(oldest.id, oldest)
		dropped++
	}
	return dropped
}

// evict drops every session idle for longer than the TTL and reports how
// many were removed.
func (s *sessionStore) evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.entries {
		if s.expired(entry, now) {
			s.dropLocked(id, entry)
			removed++
		}
	}
	return removed
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// run evicts on every tick until ctx is done.
func (s *sessionStore) run(ctx context.Context, interval time.Duration, onEvict func(int)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.evict(); n > 0 && onEvict != nil {
				onEvict(n)
			}
		}
	}
}

func (s *sessionStore) expired(entry *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl
}

func (s *sessionStore) dropLocked(id string, entry *sessionEntry) {
	delete(s.entries, id)
	// Stops a pending auto-dismiss timer.
	entry.session.Dismiss()
}
