package auth

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long a session stays valid when the caller does
// not specify a duration.
const DefaultSessionTTL = time.Hour

const sessionShardCount = 16

var (
	ErrDuplicateSessionID = errors.New("session id already exists")
	ErrSessionNotFound    = errors.New("session not found; store out of sync")
)

// Session binds a random id to a logged-in user. Sessions live only in
// process memory and are lost on restart by design.
type Session struct {
	SessionID uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type sessionShard struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Session
}

// SessionStore is a sharded in-memory session table, safe for concurrent use
// by any number of request goroutines. Point operations lock a single shard;
// the pruning scan locks one shard at a time, so no operation ever waits on
// a whole-table lock.
type SessionStore struct {
	shards [sessionShardCount]*sessionShard
	count  atomic.Int64
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	s := &SessionStore{}
	for i := range s.shards {
		s.shards[i] = &sessionShard{sessions: make(map[uuid.UUID]Session)}
	}
	return s
}

func (s *SessionStore) shardFor(id uuid.UUID) *sessionShard {
	// uuid v4 bytes are uniformly random; the first byte spreads well.
	return s.shards[id[0]%sessionShardCount]
}

// Create generates a fresh session id for userID and inserts it with the
// given lifetime (DefaultSessionTTL when validFor is zero). A generated id
// colliding with a live session returns ErrDuplicateSessionID; the id space
// makes that exceptional, so it is reported rather than retried.
func (s *SessionStore) Create(userID uuid.UUID, validFor time.Duration) (uuid.UUID, error) {
	if validFor == 0 {
		validFor = DefaultSessionTTL
	}

	sessionID := uuid.New()
	now := time.Now().UTC()

	shard := s.shardFor(sessionID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, exists := shard.sessions[sessionID]; exists {
		return uuid.Nil, ErrDuplicateSessionID
	}

	shard.sessions[sessionID] = Session{
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(validFor),
	}
	s.count.Add(1)

	return sessionID, nil
}

// Get returns the session for id if it exists and is still valid at now. A
// session is valid strictly before expires_at; at the expiry instant it is
// already gone. Expired entries are reported as absent; the pruner removes
// them later.
func (s *SessionStore) Get(id uuid.UUID, now time.Time) (Session, bool) {
	shard := s.shardFor(id)
	shard.mu.RLock()
	session, ok := shard.sessions[id]
	shard.mu.RUnlock()

	if !ok || !now.Before(session.ExpiresAt) {
		return Session{}, false
	}
	return session, true
}

// Remove deletes the session and returns its id with the number of sessions
// remaining. A missing id means the store and the caller disagree about a
// trusted cookie, which is an internal inconsistency, not a client error.
func (s *SessionStore) Remove(id uuid.UUID) (uuid.UUID, int, error) {
	shard := s.shardFor(id)
	shard.mu.Lock()
	_, ok := shard.sessions[id]
	if !ok {
		shard.mu.Unlock()
		return uuid.Nil, int(s.count.Load()), ErrSessionNotFound
	}
	delete(shard.sessions, id)
	remaining := s.count.Add(-1)
	shard.mu.Unlock()

	return id, int(remaining), nil
}

// PruneExpired removes every session with expires_at at or before now and returns
// (pruned, remaining). Shards are scanned one at a time under their own
// lock, so concurrent Create/Remove calls on other shards proceed
// untouched and no entry is visited twice.
func (s *SessionStore) PruneExpired(now time.Time) (pruned, remaining int) {
	for _, shard := range s.shards {
		shard.mu.Lock()
		for id, session := range shard.sessions {
			if !session.ExpiresAt.After(now) {
				delete(shard.sessions, id)
				s.count.Add(-1)
				pruned++
			} else {
				remaining++
			}
		}
		shard.mu.Unlock()
	}
	return pruned, remaining
}

// Len returns the current number of live (not yet pruned) sessions.
func (s *SessionStore) Len() int {
	return int(s.count.Load())
}
