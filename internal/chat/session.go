package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role names the speaker of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one transcript entry.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"content"`
	Type      string    `json:"type,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is an append-only conversation transcript. The transcript is not
// bounded; callers drop or Clear sessions they no longer need.
type Session struct {
	ID string

	mu    sync.Mutex
	turns []Turn
	now   func() time.Time
}

// NewSession returns an empty session with a random id.
func NewSession() *Session {
	return newSession(uuid.NewString())
}

func newSession(id string) *Session {
	return &Session{ID: id, now: time.Now}
}

func (s *Session) append(role Role, text, typ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{Role: role, Text: text, Type: typ, Timestamp: s.now()})
}

// History returns a copy of the transcript.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Clear drops the transcript.
func (s *Session) Clear() {
	s.mu.Lock()
	s.turns = nil
	s.mu.Unlock()
}

// DefaultSessionID names the session used when a caller supplies none.
const DefaultSessionID = "default"

// Sessions indexes sessions by id.
type Sessions struct {
	mu sync.Mutex
	m  map[string]*Session
}

func NewSessions() *Sessions {
	return &Sessions{m: map[string]*Session{}}
}

// Get returns the session for id, creating it on first use. An empty id is
// the default session.
func (ss *Sessions) Get(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.m[id]
	if !ok {
		s = newSession(id)
		ss.m[id] = s
	}
	return s
}

// New registers a fresh session with a random id.
func (ss *Sessions) New() *Session {
	s := NewSession()
	ss.mu.Lock()
	ss.m[s.ID] = s
	ss.mu.Unlock()
	return s
}

// Delete forgets the session for id.
func (ss *Sessions) Delete(id string) {
	if id == "" {
		id = DefaultSessionID
	}
	ss.mu.Lock()
	delete(ss.m, id)
	ss.mu.Unlock()
}
