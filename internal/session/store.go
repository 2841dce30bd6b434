package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotAuthenticated indicates the session has no active identity.
var ErrNotAuthenticated = errors.New("not authenticated")

// Flash severity levels.
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
	SeverityInfo    = "info"
)

// Flash is a one-time status message, queued on write and drained on the
// next read.
type Flash struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type state struct {
	username  string
	flashes   []Flash
	createdAt time.Time
}

// Store holds every live session for this process. A session associates
// a client with at most one active identity and a queue of pending
// flashes. Sessions are created implicitly on first contact and live
// until the process exits; there is no explicit expiry.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*state
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*state)}
}

// Start creates a fresh anonymous session and returns its id.
func (s *Store) Start() string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &state{createdAt: time.Now().UTC()}
	return id
}

// Exists reports whether id refers to a live session.
func (s *Store) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	return ok
}

// Login binds username as the session's active identity, replacing any
// previous one.
func (s *Store) Login(id, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[id]; ok {
		st.username = username
	}
}

// Logout clears the session's active identity. Logging out twice is not
// an error.
func (s *Store) Logout(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[id]; ok {
		st.username = ""
	}
}

// CurrentIdentity returns the session's active username, or "" when the
// session is anonymous or unknown. Pure read, no side effects.
func (s *Store) CurrentIdentity(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[id]; ok {
		return st.username
	}
	return ""
}

// RequireIdentity is the authorization gate: it returns the active
// username or ErrNotAuthenticated when the session is anonymous.
func (s *Store) RequireIdentity(id string) (string, error) {
	username := s.CurrentIdentity(id)
	if username == "" {
		return "", ErrNotAuthenticated
	}
	return username, nil
}

// AddFlash queues a one-time message on the session.
func (s *Store) AddFlash(id, severity, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[id]; ok {
		st.flashes = append(st.flashes, Flash{Severity: severity, Message: message})
	}
}

// DrainFlashes returns and clears the session's pending messages; a
// drained flash is never shown again.
func (s *Store) DrainFlashes(id string) []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	if !ok || len(st.flashes) == 0 {
		return nil
	}
	flashes := st.flashes
	st.flashes = nil
	return flashes
}
