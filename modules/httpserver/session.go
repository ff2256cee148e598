package httpserver

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "sid"

// Visualization is the single cached entry per session: the most recently
// produced image and the operation that produced it.
type Visualization struct {
	Image     string
	Operation string
}

// SessionStore holds one visualization slot per session. Each successful
// image-producing operation overwrites the slot; two concurrent requests in
// the same session race last-write-wins. The mutex only protects the map
// structure itself.
type SessionStore struct {
	mu  sync.Mutex
	viz map[string]Visualization
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{viz: make(map[string]Visualization)}
}

// Put overwrites the session's visualization slot.
func (s *SessionStore) Put(sessionID string, v Visualization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viz[sessionID] = v
}

// Get returns the session's cached visualization, if any.
func (s *SessionStore) Get(sessionID string) (Visualization, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.viz[sessionID]
	return v, ok
}

// sessionID returns the caller's session ID, assigning a new one via cookie
// when absent.
func sessionID(c *gin.Context) string {
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		return sid
	}
	sid := uuid.New().String()
	c.SetCookie(sessionCookie, sid, 0, "/", "", false, true)
	return sid
}
