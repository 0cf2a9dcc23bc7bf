package chat

import (
	"strings"

	"github.com/google/uuid"
)

// previewLimit caps the stored session preview length in runes.
const previewLimit = 80

// Session is one conversation thread in the registry.
type Session struct {
	ID           string
	Preview      string
	MessageCount int
}

// SessionStore holds the conversation session registry and the active
// session id. Sessions are created on first load or explicit "new chat"
// and never deleted automatically. Single-writer, like MessageStore.
//
// The active session id here and the conversation shown by the chat screen
// must stay equal; the chat screen switches both in the same update.
type SessionStore struct {
	sessions map[string]*Session
	order    []string
	active   string
}

// NewSessionStore creates an empty session registry.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

// Create registers a new empty session and returns its id. uuid generation
// guarantees no collision with an existing id.
func (s *SessionStore) Create() string {
	id := uuid.New().String()
	s.sessions[id] = &Session{ID: id}
	s.order = append(s.order, id)
	return id
}

// Restore registers a session loaded from local persistence under its
// existing id. Existing ids are overwritten in place.
func (s *SessionStore) Restore(sess Session) {
	if _, ok := s.sessions[sess.ID]; !ok {
		s.order = append(s.order, sess.ID)
	}
	copied := sess
	s.sessions[sess.ID] = &copied
}

// SetActive marks the session as active. Unknown ids are a no-op.
func (s *SessionStore) SetActive(id string) bool {
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	s.active = id
	return true
}

// ActiveID returns the active session id, "" if none.
func (s *SessionStore) ActiveID() string {
	return s.active
}

// UpdatePreview stores the latest message text as the session preview,
// truncated to previewLimit runes. Unknown ids are a no-op.
func (s *SessionStore) UpdatePreview(id, text string) bool {
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	text = strings.TrimSpace(text)
	if runes := []rune(text); len(runes) > previewLimit {
		text = string(runes[:previewLimit-1]) + "…"
	}
	sess.Preview = text
	return true
}

// UpdateMessageCount records the session's message count. Unknown ids are
// a no-op.
func (s *SessionStore) UpdateMessageCount(id string, count int) bool {
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.MessageCount = count
	return true
}

// Get returns a copy of the session with the given id.
func (s *SessionStore) Get(id string) (Session, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Sessions returns all sessions in creation order.
func (s *SessionStore) Sessions() []Session {
	out := make([]Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.sessions[id])
	}
	return out
}

// Len returns the number of registered sessions.
func (s *SessionStore) Len() int {
	return len(s.order)
}
