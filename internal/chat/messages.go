package chat

import (
	"time"

	"github.com/google/uuid"
)

// MessageStore holds the ordered message list, the typing indicator, the
// outstanding question pointer and the answered-question set for one
// conversation. All mutations are synchronous and single-writer (the UI
// update loop); no locking.
type MessageStore struct {
	messages []Message
	byID     map[string]int // id → index in messages

	currentQuestion string // outstanding question id, "" if none
	answered        map[string]bool
	isTyping        bool
}

// NewMessageStore creates an empty message store.
func NewMessageStore() *MessageStore {
	return &MessageStore{
		byID:     make(map[string]int),
		answered: make(map[string]bool),
	}
}

// Add appends a message, generating its id and timestamp. The populated
// message is returned.
func (s *MessageStore) Add(role Role, content string, status Status, questionID string) Message {
	m := Message{
		ID:         uuid.New().String(),
		Content:    content,
		Role:       role,
		Timestamp:  time.Now(),
		Status:     status,
		QuestionID: questionID,
	}
	s.byID[m.ID] = len(s.messages)
	s.messages = append(s.messages, m)
	return m
}

// Restore appends a message loaded from the local store, keeping its id and
// timestamp. Empty and duplicate ids are rejected.
func (s *MessageStore) Restore(m Message) bool {
	if m.ID == "" {
		return false
	}
	if _, ok := s.byID[m.ID]; ok {
		return false
	}
	s.byID[m.ID] = len(s.messages)
	s.messages = append(s.messages, m)
	return true
}

// Update merges a patch into the message with the given id. Unknown ids are
// a no-op. Zero-valued patch fields are left unchanged.
func (s *MessageStore) Update(id string, patch MessagePatch) bool {
	idx, ok := s.byID[id]
	if !ok {
		return false
	}
	m := &s.messages[idx]
	if patch.Content != nil {
		m.Content = *patch.Content
	}
	if patch.Status != nil {
		m.Status = *patch.Status
	}
	return true
}

// MessagePatch is a partial message update.
type MessagePatch struct {
	Content *string
	Status  *Status
}

// Remove deletes the message with the given id, preserving order of the
// rest. The id is never reused: the uuid space makes resurrection by a
// later Add impossible.
func (s *MessageStore) Remove(id string) bool {
	idx, ok := s.byID[id]
	if !ok {
		return false
	}
	s.messages = append(s.messages[:idx], s.messages[idx+1:]...)
	delete(s.byID, id)
	for i := idx; i < len(s.messages); i++ {
		s.byID[s.messages[i].ID] = i
	}
	return true
}

// Clear empties the list and resets typing and question state.
func (s *MessageStore) Clear() {
	s.messages = nil
	s.byID = make(map[string]int)
	s.answered = make(map[string]bool)
	s.currentQuestion = ""
	s.isTyping = false
}

// Messages returns the messages in insertion order. The returned slice is
// a copy; mutating it does not affect the store.
func (s *MessageStore) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the message count.
func (s *MessageStore) Len() int {
	return len(s.messages)
}

// Get returns the message with the given id.
func (s *MessageStore) Get(id string) (Message, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return Message{}, false
	}
	return s.messages[idx], true
}

// SetCurrentQuestion records the outstanding question id ("" for none).
func (s *MessageStore) SetCurrentQuestion(questionID string) {
	s.currentQuestion = questionID
}

// CurrentQuestion returns the outstanding question id, "" if none.
func (s *MessageStore) CurrentQuestion() string {
	return s.currentQuestion
}

// MarkAnswered records the question id as answered and clears it as the
// outstanding question if it was.
func (s *MessageStore) MarkAnswered(questionID string) {
	s.answered[questionID] = true
	if s.currentQuestion == questionID {
		s.currentQuestion = ""
	}
}

// Answered reports whether the question id has been answered.
func (s *MessageStore) Answered(questionID string) bool {
	return s.answered[questionID]
}

// AnsweredIDs returns the answered question ids in unspecified order.
func (s *MessageStore) AnsweredIDs() []string {
	out := make([]string, 0, len(s.answered))
	for id := range s.answered {
		out = append(out, id)
	}
	return out
}

// SetTyping toggles the typing indicator.
func (s *MessageStore) SetTyping(v bool) {
	s.isTyping = v
}

// Typing reports whether the typing indicator is shown.
func (s *MessageStore) Typing() bool {
	return s.isTyping
}

// TruncateAfter removes all messages after the message with the given id,
// up to (not including) the next user message. Used by the edit flow: the
// edited user message keeps its place and the assistant replies it produced
// are dropped before resubmission.
func (s *MessageStore) TruncateAfter(id string) bool {
	idx, ok := s.byID[id]
	if !ok {
		return false
	}

	end := idx + 1
	for end < len(s.messages) && !s.messages[end].IsUser() {
		end++
	}
	if end == idx+1 {
		return true // nothing to drop
	}

	for i := idx + 1; i < end; i++ {
		delete(s.byID, s.messages[i].ID)
	}
	s.messages = append(s.messages[:idx+1], s.messages[end:]...)
	for i := idx + 1; i < len(s.messages); i++ {
		s.byID[s.messages[i].ID] = i
	}
	return true
}
