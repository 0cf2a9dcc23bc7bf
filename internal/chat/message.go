package chat

import "time"

// Status tracks a message's delivery lifecycle.
type Status string

const (
	StatusSending   Status = "sending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusError     Status = "error"
)

// Role identifies the message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single chat turn. Immutable once delivered except for the
// edit/regenerate flows, which replace content or truncate trailing
// assistant replies.
type Message struct {
	ID        string
	Content   string
	Role      Role
	Timestamp time.Time
	Status    Status

	// QuestionID links an assistant message to the assessment question it
	// carries. Empty for free-form conversation.
	QuestionID string
}

// IsUser reports whether the message was authored by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}
