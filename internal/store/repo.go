package store

import (
	"context"

	"github.com/complyx/complyx/internal/api"
	"github.com/complyx/complyx/internal/chat"
)

// CredentialRepo persists the bearer token pair and user blob. It satisfies
// api.TokenStore, so the API client's refresh-and-retry writes through it.
type CredentialRepo interface {
	api.TokenStore

	// SaveUser stores the authenticated user alongside the tokens.
	SaveUser(ctx context.Context, user api.User) error

	// User returns the stored user, ok=false when logged out.
	User(ctx context.Context) (api.User, bool, error)
}

// StandardPreferenceKey is the persisted IFRS standard selection.
const StandardPreferenceKey = "complyx-ifrs-standard"

// PreferenceRepo persists key/value client settings.
type PreferenceRepo interface {
	// Set stores or replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Get returns the value for key, ok=false when unset.
	Get(ctx context.Context, key string) (string, bool, error)
}

// SessionRepo persists conversation threads and their messages.
type SessionRepo interface {
	// SaveSession creates or updates a session registry entry.
	SaveSession(ctx context.Context, sess chat.Session) error

	// Sessions returns all sessions in creation order.
	Sessions(ctx context.Context) ([]chat.Session, error)

	// SaveMessage appends a message to a session. Existing message ids are
	// updated in place (status/content changes).
	SaveMessage(ctx context.Context, sessionID string, msg chat.Message) error

	// DeleteMessage removes a persisted message (edit truncation).
	DeleteMessage(ctx context.Context, messageID string) error

	// Messages returns a session's messages ordered by timestamp.
	Messages(ctx context.Context, sessionID string) ([]chat.Message, error)
}
