package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Credential holds the bearer token pair and the authenticated user blob.
// At most one row exists; it is replaced on login/refresh and deleted on
// logout. This is the client-side persisted auth state.
type Credential struct {
	ent.Schema
}

func (Credential) Fields() []ent.Field {
	return []ent.Field{
		field.String("access_token").
			Sensitive().
			Comment("Bearer token attached to API requests"),
		field.String("refresh_token").
			Sensitive().
			Comment("Token for the one-time refresh-and-retry on 401"),
		field.JSON("user", map[string]any{}).
			Optional().
			Comment("Authenticated user as returned by the backend"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}
