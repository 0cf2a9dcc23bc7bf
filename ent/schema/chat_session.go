package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ChatSession is a persisted conversation thread, so session history
// survives restarts. Mirrors the in-memory session registry entry.
type ChatSession struct {
	ent.Schema
}

func (ChatSession) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			Unique().
			NotEmpty().
			Immutable().
			Comment("UUID assigned by the session store"),
		field.String("preview").
			Default("").
			Comment("Truncated latest message text"),
		field.Int("message_count").
			Default(0),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (ChatSession) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("created_at"),
	}
}
