package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ChatMessage is a persisted chat turn belonging to a ChatSession.
type ChatMessage struct {
	ent.Schema
}

func (ChatMessage) Fields() []ent.Field {
	return []ent.Field{
		field.String("message_id").
			Unique().
			NotEmpty().
			Immutable(),
		field.String("session_id").
			NotEmpty().
			Immutable(),
		field.String("role").
			NotEmpty().
			Comment("user, assistant or system"),
		field.Text("content"),
		field.String("status").
			Default("delivered"),
		field.String("question_id").
			Optional().
			Comment("Set when the message carries an assessment question"),
		field.Time("timestamp").
			Default(time.Now).
			Immutable(),
	}
}

func (ChatMessage) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("timestamp"),
	}
}
