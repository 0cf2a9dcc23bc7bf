package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Preference is a key/value client setting, e.g. the selected IFRS standard.
type Preference struct {
	ent.Schema
}

func (Preference) Fields() []ent.Field {
	return []ent.Field{
		field.String("key").
			Unique().
			NotEmpty(),
		field.String("value"),
	}
}
