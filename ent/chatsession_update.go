// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/complyx/complyx/ent/chatsession"
	"github.com/complyx/complyx/ent/predicate"
)

// ChatSessionUpdate is the builder for updating ChatSession entities.
type ChatSessionUpdate struct {
	config
	hooks    []Hook
	mutation *ChatSessionMutation
}

// Where appends a list predicates to the ChatSessionUpdate builder.
func (_u *ChatSessionUpdate) Where(ps ...predicate.ChatSession) *ChatSessionUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetPreview sets the "preview" field.
func (_u *ChatSessionUpdate) SetPreview(v string) *ChatSessionUpdate {
	_u.mutation.SetPreview(v)
	return _u
}

// SetNillablePreview sets the "preview" field if the given value is not nil.
func (_u *ChatSessionUpdate) SetNillablePreview(v *string) *ChatSessionUpdate {
	if v != nil {
		_u.SetPreview(*v)
	}
	return _u
}

// SetMessageCount sets the "message_count" field.
func (_u *ChatSessionUpdate) SetMessageCount(v int) *ChatSessionUpdate {
	_u.mutation.ResetMessageCount()
	_u.mutation.SetMessageCount(v)
	return _u
}

// SetNillableMessageCount sets the "message_count" field if the given value is not nil.
func (_u *ChatSessionUpdate) SetNillableMessageCount(v *int) *ChatSessionUpdate {
	if v != nil {
		_u.SetMessageCount(*v)
	}
	return _u
}

// AddMessageCount adds value to the "message_count" field.
func (_u *ChatSessionUpdate) AddMessageCount(v int) *ChatSessionUpdate {
	_u.mutation.AddMessageCount(v)
	return _u
}

// Mutation returns the ChatSessionMutation object of the builder.
func (_u *ChatSessionUpdate) Mutation() *ChatSessionMutation {
	return _u.mutation
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *ChatSessionUpdate) Save(ctx context.Context) (int, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *ChatSessionUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *ChatSessionUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *ChatSessionUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

func (_u *ChatSessionUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	_spec := sqlgraph.NewUpdateSpec(chatsession.Table, chatsession.Columns, sqlgraph.NewFieldSpec(chatsession.FieldID, field.TypeInt))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.Preview(); ok {
		_spec.SetField(chatsession.FieldPreview, field.TypeString, value)
	}
	if value, ok := _u.mutation.MessageCount(); ok {
		_spec.SetField(chatsession.FieldMessageCount, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedMessageCount(); ok {
		_spec.AddField(chatsession.FieldMessageCount, field.TypeInt, value)
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{chatsession.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// ChatSessionUpdateOne is the builder for updating a single ChatSession entity.
type ChatSessionUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *ChatSessionMutation
}

// SetPreview sets the "preview" field.
func (_u *ChatSessionUpdateOne) SetPreview(v string) *ChatSessionUpdateOne {
	_u.mutation.SetPreview(v)
	return _u
}

// SetNillablePreview sets the "preview" field if the given value is not nil.
func (_u *ChatSessionUpdateOne) SetNillablePreview(v *string) *ChatSessionUpdateOne {
	if v != nil {
		_u.SetPreview(*v)
	}
	return _u
}

// SetMessageCount sets the "message_count" field.
func (_u *ChatSessionUpdateOne) SetMessageCount(v int) *ChatSessionUpdateOne {
	_u.mutation.ResetMessageCount()
	_u.mutation.SetMessageCount(v)
	return _u
}

// SetNillableMessageCount sets the "message_count" field if the given value is not nil.
func (_u *ChatSessionUpdateOne) SetNillableMessageCount(v *int) *ChatSessionUpdateOne {
	if v != nil {
		_u.SetMessageCount(*v)
	}
	return _u
}

// AddMessageCount adds value to the "message_count" field.
func (_u *ChatSessionUpdateOne) AddMessageCount(v int) *ChatSessionUpdateOne {
	_u.mutation.AddMessageCount(v)
	return _u
}

// Mutation returns the ChatSessionMutation object of the builder.
func (_u *ChatSessionUpdateOne) Mutation() *ChatSessionMutation {
	return _u.mutation
}

// Where appends a list predicates to the ChatSessionUpdate builder.
func (_u *ChatSessionUpdateOne) Where(ps ...predicate.ChatSession) *ChatSessionUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *ChatSessionUpdateOne) Select(field string, fields ...string) *ChatSessionUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated ChatSession entity.
func (_u *ChatSessionUpdateOne) Save(ctx context.Context) (*ChatSession, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *ChatSessionUpdateOne) SaveX(ctx context.Context) *ChatSession {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *ChatSessionUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *ChatSessionUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

func (_u *ChatSessionUpdateOne) sqlSave(ctx context.Context) (_node *ChatSession, err error) {
	_spec := sqlgraph.NewUpdateSpec(chatsession.Table, chatsession.Columns, sqlgraph.NewFieldSpec(chatsession.FieldID, field.TypeInt))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "ChatSession.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, chatsession.FieldID)
		for _, f := range fields {
			if !chatsession.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != chatsession.FieldID {
				_spec.Node.Columns = append(_spec.Node.Columns, f)
			}
		}
	}
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.Preview(); ok {
		_spec.SetField(chatsession.FieldPreview, field.TypeString, value)
	}
	if value, ok := _u.mutation.MessageCount(); ok {
		_spec.SetField(chatsession.FieldMessageCount, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedMessageCount(); ok {
		_spec.AddField(chatsession.FieldMessageCount, field.TypeInt, value)
	}
	_node = &ChatSession{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{chatsession.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
