// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/complyx/complyx/ent/chatmessage"
	"github.com/complyx/complyx/ent/chatsession"
	"github.com/complyx/complyx/ent/credential"
	"github.com/complyx/complyx/ent/preference"
	"github.com/complyx/complyx/ent/schema"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	chatmessageFields := schema.ChatMessage{}.Fields()
	_ = chatmessageFields
	// chatmessageDescMessageID is the schema descriptor for message_id field.
	chatmessageDescMessageID := chatmessageFields[0].Descriptor()
	// chatmessage.MessageIDValidator is a validator for the "message_id" field. It is called by the builders before save.
	chatmessage.MessageIDValidator = chatmessageDescMessageID.Validators[0].(func(string) error)
	// chatmessageDescSessionID is the schema descriptor for session_id field.
	chatmessageDescSessionID := chatmessageFields[1].Descriptor()
	// chatmessage.SessionIDValidator is a validator for the "session_id" field. It is called by the builders before save.
	chatmessage.SessionIDValidator = chatmessageDescSessionID.Validators[0].(func(string) error)
	// chatmessageDescRole is the schema descriptor for role field.
	chatmessageDescRole := chatmessageFields[2].Descriptor()
	// chatmessage.RoleValidator is a validator for the "role" field. It is called by the builders before save.
	chatmessage.RoleValidator = chatmessageDescRole.Validators[0].(func(string) error)
	// chatmessageDescStatus is the schema descriptor for status field.
	chatmessageDescStatus := chatmessageFields[4].Descriptor()
	// chatmessage.DefaultStatus holds the default value on creation for the status field.
	chatmessage.DefaultStatus = chatmessageDescStatus.Default.(string)
	// chatmessageDescTimestamp is the schema descriptor for timestamp field.
	chatmessageDescTimestamp := chatmessageFields[6].Descriptor()
	// chatmessage.DefaultTimestamp holds the default value on creation for the timestamp field.
	chatmessage.DefaultTimestamp = chatmessageDescTimestamp.Default.(func() time.Time)
	chatsessionFields := schema.ChatSession{}.Fields()
	_ = chatsessionFields
	// chatsessionDescSessionID is the schema descriptor for session_id field.
	chatsessionDescSessionID := chatsessionFields[0].Descriptor()
	// chatsession.SessionIDValidator is a validator for the "session_id" field. It is called by the builders before save.
	chatsession.SessionIDValidator = chatsessionDescSessionID.Validators[0].(func(string) error)
	// chatsessionDescPreview is the schema descriptor for preview field.
	chatsessionDescPreview := chatsessionFields[1].Descriptor()
	// chatsession.DefaultPreview holds the default value on creation for the preview field.
	chatsession.DefaultPreview = chatsessionDescPreview.Default.(string)
	// chatsessionDescMessageCount is the schema descriptor for message_count field.
	chatsessionDescMessageCount := chatsessionFields[2].Descriptor()
	// chatsession.DefaultMessageCount holds the default value on creation for the message_count field.
	chatsession.DefaultMessageCount = chatsessionDescMessageCount.Default.(int)
	// chatsessionDescCreatedAt is the schema descriptor for created_at field.
	chatsessionDescCreatedAt := chatsessionFields[3].Descriptor()
	// chatsession.DefaultCreatedAt holds the default value on creation for the created_at field.
	chatsession.DefaultCreatedAt = chatsessionDescCreatedAt.Default.(func() time.Time)
	credentialFields := schema.Credential{}.Fields()
	_ = credentialFields
	// credentialDescUpdatedAt is the schema descriptor for updated_at field.
	credentialDescUpdatedAt := credentialFields[3].Descriptor()
	// credential.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	credential.DefaultUpdatedAt = credentialDescUpdatedAt.Default.(func() time.Time)
	// credential.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	credential.UpdateDefaultUpdatedAt = credentialDescUpdatedAt.UpdateDefault.(func() time.Time)
	preferenceFields := schema.Preference{}.Fields()
	_ = preferenceFields
	// preferenceDescKey is the schema descriptor for key field.
	preferenceDescKey := preferenceFields[0].Descriptor()
	// preference.KeyValidator is a validator for the "key" field. It is called by the builders before save.
	preference.KeyValidator = preferenceDescKey.Validators[0].(func(string) error)
}
