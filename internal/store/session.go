package store

import (
	"context"
	"fmt"

	"github.com/complyx/complyx/ent"
	"github.com/complyx/complyx/ent/chatmessage"
	"github.com/complyx/complyx/ent/chatsession"
	"github.com/complyx/complyx/internal/chat"
)

type sessionRepo struct {
	client *ent.Client
}

func (r *sessionRepo) SaveSession(ctx context.Context, sess chat.Session) error {
	n, err := r.client.ChatSession.Update().
		Where(chatsession.SessionID(sess.ID)).
		SetPreview(sess.Preview).
		SetMessageCount(sess.MessageCount).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("update session %s: %w", sess.ID, err)
	}
	if n > 0 {
		return nil
	}

	_, err = r.client.ChatSession.Create().
		SetSessionID(sess.ID).
		SetPreview(sess.Preview).
		SetMessageCount(sess.MessageCount).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

func (r *sessionRepo) Sessions(ctx context.Context) ([]chat.Session, error) {
	rows, err := r.client.ChatSession.Query().
		Order(ent.Asc(chatsession.FieldCreatedAt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	sessions := make([]chat.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, chat.Session{
			ID:           row.SessionID,
			Preview:      row.Preview,
			MessageCount: row.MessageCount,
		})
	}
	return sessions, nil
}

func (r *sessionRepo) SaveMessage(ctx context.Context, sessionID string, msg chat.Message) error {
	n, err := r.client.ChatMessage.Update().
		Where(chatmessage.MessageID(msg.ID)).
		SetContent(msg.Content).
		SetStatus(string(msg.Status)).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("update message %s: %w", msg.ID, err)
	}
	if n > 0 {
		return nil
	}

	builder := r.client.ChatMessage.Create().
		SetMessageID(msg.ID).
		SetSessionID(sessionID).
		SetRole(string(msg.Role)).
		SetContent(msg.Content).
		SetStatus(string(msg.Status)).
		SetTimestamp(msg.Timestamp)
	if msg.QuestionID != "" {
		builder = builder.SetQuestionID(msg.QuestionID)
	}
	if _, err := builder.Save(ctx); err != nil {
		return fmt.Errorf("save message %s: %w", msg.ID, err)
	}
	return nil
}

func (r *sessionRepo) DeleteMessage(ctx context.Context, messageID string) error {
	_, err := r.client.ChatMessage.Delete().
		Where(chatmessage.MessageID(messageID)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete message %s: %w", messageID, err)
	}
	return nil
}

func (r *sessionRepo) Messages(ctx context.Context, sessionID string) ([]chat.Message, error) {
	rows, err := r.client.ChatMessage.Query().
		Where(chatmessage.SessionID(sessionID)).
		Order(ent.Asc(chatmessage.FieldTimestamp)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("query messages for %s: %w", sessionID, err)
	}

	messages := make([]chat.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, chat.Message{
			ID:         row.MessageID,
			Content:    row.Content,
			Role:       chat.Role(row.Role),
			Timestamp:  row.Timestamp,
			Status:     chat.Status(row.Status),
			QuestionID: row.QuestionID,
		})
	}
	return messages, nil
}
