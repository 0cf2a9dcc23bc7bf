package api

import "context"

// ChatRequest is the body for POST /api/chat. Messages carries the full
// conversation history as completion context.
type ChatRequest struct {
	Message  string        `json:"message"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	UseRAG   bool          `json:"useRAG"`
	RAGTopK  int           `json:"ragTopK,omitempty"`
	RAGMin   float64       `json:"ragMinScore,omitempty"`
}

type chatReply struct {
	Message string `json:"message"`
}

// Chat sends a free-form message to the general-purpose completion endpoint
// and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	var reply chatReply
	if err := c.post(ctx, "/api/chat", req, schemaChatReply, &reply); err != nil {
		return "", err
	}
	return reply.Message, nil
}
