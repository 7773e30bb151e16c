package ai

import (
	"context"
	"strings"
)

// Turn is one entry of a conversation history: a role tag plus text content.
type Turn struct {
	Role string
	Text string
}

// Session is a stateful multi-turn conversation bound to one model and system
// instruction. History grows by appending turns in order; the session never
// inspects or rewrites earlier turns.
type Session struct {
	client  *Client
	model   string
	system  string
	history []Message
}

// NewSession creates a chat session seeded with prior history.
func NewSession(client *Client, model, system string, history []Turn) *Session {
	s := &Session{client: client, model: model, system: system}
	for _, t := range history {
		role := t.Role
		if role == "model" {
			role = "assistant"
		}
		s.history = append(s.history, Message{Role: role, Content: t.Text})
	}
	return s
}

// Send appends the user message, runs a completion over the full history, and
// appends the assistant reply before returning it.
func (s *Session) Send(ctx context.Context, message string) (string, error) {
	msgs := make([]Message, 0, len(s.history)+2)
	if s.system != "" {
		msgs = append(msgs, Message{Role: "system", Content: s.system})
	}
	msgs = append(msgs, s.history...)
	msgs = append(msgs, Message{Role: "user", Content: message})

	resp, err := s.client.Generate(ctx, GenerateRequest{Model: s.model, Messages: msgs})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &APIError{Message: "provider returned no choices"}
	}
	reply := resp.Choices[0].Message.Content
	s.history = append(s.history,
		Message{Role: "user", Content: message},
		Message{Role: "assistant", Content: reply},
	)
	return reply, nil
}

// SendStream behaves like Send but delivers the reply incrementally through
// onDelta. The accumulated text joins the history once the stream completes;
// a stream that errors leaves the history untouched.
func (s *Session) SendStream(ctx context.Context, message string, onDelta func(string)) (string, error) {
	msgs := make([]Message, 0, len(s.history)+2)
	if s.system != "" {
		msgs = append(msgs, Message{Role: "system", Content: s.system})
	}
	msgs = append(msgs, s.history...)
	msgs = append(msgs, Message{Role: "user", Content: message})

	var b strings.Builder
	err := s.client.GenerateStream(ctx, GenerateRequest{Model: s.model, Messages: msgs}, func(delta string) {
		b.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	})
	if err != nil {
		return "", err
	}
	reply := b.String()
	s.history = append(s.history,
		Message{Role: "user", Content: message},
		Message{Role: "assistant", Content: reply},
	)
	return reply, nil
}

// History returns a copy of the accumulated conversation turns.
func (s *Session) History() []Message {
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}
