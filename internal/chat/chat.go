// Package chat grounds a conversation in one ingested document: the document
// text rides along as system context and the session refuses off-document
// topics.
package chat

import (
	"context"
	"fmt"

	"github.com/kestrelworks/pulseboard/internal/ai"
)

const fallbackReply = "I could not generate a response."

// DocSession is a multi-turn conversation scoped to a single document.
type DocSession struct {
	session *ai.Session
}

// NewDocSession builds a session whose system instruction embeds the document
// text, truncated to budget bytes so oversized files cannot blow the context
// window. Prior turns (role "model" is accepted as an alias for "assistant")
// seed the history.
func NewDocSession(client *ai.Client, model, document string, budget int, history []ai.Turn) *DocSession {
	if budget > 0 && len(document) > budget {
		document = document[:budget]
	}
	system := fmt.Sprintf(`You are a helpful assistant analyzing a specific document provided by the user.

RULES:
1. Answer ONLY based on the provided document context.
2. STRICTLY REFUSE to answer questions about software development, coding, or programming.
3. STRICTLY REFUSE to discuss topics not found in the document.
4. If the user asks for code, say "I cannot assist with software development tasks."

DOCUMENT CONTEXT:
%s`, document)
	return &DocSession{session: ai.NewSession(client, model, system, history)}
}

// Ask sends one user message and returns the assistant reply. A successful
// call that yields empty text returns a fixed fallback line instead, so the
// caller always has something to display.
func (d *DocSession) Ask(ctx context.Context, message string) (string, error) {
	reply, err := d.session.Send(ctx, message)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return fallbackReply, nil
	}
	return reply, nil
}

// AskStream is Ask with incremental delivery: partial chunks arrive through
// onDelta as the provider streams them, and the full reply is returned at the
// end. An empty stream yields the same fallback line as Ask.
func (d *DocSession) AskStream(ctx context.Context, message string, onDelta func(string)) (string, error) {
	reply, err := d.session.SendStream(ctx, message, onDelta)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return fallbackReply, nil
	}
	return reply, nil
}

// History exposes the accumulated turns for transcript display.
func (d *DocSession) History() []ai.Message {
	return d.session.History()
}
