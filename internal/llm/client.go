// Package llm wraps the text-completion service behind a small
// interface so stages can degrade to deterministic fallbacks when no
// provider is configured.
package llm

import "context"

// Message is one role-tagged entry in a conversation.
type Message struct {
	Role    string // "system", "user" or "assistant"
	Content string
}

// Client generates one text completion for a message history.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
