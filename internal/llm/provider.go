package llm

import (
	"context"

	"github.com/teachathon/teachathon/internal/conversation"
)

// Provider is the chat backend abstraction. It receives the full ordered
// message list (system message included) and returns the model's free-text
// reply. Errors returned by Generate are transport-level failures; the
// caller decides whether the returned text is usable.
type Provider interface {
	// Generate sends the conversation to the model and returns its reply.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// Messages is the conversation history in order. System-role messages
	// are mapped to each provider's native system instruction.
	Messages []Message

	// MaxTokens is the maximum number of tokens in the response. Zero lets
	// the provider pick its default.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message is a single conversation entry.
type Message = conversation.Message

// Role is the message sender role.
type Role = conversation.Role

const (
	RoleSystem    = conversation.RoleSystem
	RoleUser      = conversation.RoleUser
	RoleAssistant = conversation.RoleAssistant
)

// Response holds the LLM's output.
type Response struct {
	// Content is the raw text reply. It is untrusted and may be wrapped in
	// prose or code fences.
	Content string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// splitSystem separates system-role messages from the rest. Multiple system
// messages are joined with blank lines.
func splitSystem(msgs []Message) (string, []Message) {
	var system string
	rest := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == RoleSystem {
			if m.Content == "" {
				continue
			}
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
