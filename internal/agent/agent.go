// Package agent drives an LLM provider through a bounded number of attempts
// until its reply matches an output template.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/teachathon/teachathon/internal/conversation"
	"github.com/teachathon/teachathon/internal/llm"
	"github.com/teachathon/teachathon/internal/logging"
	"github.com/teachathon/teachathon/internal/metrics"
	"github.com/teachathon/teachathon/internal/shape"
)

// DefaultAttempts is the attempt budget used when Config.Attempts is unset.
const DefaultAttempts = 5

// ErrGenerationExhausted is returned when every attempt produced a reply that
// did not match the template.
type ErrGenerationExhausted struct {
	Attempts int
	// Last is the final postprocessed reply, kept for diagnostics.
	Last string
}

func (e *ErrGenerationExhausted) Error() string {
	return fmt.Sprintf("response generation failed after %d attempts", e.Attempts)
}

// Config controls the generation loop.
type Config struct {
	// Attempts bounds the number of provider calls per Generate.
	Attempts int

	// MaxTokens is the token budget for each reply.
	MaxTokens int

	// Temperature controls reply randomness.
	Temperature float64
}

// Agent runs the generation loop against a Provider. An Agent holds no
// conversation state of its own and is safe for concurrent use when its
// provider is.
type Agent struct {
	provider llm.Provider
	config   Config
	metrics  *metrics.Collectors
}

// New creates an Agent. m may be nil.
func New(provider llm.Provider, cfg Config, m *metrics.Collectors) *Agent {
	if cfg.Attempts <= 0 {
		cfg.Attempts = DefaultAttempts
	}
	return &Agent{provider: provider, config: cfg, metrics: m}
}

// Attempts returns the configured attempt budget.
func (a *Agent) Attempts() int {
	return a.config.Attempts
}

// Generate replaces the system message of conv with systemPrompt, then asks
// the provider for a reply until one matches tmpl or the attempt budget is
// spent. The returned assistant message is not appended to conv.
//
// Transport errors are returned immediately and do not consume attempts.
func (a *Agent) Generate(ctx context.Context, conv *conversation.Conversation, tmpl shape.Template, systemPrompt string) (conversation.Message, error) {
	conv.SetSystem(systemPrompt)

	logger := logging.FromContext(ctx)
	purpose := llm.PurposeFrom(ctx)
	req := llm.Request{
		Messages:    conv.Messages(),
		MaxTokens:   a.config.MaxTokens,
		Temperature: a.config.Temperature,
	}

	var last string
	for attempt := 1; attempt <= a.config.Attempts; attempt++ {
		content, err := a.complete(ctx, req)
		if err != nil {
			return conversation.Message{}, err
		}
		last = content

		if shape.Validate(content, tmpl) {
			a.record(purpose, "valid")
			return conversation.Message{Role: conversation.RoleAssistant, Content: content}, nil
		}

		a.record(purpose, "invalid")
		logger.Debug().
			Str("purpose", purpose).
			Int("attempt", attempt).
			Int("attempts", a.config.Attempts).
			Str("reply", truncate(content, 200)).
			Msg("reply does not match template")
	}

	if a.metrics != nil {
		a.metrics.GenerationFailed.WithLabelValues(purpose).Inc()
	}
	logger.Warn().Str("purpose", purpose).Int("attempts", a.config.Attempts).Msg("generation exhausted")
	return conversation.Message{}, &ErrGenerationExhausted{Attempts: a.config.Attempts, Last: last}
}

// complete performs one provider call and returns the postprocessed reply.
// Replies the provider could not turn into text come back as empty content
// so they count as an invalid attempt.
func (a *Agent) complete(ctx context.Context, req llm.Request) (string, error) {
	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		var inv *llm.ErrInvalidResponse
		if errors.As(err, &inv) {
			return StripFences(inv.Content), nil
		}
		var maxTok *llm.ErrMaxTokensExceeded
		if errors.As(err, &maxTok) {
			return StripFences(maxTok.Content), nil
		}
		return "", err
	}
	return StripFences(resp.Content), nil
}

func (a *Agent) record(purpose, result string) {
	if a.metrics == nil {
		return
	}
	a.metrics.GenerationAttempt.WithLabelValues(purpose, result).Inc()
}

// StripFences removes the markdown code fence a model tends to wrap JSON in:
// surrounding backticks and a leading "json" language tag.
func StripFences(content string) string {
	s := strings.TrimSpace(content)
	s = strings.Trim(s, "`")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimPrefix(s, "JSON")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
