package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purpose labels used by the quiz generator.
const (
	PurposeMCQ       = "mcq"
	PurposeOpenEnded = "open-ended"
	PurposeTitle     = "quiz-title"
)

// WithPurpose attaches a purpose label to the context for logging and
// metrics.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
