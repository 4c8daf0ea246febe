package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/teachathon/teachathon/internal/logging"
)

// LoggingProvider is a decorator that logs one structured line per backend
// call. It prefers the request-scoped logger carried by ctx and falls back
// to the logger it was built with.
type LoggingProvider struct {
	inner  Provider
	logger zerolog.Logger
}

// WithLogging wraps a Provider with call logging.
func WithLogging(p Provider, logger zerolog.Logger) Provider {
	return &LoggingProvider{inner: p, logger: logger.With().Str("component", "llm").Logger()}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	logger := logging.FromContext(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = l.logger
	}

	var evt *zerolog.Event
	if err != nil {
		evt = logger.Warn().Err(err)
	} else {
		evt = logger.Debug()
	}

	evt = evt.
		Str("purpose", purpose).
		Str("model", l.inner.ModelID()).
		Int("messages", len(req.Messages)).
		Int64("latency_ms", time.Since(start).Milliseconds())

	if resp != nil {
		evt = evt.
			Str("served_by", resp.Model).
			Int("input_tokens", resp.Usage.InputTokens).
			Int("output_tokens", resp.Usage.OutputTokens).
			Str("stop_reason", resp.StopReason)
		if cost := LookupCost(resp.Model); cost != nil {
			evt = evt.Float64("cost_usd", cost.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens))
		}
	}

	evt.Msg("llm request")
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
