package llm

import (
	"context"
	"time"

	"github.com/teachathon/teachathon/internal/metrics"
)

// MetricsProvider is a decorator that records call counts, latency and token
// usage.
type MetricsProvider struct {
	inner Provider
	m     *metrics.Collectors
}

// WithMetrics wraps a Provider with prometheus instrumentation. A nil
// collector set returns p unchanged.
func WithMetrics(p Provider, m *metrics.Collectors) Provider {
	if m == nil {
		return p
	}
	return &MetricsProvider{inner: p, m: m}
}

func (mp *MetricsProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)
	model := mp.inner.ModelID()

	resp, err := mp.inner.Generate(ctx, req)

	mp.m.LLMLatency.WithLabelValues(model, purpose).Observe(time.Since(start).Seconds())
	mp.m.LLMRequests.WithLabelValues(model, purpose, outcome(err)).Inc()
	if resp != nil {
		mp.m.LLMTokens.WithLabelValues(model, "input").Add(float64(resp.Usage.InputTokens))
		mp.m.LLMTokens.WithLabelValues(model, "output").Add(float64(resp.Usage.OutputTokens))
	}
	return resp, err
}

func (mp *MetricsProvider) ModelID() string {
	return mp.inner.ModelID()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsTransport(err):
		return "transport_error"
	default:
		return "invalid_response"
	}
}
