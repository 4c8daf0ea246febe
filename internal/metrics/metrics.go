// Package metrics holds the prometheus collectors shared by the LLM layer,
// the generation loop and the HTTP service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors groups every metric the service exports.
type Collectors struct {
	LLMRequests       *prometheus.CounterVec
	LLMLatency        *prometheus.HistogramVec
	LLMTokens         *prometheus.CounterVec
	GenerationAttempt *prometheus.CounterVec
	GenerationFailed  *prometheus.CounterVec
	QuizRequests      *prometheus.CounterVec
	AnswerLetters     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg skips
// registration, which keeps tests independent of the global registry.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		LLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindfullm",
			Name:      "llm_requests_total",
			Help:      "Backend calls by model, purpose and outcome.",
		}, []string{"model", "purpose", "outcome"}),
		LLMLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mindfullm",
			Name:      "llm_request_seconds",
			Help:      "Backend call latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}, []string{"model", "purpose"}),
		LLMTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindfullm",
			Name:      "llm_tokens_total",
			Help:      "Tokens consumed by direction.",
		}, []string{"model", "direction"}),
		GenerationAttempt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindfullm",
			Name:      "generation_attempts_total",
			Help:      "Generation loop attempts by purpose and validation result.",
		}, []string{"purpose", "result"}),
		GenerationFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindfullm",
			Name:      "generation_exhausted_total",
			Help:      "Generation loops that ran out of attempts.",
		}, []string{"purpose"}),
		QuizRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindfullm",
			Name:      "quiz_requests_total",
			Help:      "Quiz requests by final status.",
		}, []string{"status"}),
		AnswerLetters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mindfullm",
			Name:      "mcq_correct_letter_total",
			Help:      "Correct-answer letters assigned by the balance sampler.",
		}, []string{"letter"}),
	}

	if reg != nil {
		reg.MustRegister(
			c.LLMRequests,
			c.LLMLatency,
			c.LLMTokens,
			c.GenerationAttempt,
			c.GenerationFailed,
			c.QuizRequests,
			c.AnswerLetters,
		)
	}
	return c
}
