// Package app assembles the quiz pipeline from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/teachathon/teachathon/internal/agent"
	"github.com/teachathon/teachathon/internal/config"
	"github.com/teachathon/teachathon/internal/forms"
	"github.com/teachathon/teachathon/internal/googleauth"
	"github.com/teachathon/teachathon/internal/llm"
	"github.com/teachathon/teachathon/internal/mail"
	"github.com/teachathon/teachathon/internal/metrics"
	"github.com/teachathon/teachathon/internal/quiz"
	"github.com/teachathon/teachathon/internal/quizgen"
)

// App holds the long-lived components shared by the CLI commands.
type App struct {
	Config    *config.App
	Logger    zerolog.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.Collectors
	Provider  llm.Provider
	Generator *quizgen.Generator
}

// New builds the LLM provider, generation loop and question generator.
// Google clients are built lazily by QuizService.
func New(ctx context.Context, cfg *config.App, logger zerolog.Logger) (*App, error) {
	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	provider, err := llm.NewProvider(ctx, cfg.LLM, logger, m)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}

	prompts, err := quizgen.LoadPrompts(cfg.Generation.PromptsFile)
	if err != nil {
		return nil, err
	}

	a := agent.New(provider, agent.Config{
		Attempts:    cfg.Generation.Attempts,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}, m)

	gen := quizgen.New(a, prompts, quizgen.Options{
		SkipEmptyOpenEnded: cfg.Generation.SkipEmptyOpenEnded,
	}, m)

	logger.Debug().
		Str("provider", cfg.LLM.Provider).
		Str("model", provider.ModelID()).
		Int("attempts", cfg.Generation.Attempts).
		Msg("pipeline ready")

	return &App{
		Config:    cfg,
		Logger:    logger,
		Registry:  reg,
		Metrics:   m,
		Provider:  provider,
		Generator: gen,
	}, nil
}

// QuizService connects the generator to Google Forms and, unless mail is
// disabled or withMail is false, to Gmail.
func (a *App) QuizService(ctx context.Context, withMail bool) (*quiz.Service, error) {
	opts, err := googleauth.ClientOptions(ctx, a.Config.Google, googleauth.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("google credentials: %w", err)
	}

	publisher, err := forms.New(ctx, a.Logger, opts...)
	if err != nil {
		return nil, err
	}

	var mailer quiz.Mailer
	if withMail && !a.Config.Mail.Disabled {
		sender, err := mail.New(ctx, a.Config.Mail, a.Logger, opts...)
		if err != nil {
			return nil, err
		}
		mailer = sender
	}

	return quiz.NewService(a.Generator, publisher, mailer, a.Metrics), nil
}
