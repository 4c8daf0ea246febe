// Package quiz runs the full quiz request: generate questions, title them,
// publish the form and notify the recipient.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teachathon/teachathon/internal/agent"
	"github.com/teachathon/teachathon/internal/conversation"
	"github.com/teachathon/teachathon/internal/logging"
	"github.com/teachathon/teachathon/internal/mail"
	"github.com/teachathon/teachathon/internal/metrics"
	"github.com/teachathon/teachathon/internal/quizgen"
)

// DefaultTitle is used when no title could be generated.
const DefaultTitle = "Quiz"

// QuestionGenerator produces questions and titles.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, messages []conversation.Message, numMCQ, numOpen int) (*quizgen.Result, error)
	GenerateTitle(ctx context.Context, questions quizgen.QuestionSet) (string, error)
}

// Publisher turns questions into a shareable quiz and returns its URL.
type Publisher interface {
	Publish(ctx context.Context, questions quizgen.QuestionSet, title string) (string, error)
}

// Mailer delivers a plain-text message and returns its id.
type Mailer interface {
	Send(ctx context.Context, recipient, subject, body string) (string, error)
}

// Request is one quiz request.
type Request struct {
	Messages  []conversation.Message
	NumMCQ    int
	NumOpen   int
	Recipient string
}

// Result describes a published quiz.
type Result struct {
	FormURL            string
	Title              string
	Questions          quizgen.QuestionSet
	QuestionsGenerated int
	AnswerBalance      map[string]int
	EmailSent          bool
	EmailError         string
}

// Service runs quiz requests. It holds no per-request state.
type Service struct {
	generator QuestionGenerator
	publisher Publisher
	mailer    Mailer
	metrics   *metrics.Collectors
}

// NewService creates a Service. mailer and m may be nil; without a mailer no
// notification is sent. publisher may be nil when only Draft is used.
func NewService(generator QuestionGenerator, publisher Publisher, mailer Mailer, m *metrics.Collectors) *Service {
	return &Service{generator: generator, publisher: publisher, mailer: mailer, metrics: m}
}

// Draft generates and titles a quiz without publishing it. Title
// exhaustion falls back to DefaultTitle; any other failure aborts.
func (s *Service) Draft(ctx context.Context, req Request) (*Result, error) {
	logger := logging.FromContext(ctx)

	logger.Info().
		Int("num_mcq", req.NumMCQ).
		Int("num_open", req.NumOpen).
		Int("message_count", len(req.Messages)).
		Msg("starting quiz generation")

	generated, err := s.generator.GenerateQuestions(ctx, req.Messages, req.NumMCQ, req.NumOpen)
	if err != nil {
		s.count("generation_failed")
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	questions := generated.Questions

	title, err := s.generator.GenerateTitle(ctx, questions)
	var exhausted *agent.ErrGenerationExhausted
	switch {
	case errors.As(err, &exhausted):
		logger.Warn().Err(err).Str("title", DefaultTitle).Msg("title generation failed, using default")
		title = DefaultTitle
	case err != nil:
		s.count("generation_failed")
		return nil, fmt.Errorf("generate title: %w", err)
	case title == "":
		title = DefaultTitle
	}

	return &Result{
		Title:              title,
		Questions:          questions,
		QuestionsGenerated: len(questions),
		AnswerBalance:      generated.Balance,
	}, nil
}

// Create generates, titles and publishes a quiz, then tries to email the
// link. Generation and publish failures abort; email failures are reported
// in the Result.
func (s *Service) Create(ctx context.Context, req Request) (*Result, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	res, err := s.Draft(ctx, req)
	if err != nil {
		return nil, err
	}

	formURL, err := s.publisher.Publish(ctx, res.Questions, res.Title)
	if err != nil {
		s.count("publish_failed")
		return nil, &ErrPublish{Err: err}
	}
	logger.Info().Str("form_url", formURL).Str("title", res.Title).Msg("quiz published")
	res.FormURL = formURL

	if err := s.notify(ctx, req.Recipient, res.Title, formURL); err != nil {
		logger.Error().Err(err).Str("recipient", req.Recipient).Msg("failed to send quiz email")
		res.EmailError = err.Error()
	} else if s.mailer != nil && req.Recipient != "" {
		res.EmailSent = true
	}

	s.count("ok")
	logger.Info().
		Int("questions", res.QuestionsGenerated).
		Bool("email_sent", res.EmailSent).
		Dur("elapsed", time.Since(start)).
		Msg("quiz request complete")
	return res, nil
}

func (s *Service) notify(ctx context.Context, recipient, title, formURL string) error {
	if s.mailer == nil || recipient == "" {
		return nil
	}
	if _, err := s.mailer.Send(ctx, recipient, mail.Subject(title), mail.Body(formURL)); err != nil {
		return &ErrEmail{Err: err}
	}
	return nil
}

func (s *Service) count(status string) {
	if s.metrics != nil {
		s.metrics.QuizRequests.WithLabelValues(status).Inc()
	}
}
