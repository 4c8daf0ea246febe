// Package quizgen turns a conversation transcript into a set of quiz
// questions and a quiz title.
package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/teachathon/teachathon/internal/agent"
	"github.com/teachathon/teachathon/internal/balance"
	"github.com/teachathon/teachathon/internal/conversation"
	"github.com/teachathon/teachathon/internal/llm"
	"github.com/teachathon/teachathon/internal/logging"
	"github.com/teachathon/teachathon/internal/metrics"
)

// Options tunes the generator.
type Options struct {
	// SkipEmptyOpenEnded skips the open-ended request when zero open-ended
	// questions are asked for. By default the request is still made once.
	SkipEmptyOpenEnded bool

	// NewSampler builds the answer sampler of each batch. Nil uses a
	// randomly seeded sampler.
	NewSampler func() *balance.Sampler
}

// Result is the outcome of one question batch.
type Result struct {
	Questions QuestionSet
	// Balance is the final correct-answer letter count.
	Balance map[string]int
}

// Generator runs question and title generation. It keeps no per-request
// state: every call builds its own conversation and answer balance, so one
// Generator may serve concurrent requests.
type Generator struct {
	agent   *agent.Agent
	prompts Prompts
	opts    Options
	metrics *metrics.Collectors
}

// New creates a Generator. m may be nil.
func New(a *agent.Agent, prompts Prompts, opts Options, m *metrics.Collectors) *Generator {
	if opts.NewSampler == nil {
		opts.NewSampler = func() *balance.Sampler { return balance.NewSampler(nil) }
	}
	return &Generator{agent: a, prompts: prompts, opts: opts, metrics: m}
}

// batch is the state of one GenerateQuestions call.
type batch struct {
	conv      *conversation.Conversation
	balance   balance.Balance
	sampler   *balance.Sampler
	questions QuestionSet
}

// GenerateQuestions generates numMCQ multiple-choice questions one at a time,
// then asks once for numOpen open-ended questions. Any generation failure
// aborts the batch.
func (g *Generator) GenerateQuestions(ctx context.Context, messages []conversation.Message, numMCQ, numOpen int) (*Result, error) {
	logger := logging.FromContext(ctx)

	b := &batch{
		conv:    conversation.New(""),
		sampler: g.opts.NewSampler(),
	}
	b.conv.Append(conversation.RoleUser, transcript(messages))

	for i := range numMCQ {
		q, err := g.generateMCQ(ctx, b)
		if err != nil {
			return nil, fmt.Errorf("multiple-choice question %d of %d: %w", i+1, numMCQ, err)
		}
		b.questions = append(b.questions, q)
	}

	if numOpen > 0 || !g.opts.SkipEmptyOpenEnded {
		open, err := g.generateOpenEnded(ctx, b, numOpen)
		if err != nil {
			return nil, fmt.Errorf("open-ended questions: %w", err)
		}
		b.questions = append(b.questions, open...)
	}

	counts := b.balance.Counts()
	logger.Info().
		Int("mcq", b.questions.Count(TypeMCQ)).
		Int("open_ended", b.questions.Count(TypeOpenEnded)).
		Interface("answer_balance", counts).
		Msg("questions generated")

	return &Result{Questions: b.questions, Balance: counts}, nil
}

func (g *Generator) generateMCQ(ctx context.Context, b *batch) (Question, error) {
	letter := b.sampler.Pick(&b.balance)

	reply, err := g.agent.Generate(llm.WithPurpose(ctx, llm.PurposeMCQ), b.conv, g.prompts.MCQ.Template, g.mcqPrompt(b.questions, letter))
	if err != nil {
		return Question{}, err
	}

	qs, _, err := decodeQuestions(reply.Content)
	if err != nil {
		return Question{}, err
	}
	// A batch reply for a single question keeps its first item.
	q := qs[0]
	q.Type = TypeMCQ
	q.CorrectAnswer = letter

	b.balance.Record(letter)
	if g.metrics != nil {
		g.metrics.AnswerLetters.WithLabelValues(letter).Inc()
	}
	return q, nil
}

func (g *Generator) generateOpenEnded(ctx context.Context, b *batch, numOpen int) ([]Question, error) {
	prompt := g.prompts.OpenEnded.Prompt + fmt.Sprintf("\n\nGenerate exactly %d open-ended questions.", numOpen)

	reply, err := g.agent.Generate(llm.WithPurpose(ctx, llm.PurposeOpenEnded), b.conv, g.prompts.OpenEnded.Template, prompt)
	if err != nil {
		return nil, err
	}

	qs, isArray, err := decodeQuestions(reply.Content)
	if err != nil {
		return nil, err
	}
	// Arrays are cut to the requested count; a single object is kept as the
	// only open-ended question whatever was requested.
	if isArray && len(qs) > numOpen {
		qs = qs[:numOpen]
	}
	for i := range qs {
		qs[i].Type = TypeOpenEnded
	}
	return qs, nil
}

func (g *Generator) mcqPrompt(prior QuestionSet, letter string) string {
	var sb strings.Builder
	sb.WriteString(g.prompts.MCQ.Prompt)

	var covered []string
	for _, q := range prior {
		if q.IsMCQ() {
			covered = append(covered, "- "+q.Question)
		}
	}
	if len(covered) > 0 {
		sb.WriteString("\n\nAlready generated questions:\n")
		sb.WriteString(strings.Join(covered, "\n"))
	}

	fmt.Fprintf(&sb, "\n\nFor this next question, ensure the correct answer is option '%s'.", letter)
	return sb.String()
}

// GenerateTitle asks for a short title describing questions. Exhaustion is
// returned to the caller.
func (g *Generator) GenerateTitle(ctx context.Context, questions QuestionSet) (string, error) {
	conv := conversation.New("")
	conv.Append(conversation.RoleUser, questions.Digest())

	reply, err := g.agent.Generate(llm.WithPurpose(ctx, llm.PurposeTitle), conv, TitleTemplate, g.prompts.QuizTitle)
	if err != nil {
		return "", fmt.Errorf("quiz title: %w", err)
	}

	title, err := decodeTitle(reply.Content)
	if err != nil {
		return "", fmt.Errorf("quiz title: %w", err)
	}
	return title, nil
}

type titleReply struct {
	Title string `json:"title"`
}

// decodeTitle reads a validated title reply. The validator also accepts a
// batch, in which case the first title wins.
func decodeTitle(content string) (string, error) {
	var one titleReply
	if err := json.Unmarshal([]byte(content), &one); err == nil {
		return strings.TrimSpace(one.Title), nil
	}

	var many []titleReply
	if err := json.Unmarshal([]byte(content), &many); err != nil {
		return "", fmt.Errorf("decode title: %w", err)
	}
	if len(many) == 0 {
		return "", errors.New("decode title: empty list")
	}
	return strings.TrimSpace(many[0].Title), nil
}

// transcript joins message contents one per line, in order.
func transcript(messages []conversation.Message) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = m.Content
	}
	return strings.Join(lines, "\n")
}
