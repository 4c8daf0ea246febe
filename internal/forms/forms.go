// Package forms publishes a question set as a graded Google Forms quiz.
package forms

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	formsapi "google.golang.org/api/forms/v1"
	"google.golang.org/api/option"

	"github.com/teachathon/teachathon/internal/quizgen"
)

// Publisher creates quizzes through the Forms API.
type Publisher struct {
	svc    *formsapi.Service
	logger zerolog.Logger
}

// New creates a Publisher. opts usually come from googleauth.ClientOptions.
func New(ctx context.Context, logger zerolog.Logger, opts ...option.ClientOption) (*Publisher, error) {
	svc, err := formsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create forms client: %w", err)
	}
	return &Publisher{svc: svc, logger: logger.With().Str("component", "forms").Logger()}, nil
}

// Publish creates a quiz form titled title with one item per question, in
// order, and returns the responder URL.
func (p *Publisher) Publish(ctx context.Context, questions quizgen.QuestionSet, title string) (string, error) {
	form, err := p.svc.Forms.Create(&formsapi.Form{
		Info: &formsapi.Info{Title: title, DocumentTitle: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create form: %w", err)
	}

	_, err = p.svc.Forms.BatchUpdate(form.FormId, &formsapi.BatchUpdateFormRequest{
		Requests: BuildRequests(questions),
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("populate form %s: %w", form.FormId, err)
	}

	p.logger.Info().
		Str("form_id", form.FormId).
		Int("items", len(questions)).
		Msg("form published")
	return form.ResponderUri, nil
}

// BuildRequests lays out a quiz: quiz mode, a description with the question
// count, then one item per question at its index.
func BuildRequests(questions quizgen.QuestionSet) []*formsapi.Request {
	reqs := []*formsapi.Request{
		{UpdateSettings: &formsapi.UpdateSettingsRequest{
			Settings:   &formsapi.FormSettings{QuizSettings: &formsapi.QuizSettings{IsQuiz: true}},
			UpdateMask: "quizSettings.isQuiz",
		}},
		{UpdateFormInfo: &formsapi.UpdateFormInfoRequest{
			Info:       &formsapi.Info{Description: fmt.Sprintf("This quiz contains %d question(s).", len(questions))},
			UpdateMask: "description",
		}},
	}

	index := int64(0)
	for _, q := range questions {
		var item *formsapi.Item
		switch q.Type {
		case quizgen.TypeMCQ:
			item = mcqItem(q)
		case quizgen.TypeOpenEnded:
			item = openEndedItem(q)
		default:
			continue
		}
		reqs = append(reqs, &formsapi.Request{CreateItem: &formsapi.CreateItemRequest{
			Item:     item,
			Location: &formsapi.Location{Index: index, ForceSendFields: []string{"Index"}},
		}})
		index++
	}
	return reqs
}

// OptionValue is the displayed text of one choice.
func OptionValue(letter, text string) string {
	return letter + ". " + text
}

func mcqItem(q quizgen.Question) *formsapi.Item {
	var options []*formsapi.Option
	var correct string
	for _, letter := range q.OptionLetters() {
		value := OptionValue(letter, q.Options[letter])
		options = append(options, &formsapi.Option{Value: value})
		if letter == q.CorrectAnswer {
			correct = value
		}
	}

	whenRight := q.Explanation
	if whenRight == "" {
		whenRight = "Correct!"
	}

	grading := &formsapi.Grading{
		PointValue: 1,
		WhenRight:  &formsapi.Feedback{Text: whenRight},
	}
	if correct != "" {
		grading.CorrectAnswers = &formsapi.CorrectAnswers{Answers: []*formsapi.CorrectAnswer{{Value: correct}}}
	}
	if q.Explanation != "" {
		grading.WhenWrong = &formsapi.Feedback{Text: q.Explanation}
	}

	return &formsapi.Item{
		Title: q.Question,
		QuestionItem: &formsapi.QuestionItem{Question: &formsapi.Question{
			Required: true,
			Grading:  grading,
			ChoiceQuestion: &formsapi.ChoiceQuestion{
				Type:    "RADIO",
				Options: options,
			},
		}},
	}
}

func openEndedItem(q quizgen.Question) *formsapi.Item {
	answer := q.Answer
	if answer == "" {
		answer = "No sample answer provided."
	}
	return &formsapi.Item{
		Title: q.Question,
		QuestionItem: &formsapi.QuestionItem{Question: &formsapi.Question{
			Required: true,
			Grading: &formsapi.Grading{
				PointValue:      0,
				GeneralFeedback: &formsapi.Feedback{Text: "Sample Answer:\n\n" + answer},
				ForceSendFields: []string{"PointValue"},
			},
			TextQuestion: &formsapi.TextQuestion{Paragraph: true},
		}},
	}
}
