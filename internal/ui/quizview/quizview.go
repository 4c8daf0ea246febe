// Package quizview renders generated quizzes for the terminal.
package quizview

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/teachathon/teachathon/internal/balance"
	"github.com/teachathon/teachathon/internal/quizgen"
	"github.com/teachathon/teachathon/internal/ui/components"
	"github.com/teachathon/teachathon/internal/ui/theme"
)

const defaultWidth = 80

// Options controls rendering.
type Options struct {
	Width int
	// HideAnswers omits correct letters, explanations and sample answers.
	HideAnswers bool
}

// Render draws the title followed by one card per question.
func Render(q quizgen.Quiz, opts Options) string {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(q.Title))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d multiple-choice, %d open-ended",
		q.Questions.Count(quizgen.TypeMCQ), q.Questions.Count(quizgen.TypeOpenEnded))))
	if q.FormURL != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(q.FormURL))
	}
	b.WriteString("\n\n")

	for i, question := range q.Questions {
		b.WriteString(theme.Card.Width(width).Render(Question(i+1, question, opts.HideAnswers)))
		b.WriteString("\n")
	}
	return b.String()
}

// Question renders a single numbered question.
func Question(n int, q quizgen.Question, hideAnswers bool) string {
	var b strings.Builder
	b.WriteString(theme.Label.Render(fmt.Sprintf("%d.", n)))
	b.WriteString(" ")
	b.WriteString(theme.Body.Bold(true).Render(q.Question))
	b.WriteString("\n")

	if q.IsMCQ() {
		for _, letter := range q.OptionLetters() {
			line := fmt.Sprintf("   %s) %s", letter, q.Options[letter])
			if !hideAnswers && strings.EqualFold(letter, q.CorrectAnswer) {
				b.WriteString(theme.Correct.Render(line + "  ✓"))
			} else {
				b.WriteString(theme.Unselected.Render(line))
			}
			b.WriteString("\n")
		}
		if !hideAnswers && q.Explanation != "" {
			b.WriteString(theme.Hint.Render("   " + q.Explanation))
			b.WriteString("\n")
		}
		return strings.TrimRight(b.String(), "\n")
	}

	if !hideAnswers {
		answer := q.Answer
		if answer == "" {
			answer = "No sample answer provided."
		}
		b.WriteString(theme.Hint.Render("   Sample answer: " + answer))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Balance draws one bar per answer letter showing its share of the batch.
func Balance(counts map[string]int, width int) string {
	if width <= 0 {
		width = defaultWidth / 2
	}
	total := 0
	for _, n := range counts {
		total += n
	}

	lines := make([]string, 0, len(balance.Letters))
	for _, letter := range balance.Letters {
		share := 0.0
		if total > 0 {
			share = float64(counts[letter]) / float64(total)
		}
		label := fmt.Sprintf("%s %2d", letter, counts[letter])
		lines = append(lines, components.NewProgressBar(label, share, true, width).View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
