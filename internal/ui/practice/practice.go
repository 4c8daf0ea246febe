// Package practice runs a saved quiz interactively in the terminal.
package practice

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/teachathon/teachathon/internal/quizgen"
	"github.com/teachathon/teachathon/internal/ui/components"
	"github.com/teachathon/teachathon/internal/ui/layout"
	"github.com/teachathon/teachathon/internal/ui/quizview"
	"github.com/teachathon/teachathon/internal/ui/theme"
)

type phase int

const (
	phaseAnswering phase = iota
	phaseFeedback
	phaseDone
)

// Model walks through a quiz one question at a time. Multiple-choice
// answers are scored; open-ended answers are compared against the sample
// answer by the learner.
type Model struct {
	quiz  quizgen.Quiz
	index int
	phase phase

	choice components.MultiChoice
	input  components.TextInput

	correct  int
	answered int
	width    int
	height   int
}

// New creates a practice model positioned on the first question.
func New(q quizgen.Quiz) Model {
	m := Model{quiz: q}
	m.load()
	return m
}

func (m *Model) load() {
	if m.index >= len(m.quiz.Questions) {
		m.phase = phaseDone
		return
	}
	q := m.quiz.Questions[m.index]
	m.phase = phaseAnswering
	if q.IsMCQ() {
		m.choice = components.NewMultiChoice(q.Question, q.OptionLetters(), q.Options, q.CorrectAnswer)
		return
	}
	m.input = components.NewTextInput("Type your answer", 2000)
}

func (m Model) current() quizgen.Question {
	return m.quiz.Questions[m.index]
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}

		switch m.phase {
		case phaseDone:
			if msg.String() == "enter" || msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		case phaseFeedback:
			if msg.String() == "enter" {
				m.index++
				m.load()
			}
			return m, nil
		}
	}

	if m.phase != phaseAnswering {
		return m, nil
	}
	return m.answer(msg)
}

func (m Model) answer(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.current().IsMCQ() {
		var cmd tea.Cmd
		m.choice, cmd = m.choice.Update(msg)
		if m.choice.Submitted {
			m.answered++
			if m.choice.IsCorrect() {
				m.correct++
			}
			m.phase = phaseFeedback
		}
		return m, cmd
	}

	if k, ok := msg.(tea.KeyPressMsg); ok && k.String() == "enter" {
		m.input.Submit()
		m.phase = phaseFeedback
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Score returns the correct and answered multiple-choice counts.
func (m Model) Score() (correct, answered int) {
	return m.correct, m.answered
}

// Done reports whether every question has been shown.
func (m Model) Done() bool {
	return m.phase == phaseDone
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(m.quiz.Title, m.status(), m.width)
	footer := layout.RenderFooter(m.hints(), m.width)
	v.SetContent(layout.RenderFrame(header, m.Content(m.width-4), footer, m.width, m.height))
	return v
}

// Content renders the body of the current screen.
func (m Model) Content(width int) string {
	if m.phase == phaseDone {
		return m.summary(width)
	}

	total := len(m.quiz.Questions)
	progress := components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", m.index+1, total),
		float64(m.index)/float64(total), false, width,
	).View()

	q := m.current()
	var body string
	switch {
	case q.IsMCQ():
		body = m.choice.View()
		if m.phase == phaseFeedback {
			body += "\n" + m.mcqFeedback(q)
		}
	case m.phase == phaseFeedback:
		body = theme.Body.Bold(true).Render(q.Question) + "\n\n" +
			theme.Subtitle.Render("Your answer: ") + theme.Body.Render(orDash(m.input.Value())) + "\n\n" +
			quizview.Question(m.index+1, quizgen.Question{Type: q.Type, Question: "Sample answer", Answer: q.Answer}, false)
	default:
		body = theme.Body.Bold(true).Render(q.Question) + "\n\n" + m.input.View()
	}
	return progress + "\n\n" + body
}

func (m Model) mcqFeedback(q quizgen.Question) string {
	if m.choice.IsCorrect() {
		msg := theme.Correct.Render("Correct!")
		if q.Explanation != "" {
			msg += "\n" + theme.Hint.Render(q.Explanation)
		}
		return msg
	}
	msg := theme.Incorrect.Render(fmt.Sprintf("Not quite. The answer is %s.", strings.ToUpper(q.CorrectAnswer)))
	if q.Explanation != "" {
		msg += "\n" + theme.Hint.Render(q.Explanation)
	}
	return msg
}

func (m Model) summary(width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz complete"))
	b.WriteString("\n\n")
	if m.answered > 0 {
		b.WriteString(components.NewProgressBar(
			fmt.Sprintf("%d of %d multiple-choice correct", m.correct, m.answered),
			float64(m.correct)/float64(m.answered), true, width,
		).View())
	} else {
		b.WriteString(theme.Subtitle.Render("No multiple-choice questions to score."))
	}
	return b.String()
}

func (m Model) status() string {
	return fmt.Sprintf("✓ %d/%d", m.correct, m.answered)
}

func (m Model) hints() []layout.KeyHint {
	switch {
	case m.phase == phaseDone:
		return []layout.KeyHint{{Key: "Enter", Description: "Quit"}}
	case m.phase == phaseFeedback:
		return []layout.KeyHint{{Key: "Enter", Description: "Next"}, {Key: "Esc", Description: "Quit"}}
	case m.current().IsMCQ():
		return []layout.KeyHint{{Key: "↑↓/A-D", Description: "Choose"}, {Key: "Enter", Description: "Submit"}, {Key: "Esc", Description: "Quit"}}
	}
	return []layout.KeyHint{{Key: "Enter", Description: "Submit"}, {Key: "Esc", Description: "Quit"}}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Run starts the interactive session and returns the final score.
func Run(q quizgen.Quiz) (correct, answered int, err error) {
	final, err := tea.NewProgram(New(q)).Run()
	if err != nil {
		return 0, 0, fmt.Errorf("run practice: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return 0, 0, nil
	}
	c, a := fm.Score()
	return c, a, nil
}
