package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/teachathon/teachathon/internal/ui/theme"
)

// MultiChoice is a lettered multiple-choice selector.
type MultiChoice struct {
	Question  string
	Letters   []string
	Options   map[string]string
	Correct   string
	Selected  int
	Submitted bool
	Chosen    string
}

// NewMultiChoice creates a selector over the given letters in order.
func NewMultiChoice(question string, letters []string, options map[string]string, correct string) MultiChoice {
	return MultiChoice{
		Question: question,
		Letters:  letters,
		Options:  options,
		Correct:  strings.ToUpper(correct),
	}
}

// Update handles arrow navigation, letter shortcuts and enter.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Letters)-1 {
			m.Selected++
		}
	case "enter":
		if len(m.Letters) > 0 {
			m.Submitted = true
			m.Chosen = m.Letters[m.Selected]
		}
	default:
		for i, l := range m.Letters {
			if strings.EqualFold(key, l) {
				m.Selected = i
			}
		}
	}

	return m, nil
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, letter := range m.Letters {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, letter, m.Options[letter])

		switch {
		case m.Submitted && letter == m.Correct:
			line = theme.Correct.Render(line)
		case m.Submitted && letter == m.Chosen:
			line = theme.Incorrect.Render(line)
		case m.Submitted:
			line = theme.Subtitle.Render(line)
		case i == m.Selected:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}

// IsCorrect reports whether the submitted choice is the correct letter.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.Chosen == m.Correct
}
