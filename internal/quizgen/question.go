package quizgen

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// QuestionType tags a generated question.
type QuestionType string

const (
	TypeMCQ       QuestionType = "mcq"
	TypeOpenEnded QuestionType = "open_ended"
)

// Question is one generated quiz item. Multiple-choice questions use
// Options, CorrectAnswer and Explanation; open-ended questions use Answer.
type Question struct {
	Type          QuestionType      `json:"type"`
	Question      string            `json:"question"`
	Options       map[string]string `json:"options,omitempty"`
	CorrectAnswer string            `json:"correct_answer,omitempty"`
	Explanation   string            `json:"explanation,omitempty"`
	Answer        string            `json:"answer,omitempty"`
}

// IsMCQ reports whether q is a multiple-choice question.
func (q Question) IsMCQ() bool {
	return q.Type == TypeMCQ
}

// OptionLetters returns the option keys in letter order.
func (q Question) OptionLetters() []string {
	letters := make([]string, 0, len(q.Options))
	for l := range q.Options {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters
}

// String renders q as a single JSON line.
func (q Question) String() string {
	b, err := json.Marshal(q)
	if err != nil {
		return q.Question
	}
	return string(b)
}

// QuestionSet is an ordered list of questions. Multiple-choice questions
// precede open-ended ones.
type QuestionSet []Question

// Count returns the number of questions of type t.
func (s QuestionSet) Count(t QuestionType) int {
	n := 0
	for _, q := range s {
		if q.Type == t {
			n++
		}
	}
	return n
}

// Digest renders the set one JSON question per line.
func (s QuestionSet) Digest() string {
	lines := make([]string, len(s))
	for i, q := range s {
		lines[i] = q.String()
	}
	return strings.Join(lines, "\n")
}

// decodeQuestions parses a validated reply. A single object yields one
// question and isArray false.
func decodeQuestions(content string) (qs []Question, isArray bool, err error) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &qs); err != nil {
			return nil, true, fmt.Errorf("decode question list: %w", err)
		}
		return qs, true, nil
	}

	var q Question
	if err := json.Unmarshal([]byte(trimmed), &q); err != nil {
		return nil, false, fmt.Errorf("decode question: %w", err)
	}
	return []Question{q}, false, nil
}
