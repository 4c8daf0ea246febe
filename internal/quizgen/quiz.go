package quizgen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Quiz is a titled question set as saved by the CLI.
type Quiz struct {
	Title     string      `json:"title"`
	FormURL   string      `json:"form_url,omitempty"`
	Questions QuestionSet `json:"questions"`
}

// Save writes q as indented JSON, creating the parent directory.
func (q Quiz) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create quiz directory: %w", err)
		}
	}
	b, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return fmt.Errorf("encode quiz: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write quiz: %w", err)
	}
	return nil
}

// LoadQuiz reads a quiz written by Save.
func LoadQuiz(path string) (Quiz, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Quiz{}, fmt.Errorf("read quiz: %w", err)
	}
	var q Quiz
	if err := json.Unmarshal(b, &q); err != nil {
		return Quiz{}, fmt.Errorf("decode quiz %s: %w", path, err)
	}
	if len(q.Questions) == 0 {
		return Quiz{}, fmt.Errorf("quiz %s has no questions", path)
	}
	return q, nil
}
