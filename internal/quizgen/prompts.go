package quizgen

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teachathon/teachathon/internal/shape"
)

//go:embed prompts/default.yaml
var defaultPrompts []byte

// TitleTemplate is the reply shape of the title request.
var TitleTemplate = shape.MustParseTemplate(`{"title": "..."}`)

// PromptSpec pairs a system prompt with the reply template it asks for.
type PromptSpec struct {
	Prompt   string
	Template shape.Template
}

// Prompts is the prompt bundle used by the generator.
type Prompts struct {
	MCQ       PromptSpec
	OpenEnded PromptSpec
	QuizTitle string
}

// promptFile is the on-disk layout. Templates may be given inline as a
// mapping or as a string holding JSON.
type promptFile struct {
	MCQ       promptFileSpec `yaml:"mcq" json:"mcq"`
	OpenEnded promptFileSpec `yaml:"open_ended" json:"open_ended"`
	QuizTitle string         `yaml:"quiz_title" json:"quiz_title"`
}

type promptFileSpec struct {
	Prompt   string `yaml:"prompt" json:"prompt"`
	Template any    `yaml:"template" json:"template"`
}

// DefaultPrompts returns the embedded prompt bundle.
func DefaultPrompts() Prompts {
	p, err := ParsePrompts(defaultPrompts, "default.yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded prompts: %v", err))
	}
	return p
}

// LoadPrompts reads a prompt bundle from a YAML or JSON file. An empty path
// returns the embedded bundle.
func LoadPrompts(path string) (Prompts, error) {
	if path == "" {
		return DefaultPrompts(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Prompts{}, fmt.Errorf("read prompts: %w", err)
	}
	return ParsePrompts(raw, path)
}

// ParsePrompts decodes a prompt bundle. name selects the format by
// extension: .json is decoded as JSON, anything else as YAML.
func ParsePrompts(raw []byte, name string) (Prompts, error) {
	var f promptFile
	var err error
	if strings.EqualFold(filepath.Ext(name), ".json") {
		err = json.Unmarshal(raw, &f)
	} else {
		err = yaml.Unmarshal(raw, &f)
	}
	if err != nil {
		return Prompts{}, fmt.Errorf("parse prompts %s: %w", name, err)
	}

	mcq, err := f.MCQ.spec("mcq")
	if err != nil {
		return Prompts{}, err
	}
	open, err := f.OpenEnded.spec("open_ended")
	if err != nil {
		return Prompts{}, err
	}

	p := Prompts{MCQ: mcq, OpenEnded: open, QuizTitle: f.QuizTitle}
	if err := p.Validate(); err != nil {
		return Prompts{}, err
	}
	return p, nil
}

// Validate checks that every prompt is present.
func (p Prompts) Validate() error {
	switch {
	case strings.TrimSpace(p.MCQ.Prompt) == "":
		return fmt.Errorf("prompts: mcq.prompt is empty")
	case strings.TrimSpace(p.OpenEnded.Prompt) == "":
		return fmt.Errorf("prompts: open_ended.prompt is empty")
	case strings.TrimSpace(p.QuizTitle) == "":
		return fmt.Errorf("prompts: quiz_title is empty")
	case len(p.MCQ.Template.Keys()) == 0:
		return fmt.Errorf("prompts: mcq.template is empty")
	case len(p.OpenEnded.Template.Keys()) == 0:
		return fmt.Errorf("prompts: open_ended.template is empty")
	}
	return nil
}

func (s promptFileSpec) spec(section string) (PromptSpec, error) {
	if s.Template == nil {
		return PromptSpec{}, fmt.Errorf("prompts: %s.template is missing", section)
	}

	// YAML decodes integers as int; a JSON round trip normalizes every
	// scalar to the kinds the validator compares.
	var raw []byte
	if str, ok := s.Template.(string); ok {
		raw = []byte(str)
	} else {
		var err error
		if raw, err = json.Marshal(s.Template); err != nil {
			return PromptSpec{}, fmt.Errorf("prompts: %s.template: %w", section, err)
		}
	}

	tmpl, err := shape.ParseTemplate(raw)
	if err != nil {
		return PromptSpec{}, fmt.Errorf("prompts: %s.template: %w", section, err)
	}
	return PromptSpec{Prompt: s.Prompt, Template: tmpl}, nil
}
