package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/teachathon/teachathon/internal/conversation"
)

// readTranscript loads messages from path, or stdin when path is "-".
func readTranscript(path string, stdin io.Reader) ([]conversation.Message, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return parseTranscript(raw)
}

// parseTranscript accepts a JSON array of messages, a JSON object with a
// "messages" array, or plain text taken as a single user message.
func parseTranscript(raw []byte) ([]conversation.Message, error) {
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, errors.New("transcript is empty")
	}

	var msgs []conversation.Message
	switch text[0] {
	case '[':
		if err := json.Unmarshal([]byte(text), &msgs); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
	case '{':
		var body struct {
			Messages []conversation.Message `json:"messages"`
		}
		if err := json.Unmarshal([]byte(text), &body); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
		msgs = body.Messages
	default:
		return []conversation.Message{{Role: conversation.RoleUser, Content: text}}, nil
	}

	if len(msgs) == 0 {
		return nil, errors.New("transcript has no messages")
	}
	for i, m := range msgs {
		if !m.Role.Valid() {
			return nil, fmt.Errorf("message %d: unknown role %q", i, m.Role)
		}
	}
	return msgs, nil
}
