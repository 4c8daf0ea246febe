// Package mail sends the quiz notification through the Gmail API.
package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Config controls the sender identity.
type Config struct {
	// SenderName is the display name of the From header.
	SenderName string `env:"SENDER_NAME" envDefault:"MindfuLLM"`
	// SenderID is the Gmail user the message is sent as; "me" is the
	// authenticated user.
	SenderID string `env:"SENDER_ID" envDefault:"me"`
	// Disabled turns sending off entirely.
	Disabled bool `env:"DISABLED" envDefault:"false"`
}

// Sender delivers plain-text mail.
type Sender struct {
	svc    *gmail.Service
	config Config
	logger zerolog.Logger
}

// New creates a Sender. opts usually come from googleauth.ClientOptions.
func New(ctx context.Context, cfg Config, logger zerolog.Logger, opts ...option.ClientOption) (*Sender, error) {
	if cfg.SenderID == "" {
		cfg.SenderID = "me"
	}
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gmail client: %w", err)
	}
	return &Sender{svc: svc, config: cfg, logger: logger.With().Str("component", "mail").Logger()}, nil
}

// Send delivers a plain-text message and returns its Gmail id.
func (s *Sender) Send(ctx context.Context, recipient, subject, body string) (string, error) {
	raw := BuildMessage(recipient, subject, body, s.config.SenderName)

	msg, err := s.svc.Users.Messages.Send(s.config.SenderID, &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("send mail via Gmail API: %w", err)
	}

	s.logger.Info().Str("message_id", msg.Id).Str("recipient", recipient).Msg("mail sent")
	return msg.Id, nil
}

// Subject returns the notification subject for a quiz title.
func Subject(title string) string {
	return "MindfuLLM - " + title
}

// Body returns the notification text linking to the quiz.
func Body(formURL string) string {
	return "Hello!\n\n" +
		"Your MindfuLLM quiz is ready:\n" +
		formURL + "\n\n" +
		"Recall and testing has been empirically shown to improve learning outcomes significantly. Enjoy your increased mastery!\n\n" +
		"You can share this link with others, or open it to make further edits and tweaks.\n\n" +
		"If you want to learn more about MindfuLLM, visit https://github.com/teachathon/teachathon.\n\n" +
		"Best,\n" +
		"MindfuLLM Team"
}

// BuildMessage renders an RFC 5322 plain-text message. Header values are
// Q-encoded when they are not plain ASCII.
func BuildMessage(recipient, subject, body, senderName string) []byte {
	var b strings.Builder
	if senderName != "" {
		fmt.Fprintf(&b, "From: %s\r\n", mime.QEncoding.Encode("utf-8", senderName))
	}
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString("\r\n")

	encoded := base64.StdEncoding.EncodeToString([]byte(body))
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	b.WriteString("\r\n")
	return []byte(b.String())
}
