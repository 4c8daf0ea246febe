// Package googleauth builds authenticated client options for the Google
// Forms and Gmail APIs.
//
// Two credential kinds are supported. A service-account key file is used
// directly. An OAuth client secrets file ("installed" or "web" app) needs a
// user token, obtained once with Authorize and stored in a token file.
package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/forms/v1"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Scopes requested for publishing forms and sending mail.
var Scopes = []string{forms.FormsBodyScope, gmail.GmailSendScope}

// ErrNoToken is returned when OAuth client credentials are configured but no
// user token has been stored yet.
var ErrNoToken = errors.New("no Google user token: run `mindfullm auth` first")

// Config locates the credential files.
type Config struct {
	CredentialsFile string `env:"CREDENTIALS_FILE" envDefault:"credentials.json"`
	TokenFile       string `env:"TOKEN_FILE" envDefault:"token.json"`
}

// ClientOptions returns the options that authenticate API clients for
// scopes.
func ClientOptions(ctx context.Context, cfg Config, scopes ...string) ([]option.ClientOption, error) {
	raw, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read Google credentials: %w", err)
	}

	if isServiceAccount(raw) {
		return []option.ClientOption{
			option.WithCredentialsJSON(raw),
			option.WithScopes(scopes...),
		}, nil
	}

	oauthCfg, err := google.ConfigFromJSON(raw, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse Google client secrets: %w", err)
	}

	tok, err := ReadToken(cfg.TokenFile)
	if err != nil {
		return nil, err
	}

	src := &savingTokenSource{
		base: oauthCfg.TokenSource(ctx, tok),
		path: cfg.TokenFile,
		last: tok.AccessToken,
	}
	return []option.ClientOption{option.WithTokenSource(oauth2.ReuseTokenSource(tok, src))}, nil
}

// OAuthConfig loads client secrets for the consent flow.
func OAuthConfig(credentialsFile string, scopes ...string) (*oauth2.Config, error) {
	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read Google credentials: %w", err)
	}
	if isServiceAccount(raw) {
		return nil, errors.New("service-account credentials need no consent flow")
	}
	cfg, err := google.ConfigFromJSON(raw, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse Google client secrets: %w", err)
	}
	return cfg, nil
}

// ReadToken loads a stored user token.
func ReadToken(path string) (*oauth2.Token, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("parse token %s: %w", path, err)
	}
	return &tok, nil
}

// SaveToken writes tok to path with owner-only permissions.
func SaveToken(path string, tok *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create token dir: %w", err)
		}
	}
	raw, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func isServiceAccount(raw []byte) bool {
	var probe struct {
		Type string `json:"type"`
	}
	return json.Unmarshal(raw, &probe) == nil && probe.Type == "service_account"
}

// savingTokenSource persists refreshed tokens so the next start does not
// need to refresh again.
type savingTokenSource struct {
	base oauth2.TokenSource
	path string
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		// A failed write only costs an extra refresh on the next start.
		_ = SaveToken(s.path, tok)
	}
	return tok, nil
}
