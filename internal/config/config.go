// Package config loads runtime configuration from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/teachathon/teachathon/internal/googleauth"
	"github.com/teachathon/teachathon/internal/llm"
	"github.com/teachathon/teachathon/internal/mail"
)

// DefaultEnvFile is loaded when present and no other file is named.
const DefaultEnvFile = ".env"

// App holds the runtime configuration of the service and the CLI.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"mindfullm"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"127.0.0.1:8000"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	LLM        llm.Config        `envPrefix:"LLM_"`
	Generation Generation
	Google     googleauth.Config `envPrefix:"GOOGLE_"`
	Mail       mail.Config       `envPrefix:"MAIL_"`
	CORS       CORS
}

// Generation tunes the question generator.
type Generation struct {
	Attempts           int    `env:"GENERATION_ATTEMPTS" envDefault:"5"`
	PromptsFile        string `env:"PROMPTS_FILE"`
	SkipEmptyOpenEnded bool   `env:"SKIP_EMPTY_OPEN_ENDED" envDefault:"false"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods []string      `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders []string      `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization,X-Request-ID"`
	MaxAge         time.Duration `env:"CORS_MAX_AGE" envDefault:"1h"`
}

// IsProduction reports whether the app runs in production.
func (a *App) IsProduction() bool {
	return a.Env == "production"
}

// LoadEnvFile loads variables from path without overriding ones already
// set. A missing DefaultEnvFile is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) && path == DefaultEnvFile {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load parses environment variables into App config and fills in the LLM
// provider from vendor API key variables when none is set.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.LLM.Discover()
	if cfg.Generation.Attempts < 1 {
		return nil, fmt.Errorf("GENERATION_ATTEMPTS must be at least 1, got %d", cfg.Generation.Attempts)
	}
	return cfg, nil
}
