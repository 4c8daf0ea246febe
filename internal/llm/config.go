package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all LLM provider configuration. Field tags are read by
// github.com/caarlos0/env from the environment.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "openrouter", "openai", "anthropic", "gemini", "mock".
	// Empty means discover from well-known API key variables.
	Provider string `env:"PROVIDER"`

	OpenRouter OpenRouterConfig `envPrefix:"OPENROUTER_"`
	OpenAI     OpenAIConfig     `envPrefix:"OPENAI_"`
	Anthropic  AnthropicConfig  `envPrefix:"ANTHROPIC_"`
	Gemini     GeminiConfig     `envPrefix:"GEMINI_"`
	Retry      RetryConfig      `envPrefix:"RETRY_"`

	// Timeout bounds a single backend call, retries included. Zero disables
	// the bound.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`

	MaxTokens   int     `env:"MAX_TOKENS" envDefault:"2048"`
	Temperature float64 `env:"TEMPERATURE" envDefault:"0.7"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"openai/gpt-4o-mini"`
	BaseURL string `env:"BASE_URL"` // Default: "https://openrouter.ai/api/v1"

	// AppName and SiteURL are sent as the X-Title and HTTP-Referer
	// attribution headers OpenRouter shows on its dashboards.
	AppName string `env:"APP_NAME" envDefault:"MindfuLLM"`
	SiteURL string `env:"SITE_URL"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"BASE_URL"` // Optional. Override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"claude-haiku"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"gemini-flash"`
}

// RetryConfig configures retry behavior for transient transport failures.
type RetryConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	InitialWait time.Duration `env:"INITIAL_WAIT" envDefault:"1s"`
	MaxWait     time.Duration `env:"MAX_WAIT" envDefault:"10s"`
	Multiplier  float64       `env:"MULTIPLIER" envDefault:"2"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "openrouter",
		OpenRouter: OpenRouterConfig{
			Model:   "openai/gpt-4o-mini",
			AppName: "MindfuLLM",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout:     60 * time.Second,
		MaxTokens:   2048,
		Temperature: 0.7,
	}
}

// Discover fills in Provider and its API key from the standard vendor
// variables when no provider was configured explicitly. Probing order is
// OpenRouter, OpenAI, Gemini, Anthropic. It reports whether a provider is
// set afterwards.
func (c *Config) Discover() bool {
	if c.Provider != "" {
		return true
	}

	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"OPENROUTER_API_KEY", "openrouter", &c.OpenRouter.APIKey},
		{"OPENAI_API_KEY", "openai", &c.OpenAI.APIKey},
		{"GEMINI_API_KEY", "gemini", &c.Gemini.APIKey},
		{"ANTHROPIC_API_KEY", "anthropic", &c.Anthropic.APIKey},
	}
	for _, p := range probes {
		k := strings.TrimSpace(os.Getenv(p.env))
		if k == "" || k == "..." {
			continue
		}
		c.Provider = p.provider
		if *p.key == "" {
			*p.key = k
		}
		return true
	}
	return false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("LLM_OPENROUTER_API_KEY (or OPENROUTER_API_KEY) is required for the openrouter provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("LLM_OPENAI_API_KEY (or OPENAI_API_KEY) is required for the openai provider")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("LLM_ANTHROPIC_API_KEY (or ANTHROPIC_API_KEY) is required for the anthropic provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("LLM_GEMINI_API_KEY (or GEMINI_API_KEY) is required for the gemini provider")
		}
	case "mock":
		// No API key needed.
	case "":
		return fmt.Errorf("no LLM provider configured: set LLM_PROVIDER or one of OPENROUTER_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, ANTHROPIC_API_KEY")
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

// Model returns the configured model name of the selected provider.
func (c Config) Model() string {
	switch c.Provider {
	case "openrouter":
		return c.OpenRouter.Model
	case "openai":
		return resolveModel(c.OpenAI.Model, openaiModels)
	case "anthropic":
		return resolveModel(c.Anthropic.Model, anthropicModels)
	case "gemini":
		return resolveModel(c.Gemini.Model, geminiModels)
	case "mock":
		return "mock"
	}
	return ""
}
