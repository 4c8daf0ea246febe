package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenRouterProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "openai/gpt-4o-mini"})
	if err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestNewOpenRouterProvider_ModelPassThrough(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey: "sk-or-test",
		Model:  "anthropic/claude-3-haiku",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "anthropic/claude-3-haiku" {
		t.Errorf("model = %q, want %q", p.ModelID(), "anthropic/claude-3-haiku")
	}
}

func TestOpenRouterProvider_SendsAttributionHeaders(t *testing.T) {
	var gotTitle, gotReferer, gotPath, gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("X-Title")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotPath = r.URL.Path
		var body struct {
			Model string `json:"model"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "gen-1",
			"model": body.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "Photosynthesis Basics"},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15},
		})
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "google/gemini-2.0-flash-exp",
		BaseURL: server.URL + "/api/v1",
		AppName: "MindfuLLM",
		SiteURL: "https://quiz.example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "Title this quiz."}},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if resp.Content != "Photosynthesis Basics" {
		t.Errorf("content = %q", resp.Content)
	}
	if gotTitle != "MindfuLLM" {
		t.Errorf("X-Title = %q, want %q", gotTitle, "MindfuLLM")
	}
	if gotReferer != "https://quiz.example.com" {
		t.Errorf("HTTP-Referer = %q", gotReferer)
	}
	if gotPath != "/api/v1/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotModel != "google/gemini-2.0-flash-exp" {
		t.Errorf("model sent = %q", gotModel)
	}
}

func TestAttributionHeaders_EmptyWhenUnset(t *testing.T) {
	if h := attributionHeaders(OpenRouterConfig{}); len(h) != 0 {
		t.Errorf("headers = %v, want none", h)
	}
}
