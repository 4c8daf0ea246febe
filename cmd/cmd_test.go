package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachathon/teachathon/internal/conversation"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseTranscript(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []conversation.Message
		wantErr string
	}{
		{
			name: "array",
			raw:  `[{"conv_id":1,"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]`,
			want: []conversation.Message{
				{Role: conversation.RoleUser, Content: "hi"},
				{Role: conversation.RoleAssistant, Content: "hello"},
			},
		},
		{
			name: "request body",
			raw:  `{"user_email":"a@example.com","messages":[{"role":"user","content":"hi"}]}`,
			want: []conversation.Message{{Role: conversation.RoleUser, Content: "hi"}},
		},
		{
			name: "plain text",
			raw:  "  photosynthesis turns light into sugar\n",
			want: []conversation.Message{{Role: conversation.RoleUser, Content: "photosynthesis turns light into sugar"}},
		},
		{name: "empty", raw: "  \n", wantErr: "empty"},
		{name: "empty array", raw: "[]", wantErr: "no messages"},
		{name: "bad role", raw: `[{"role":"bot","content":"x"}]`, wantErr: "unknown role"},
		{name: "broken json", raw: `[{"role":`, wantErr: "decode transcript"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTranscript([]byte(tt.raw))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadTranscript_Stdin(t *testing.T) {
	got, err := readTranscript("-", strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got[0].Content)
}

func TestReadTranscript_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"role":"user","content":"x"}]`), 0o644))

	got, err := readTranscript(path, nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "mindfullm (devel)\n", out)
}

func TestLLMModelsCommand(t *testing.T) {
	out, err := execute(t, "llm", "models")
	require.NoError(t, err)
	assert.Contains(t, out, "Provider")
	assert.Contains(t, out, "openai")
	assert.Contains(t, out, "gemini")
}

func TestLLMCheckCommand(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "mock")

	out, err := execute(t, "llm", "check", "--env-file", filepath.Join(t.TempDir(), "none.env"))
	require.Error(t, err, "a missing explicit env file is an error")

	out, err = execute(t, "llm", "check", "--env-file", ".env")
	require.NoError(t, err)
	assert.Contains(t, out, "provider: mock")
	assert.Contains(t, out, "model:    mock")
}

func TestGenerateCommand_RejectsZeroQuestions(t *testing.T) {
	_, err := execute(t, "generate", "--mcq", "0", "--open", "0", "-")
	assert.ErrorContains(t, err, "at least one question")
}
