package shape

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mcqTemplate = `{
	"question": "...",
	"options": {"A": "...", "B": "...", "C": "...", "D": "..."},
	"explanation": "..."
}`

func TestValidate_Conforming(t *testing.T) {
	tmpl := MustParseTemplate(mcqTemplate)

	tests := []struct {
		name string
		raw  string
	}{
		{"object", `{"question":"Q1","options":{"A":"x","B":"y","C":"z","D":"w"},"explanation":"e"}`},
		{"key order differs", `{"explanation":"e","options":{"D":"w","C":"z","B":"y","A":"x"},"question":"Q1"}`},
		{"array of objects", `[{"question":"Q1","options":{"A":"x","B":"y","C":"z","D":"w"},"explanation":"e"},
			{"question":"Q2","options":{"A":"1","B":"2","C":"3","D":"4"},"explanation":""}]`},
		{"surrounding whitespace", "\n  {\"question\":\"Q\",\"options\":{\"A\":\"x\",\"B\":\"y\",\"C\":\"z\",\"D\":\"w\"},\"explanation\":\"e\"}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Validate(tt.raw, tmpl))
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tmpl := MustParseTemplate(mcqTemplate)

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ``},
		{"malformed", `{"question": "Q1",`},
		{"prose around json", `Here you go: {"question":"Q1","options":{"A":"x","B":"y","C":"z","D":"w"},"explanation":"e"}`},
		{"code fence", "```json\n{\"question\":\"Q1\"}\n```"},
		{"missing key", `{"question":"Q1","options":{"A":"x","B":"y","C":"z","D":"w"}}`},
		{"extra key", `{"question":"Q1","options":{"A":"x","B":"y","C":"z","D":"w"},"explanation":"e","correct_answer":"A"}`},
		{"wrong type", `{"question":1,"options":{"A":"x","B":"y","C":"z","D":"w"},"explanation":"e"}`},
		{"nested missing key", `{"question":"Q1","options":{"A":"x","B":"y","C":"z"},"explanation":"e"}`},
		{"nested extra key", `{"question":"Q1","options":{"A":"x","B":"y","C":"z","D":"w","E":"v"},"explanation":"e"}`},
		{"nested wrong type", `{"question":"Q1","options":{"A":"x","B":"y","C":"z","D":4},"explanation":"e"}`},
		{"nested not object", `{"question":"Q1","options":["x","y","z","w"],"explanation":"e"}`},
		{"null value", `{"question":null,"options":{"A":"x","B":"y","C":"z","D":"w"},"explanation":"e"}`},
		{"empty array", `[]`},
		{"array with bad element", `[{"question":"Q1","options":{"A":"x","B":"y","C":"z","D":"w"},"explanation":"e"},{"question":"Q2"}]`},
		{"array of scalars", `["a","b"]`},
		{"top-level string", `"hello"`},
		{"top-level number", `42`},
		{"top-level null", `null`},
		{"trailing garbage", `{"question":"Q1","options":{"A":"x","B":"y","C":"z","D":"w"},"explanation":"e"} trailing`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Validate(tt.raw, tmpl))
		})
	}
}

func TestValidate_KindsAreDistinguished(t *testing.T) {
	tmpl := MustParseTemplate(`{"n": 0, "s": "", "b": false, "l": [], "o": {}}`)

	assert.True(t, Validate(`{"n": 3.5, "s": "x", "b": true, "l": [1, "two"], "o": {}}`, tmpl))

	for _, raw := range []string{
		`{"n": "3", "s": "x", "b": true, "l": [], "o": {}}`,
		`{"n": 3, "s": 1, "b": true, "l": [], "o": {}}`,
		`{"n": 3, "s": "x", "b": "true", "l": [], "o": {}}`,
		`{"n": 3, "s": "x", "b": true, "l": {}, "o": {}}`,
		`{"n": 3, "s": "x", "b": true, "l": [], "o": []}`,
		`{"n": 3, "s": "x", "b": true, "l": [], "o": {"k": 1}}`,
	} {
		assert.False(t, Validate(raw, tmpl), raw)
	}
}

func TestValidate_PlaceholderContentIgnored(t *testing.T) {
	tmpl := MustParseTemplate(`{"type": "open_ended", "question": "...", "answer": "..."}`)
	assert.True(t, Validate(`{"type":"anything","question":"Q3","answer":"A3"}`, tmpl))
}

func TestValidate_ZeroTemplateRejects(t *testing.T) {
	assert.False(t, Validate(`{}`, Template{}))
}

// Round-trip property: any value built from the template's own shape must
// validate, and removing or adding a key must not.
func TestValidate_ConformingValuesFromTemplate(t *testing.T) {
	templates := []string{
		mcqTemplate,
		`{"title": "..."}`,
		`{"a": {"b": {"c": 1, "d": [true]}}, "e": false}`,
	}

	for _, raw := range templates {
		tmpl := MustParseTemplate(raw)
		value := fill(tmpl.Value())

		encoded, err := json.Marshal(value)
		require.NoError(t, err)
		assert.True(t, Validate(string(encoded), tmpl), "conforming %s", encoded)

		batch, err := json.Marshal([]any{value, value})
		require.NoError(t, err)
		assert.True(t, Validate(string(batch), tmpl), "batch %s", batch)

		for _, key := range tmpl.Keys() {
			missing := clone(value)
			delete(missing, key)
			encoded, _ := json.Marshal(missing)
			assert.False(t, Validate(string(encoded), tmpl), "missing %q", key)
		}

		extra := clone(value)
		extra["unexpected"] = "x"
		encoded, _ = json.Marshal(extra)
		assert.False(t, Validate(string(encoded), tmpl), "extra key")
	}
}

func TestNewTemplate(t *testing.T) {
	_, err := ParseTemplate([]byte(`"scalar"`))
	assert.Error(t, err)

	_, err = ParseTemplate([]byte(`[1, 2]`))
	assert.Error(t, err)

	tmpl, err := ParseTemplate([]byte(`[{"title": "..."}]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, tmpl.Keys())
}

func fill(tmpl map[string]any) map[string]any {
	out := make(map[string]any, len(tmpl))
	for k, v := range tmpl {
		switch tv := v.(type) {
		case map[string]any:
			out[k] = fill(tv)
		case string:
			out[k] = "generated " + k
		case float64:
			out[k] = 7.0
		case bool:
			out[k] = true
		case []any:
			out[k] = []any{"x"}
		default:
			out[k] = v
		}
	}
	return out
}

func clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
