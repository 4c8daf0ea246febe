// Package shape checks untrusted JSON text against a structural template.
//
// A template is an ordinary JSON value. Objects describe the required key set
// and, per key, the kind of value expected; the placeholder values themselves
// only carry type information. Nested objects are checked recursively. The
// top-level reply may be a single object or a non-empty array of objects,
// each matching the same template.
package shape

import (
	"encoding/json"
	"fmt"
)

// Kind is the JSON type of a value.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "invalid"
}

// KindOf returns the JSON kind of a value decoded by encoding/json (with or
// without UseNumber).
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case float64, json.Number:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	}
	return KindInvalid
}

// Template describes the shape of one generated item. Templates are
// immutable after construction.
type Template struct {
	root map[string]any
}

// NewTemplate builds a Template from a decoded JSON object. Array templates
// are accepted when they hold exactly one object, which then describes each
// item.
func NewTemplate(v any) (Template, error) {
	switch t := v.(type) {
	case map[string]any:
		return Template{root: t}, nil
	case []any:
		if len(t) == 1 {
			if obj, ok := t[0].(map[string]any); ok {
				return Template{root: obj}, nil
			}
		}
		return Template{}, fmt.Errorf("array template must hold exactly one object")
	}
	return Template{}, fmt.Errorf("template must be an object, got %s", KindOf(v))
}

// ParseTemplate decodes a JSON template.
func ParseTemplate(raw []byte) (Template, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Template{}, fmt.Errorf("parse template: %w", err)
	}
	return NewTemplate(v)
}

// MustParseTemplate is ParseTemplate for package-level templates.
func MustParseTemplate(raw string) Template {
	t, err := ParseTemplate([]byte(raw))
	if err != nil {
		panic(err)
	}
	return t
}

// Keys returns the template's top-level keys.
func (t Template) Keys() []string {
	keys := make([]string, 0, len(t.root))
	for k := range t.root {
		keys = append(keys, k)
	}
	return keys
}

// Value returns the template as a decoded JSON object.
func (t Template) Value() map[string]any {
	return t.root
}

// MarshalJSON renders the template back to JSON.
func (t Template) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.root)
}

// UnmarshalJSON lets templates be embedded in JSON or YAML-converted configs.
func (t *Template) UnmarshalJSON(raw []byte) error {
	parsed, err := ParseTemplate(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Validate reports whether raw is JSON whose shape matches t. It never
// panics and has no side effects.
func Validate(raw string, t Template) bool {
	v, ok := decode(raw)
	if !ok {
		return false
	}
	return Conforms(v, t)
}

// Conforms applies the shape check to an already decoded value.
func Conforms(v any, t Template) bool {
	if t.root == nil {
		return false
	}
	switch val := v.(type) {
	case map[string]any:
		return matchObject(val, t.root)
	case []any:
		if len(val) == 0 {
			return false
		}
		for _, item := range val {
			obj, ok := item.(map[string]any)
			if !ok || !matchObject(obj, t.root) {
				return false
			}
		}
		return true
	}
	return false
}

func matchObject(obj, tmpl map[string]any) bool {
	if len(obj) != len(tmpl) {
		return false
	}
	for key, want := range tmpl {
		got, ok := obj[key]
		if !ok {
			return false
		}
		if KindOf(got) != KindOf(want) {
			return false
		}
		if wantObj, isObj := want.(map[string]any); isObj {
			if !matchObject(got.(map[string]any), wantObj) {
				return false
			}
		}
	}
	return true
}

func decode(raw string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}
	return v, true
}
