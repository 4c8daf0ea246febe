package server

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/teachathon/teachathon/internal/conversation"
	"github.com/teachathon/teachathon/internal/quiz"
)

//go:embed quiz_request.schema.json
var quizRequestSchema []byte

const quizRequestSchemaURL = "schema://quiz_request.json"

// quizRequest is the body of POST /receive and POST /api/quiz.
type quizRequest struct {
	UserEmail      string                 `json:"user_email"`
	RecipientEmail string                 `json:"recipient_email"`
	NumMCQ         int                    `json:"num_mcq"`
	NumOpen        int                    `json:"num_open"`
	Messages       []conversation.Message `json:"messages"`
}

func (r quizRequest) toQuiz() quiz.Request {
	recipient := r.UserEmail
	if recipient == "" {
		recipient = r.RecipientEmail
	}
	return quiz.Request{
		Messages:  r.Messages,
		NumMCQ:    r.NumMCQ,
		NumOpen:   r.NumOpen,
		Recipient: recipient,
	}
}

// FieldError names one rejected field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists why a request body was rejected.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

// requestValidator checks request bodies against the embedded schema.
type requestValidator struct {
	schema *jsonschema.Schema
}

func newRequestValidator() (*requestValidator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(quizRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("parse request schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	c.AssertFormat()
	if err := c.AddResource(quizRequestSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add request schema: %w", err)
	}
	schema, err := c.Compile(quizRequestSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile request schema: %w", err)
	}
	return &requestValidator{schema: schema}, nil
}

// parse validates body and decodes it. Failures are *ValidationError.
func (v *requestValidator) parse(body []byte) (quizRequest, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return quizRequest{}, &ValidationError{Message: "request body is not valid JSON"}
	}

	if err := v.schema.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return quizRequest{}, &ValidationError{Message: "Validation failed", Fields: leafErrors(ve)}
		}
		return quizRequest{}, &ValidationError{Message: err.Error()}
	}

	var req quizRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return quizRequest{}, &ValidationError{Message: "request body does not match the quiz request shape"}
	}
	if req.NumMCQ+req.NumOpen <= 0 {
		return quizRequest{}, &ValidationError{
			Message: "At least one question (MCQ or open-ended) must be requested",
			Fields:  []FieldError{{Field: "num_mcq", Rule: "sum"}, {Field: "num_open", Rule: "sum"}},
		}
	}
	return req, nil
}

func leafErrors(ve *jsonschema.ValidationError) []FieldError {
	if len(ve.Causes) == 0 {
		rule := ""
		if ve.ErrorKind != nil {
			rule = strings.Join(ve.ErrorKind.KeywordPath(), "/")
		}
		return []FieldError{{Field: strings.Join(ve.InstanceLocation, "."), Rule: rule}}
	}
	var out []FieldError
	for _, cause := range ve.Causes {
		out = append(out, leafErrors(cause)...)
	}
	return out
}
