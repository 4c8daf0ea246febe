package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teachathon/teachathon/internal/agent"
	"github.com/teachathon/teachathon/internal/llm"
	"github.com/teachathon/teachathon/internal/logging"
	"github.com/teachathon/teachathon/internal/quiz"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Status  string       `json:"status"`
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// classify maps an error to its HTTP status and error code.
func classify(err error) (int, string) {
	var validation *ValidationError
	var exhausted *agent.ErrGenerationExhausted
	var publish *quiz.ErrPublish
	var rateLimit *llm.ErrRateLimit
	var unavailable *llm.ErrProviderUnavailable

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, "validation_failed"
	case errors.As(err, &exhausted):
		return http.StatusBadGateway, "generation_failed"
	case errors.As(err, &publish):
		return http.StatusBadGateway, "publish_failed"
	case errors.As(err, &rateLimit), errors.As(err, &unavailable), errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway, "upstream_error"
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeError logs err and writes its JSON error response. Internal errors
// hide their message in production.
func (s *Server) writeError(c *gin.Context, err error) {
	status, code := classify(err)

	logger := logging.FromContext(c.Request.Context())
	evt := logger.Warn()
	if status >= http.StatusInternalServerError {
		evt = logger.Error()
	}
	evt.Err(err).Str("error_code", code).Int("status", status).Msg("request failed")

	resp := errorResponse{Status: "error", Error: code, Message: err.Error()}
	var validation *ValidationError
	if errors.As(err, &validation) {
		resp.Message = validation.Message
		resp.Details = validation.Fields
	}
	if code == "internal_error" && s.production {
		resp.Message = "An unexpected error occurred"
	}
	c.AbortWithStatusJSON(status, resp)
}
