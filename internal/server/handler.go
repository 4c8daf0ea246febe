package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 10 << 20

// quizData is the data object of a successful quiz response.
type quizData struct {
	FormURL            string `json:"form_url"`
	QuizTitle          string `json:"quiz_title"`
	QuestionsGenerated int    `json:"questions_generated"`
	EmailSent          bool   `json:"email_sent"`
	EmailError         string `json:"email_error,omitempty"`
}

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    s.name,
		"version": s.version,
		"endpoints": gin.H{
			"health":  "GET /health",
			"receive": "POST /receive",
			"quiz":    "POST /api/quiz",
			"metrics": "GET /metrics",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.started).Seconds(),
	})
}

// handleQuiz validates the body, runs the quiz request and reports the
// published form.
func (s *Server) handleQuiz(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorResponse{
				Status:  "error",
				Error:   "payload_too_large",
				Message: "request body exceeds 10MB",
			})
			return
		}
		s.writeError(c, &ValidationError{Message: "could not read request body"})
		return
	}

	req, err := s.validator.parse(body)
	if err != nil {
		s.writeError(c, err)
		return
	}

	res, err := s.quizzes.Create(c.Request.Context(), req.toQuiz())
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": quizData{
			FormURL:            res.FormURL,
			QuizTitle:          res.Title,
			QuestionsGenerated: res.QuestionsGenerated,
			EmailSent:          res.EmailSent,
			EmailError:         res.EmailError,
		},
	})
}
