// Package server exposes the quiz pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/teachathon/teachathon/internal/config"
	"github.com/teachathon/teachathon/internal/quiz"
)

// QuizCreator runs one quiz request.
type QuizCreator interface {
	Create(ctx context.Context, req quiz.Request) (*quiz.Result, error)
}

// Options configures a Server.
type Options struct {
	Addr            string
	Name            string
	Version         string
	Production      bool
	CORS            config.CORS
	ShutdownTimeout time.Duration
	// Gatherer backs GET /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer
}

// Server is the HTTP front of the quiz service.
type Server struct {
	engine    *gin.Engine
	quizzes   QuizCreator
	validator *requestValidator
	logger    zerolog.Logger
	opts      Options

	name       string
	version    string
	production bool
	started    time.Time
	now        func() time.Time
}

// New builds the router. It fails only if the embedded request schema does
// not compile.
func New(quizzes QuizCreator, logger zerolog.Logger, opts Options) (*Server, error) {
	validator, err := newRequestValidator()
	if err != nil {
		return nil, err
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 20 * time.Second
	}

	s := &Server{
		quizzes:    quizzes,
		validator:  validator,
		logger:     logger.With().Str("component", "http").Logger(),
		opts:       opts,
		name:       opts.Name,
		version:    opts.Version,
		production: opts.Production,
		started:    time.Now(),
		now:        time.Now,
	}
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestContext(s.logger))
	r.Use(requestLogger())
	r.Use(s.recovery())
	r.Use(corsMiddleware(s.opts.CORS))
	r.NoRoute(notFound)

	r.GET("/", s.handleIndex)
	r.GET("/health", s.handleHealth)
	r.POST("/receive", s.handleQuiz)
	r.POST("/api/quiz", s.handleQuiz)
	if s.opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))
	}
	return r
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.opts.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Dur("timeout", s.opts.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
