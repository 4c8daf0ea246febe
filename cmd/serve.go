package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teachathon/teachathon/internal/app"
	"github.com/teachathon/teachathon/internal/logging"
	"github.com/teachathon/teachathon/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP quiz service",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	quizzes, err := a.QuizService(ctx, true)
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv, err := server.New(quizzes, logger, server.Options{
		Addr:            cfg.HTTPAddr,
		Name:            cfg.Name,
		Version:         version,
		Production:      cfg.IsProduction(),
		CORS:            cfg.CORS,
		ShutdownTimeout: cfg.GracefulShutdownTimeout,
		Gatherer:        a.Registry,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	logger.Info().
		Str("provider", cfg.LLM.Provider).
		Str("model", a.Provider.ModelID()).
		Str("addr", cfg.HTTPAddr).
		Msg("starting quiz service")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("stop requested")
		return nil
	})

	return g.Wait()
}
