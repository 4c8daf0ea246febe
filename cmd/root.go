package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/teachathon/teachathon/internal/config"
	"github.com/teachathon/teachathon/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "mindfullm",
	Short:         "Turn chat transcripts into quizzes",
	Long:          "MindfuLLM generates multiple-choice and open-ended quizzes from a conversation with a language model, publishes them as Google Forms and emails the link.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("env-file", config.DefaultEnvFile, "Load environment variables from this file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the env file and environment, then builds the logger.
func loadConfig(cmd *cobra.Command) (*config.App, zerolog.Logger, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, zerolog.Nop(), err
	}

	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Name, cfg.Env).
		Level(logging.ParseLevel(cfg.LogLevel))
	return cfg, logger, nil
}
