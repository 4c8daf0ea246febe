package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teachathon/teachathon/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the language-model configuration",
}

var llmModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List model aliases and their pricing",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-10s  %-14s  %-32s  %s\n", "Provider", "Alias", "Model", "USD/1M in/out")
		fmt.Fprintln(w, strings.Repeat("─", 80))

		aliases := llm.Aliases()
		providers := make([]string, 0, len(aliases))
		for p := range aliases {
			providers = append(providers, p)
		}
		slices.Sort(providers)

		for _, p := range providers {
			names := make([]string, 0, len(aliases[p]))
			for alias := range aliases[p] {
				names = append(names, alias)
			}
			slices.Sort(names)

			for _, alias := range names {
				model := aliases[p][alias]
				price := "-"
				if c := llm.LookupCost(model); c != nil {
					price = fmt.Sprintf("%.3g / %.3g", c.InputPerMTok, c.OutputPerMTok)
				}
				fmt.Fprintf(w, "%-10s  %-14s  %-32s  %s\n", p, alias, model, price)
			}
		}
	},
}

var llmCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Show which provider and model the current environment selects",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.LLM.Validate(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "provider: %s\nmodel:    %s\n", cfg.LLM.Provider, cfg.LLM.Model())
		return nil
	},
}

func init() {
	llmCmd.AddCommand(llmModelsCmd)
	llmCmd.AddCommand(llmCheckCmd)
}
