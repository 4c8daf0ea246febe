package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teachathon/teachathon/internal/quizgen"
	"github.com/teachathon/teachathon/internal/ui/practice"
)

var practiceCmd = &cobra.Command{
	Use:   "practice <quiz.json>",
	Short: "Take a saved quiz in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := quizgen.LoadQuiz(args[0])
		if err != nil {
			return err
		}

		correct, answered, err := practice.Run(q)
		if err != nil {
			return err
		}
		if answered > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d of %d multiple-choice correct\n", q.Title, correct, answered)
		}
		return nil
	},
}
