package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teachathon/teachathon/internal/app"
	"github.com/teachathon/teachathon/internal/logging"
	"github.com/teachathon/teachathon/internal/quiz"
	"github.com/teachathon/teachathon/internal/quizgen"
	"github.com/teachathon/teachathon/internal/ui/quizview"
)

var generateCmd = &cobra.Command{
	Use:   "generate <transcript>",
	Short: "Generate a quiz from a transcript file",
	Long: `Generate a quiz from a conversation transcript.

The transcript is a JSON array of {"role", "content"} messages, a JSON object
with a "messages" array, or plain text. Use "-" to read from stdin.

Without --publish the quiz is only printed. With --publish it is created as a
Google Form, and --email sends the link to a recipient.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int("mcq", 3, "Number of multiple-choice questions")
	generateCmd.Flags().Int("open", 2, "Number of open-ended questions")
	generateCmd.Flags().Bool("publish", false, "Publish the quiz as a Google Form")
	generateCmd.Flags().String("email", "", "Email the form link to this address (implies --publish)")
	generateCmd.Flags().String("out", "", "Save the quiz as JSON for `mindfullm practice`")
	generateCmd.Flags().Bool("hide-answers", false, "Do not print correct answers")
	generateCmd.Flags().Bool("balance", false, "Print the correct-answer letter distribution")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	numMCQ, _ := cmd.Flags().GetInt("mcq")
	numOpen, _ := cmd.Flags().GetInt("open")
	publish, _ := cmd.Flags().GetBool("publish")
	email, _ := cmd.Flags().GetString("email")
	out, _ := cmd.Flags().GetString("out")
	hideAnswers, _ := cmd.Flags().GetBool("hide-answers")
	showBalance, _ := cmd.Flags().GetBool("balance")

	if numMCQ < 0 || numOpen < 0 || numMCQ+numOpen == 0 {
		return fmt.Errorf("request at least one question (got --mcq=%d --open=%d)", numMCQ, numOpen)
	}

	messages, err := readTranscript(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := logging.IntoContext(cmd.Context(), logger)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	req := quiz.Request{Messages: messages, NumMCQ: numMCQ, NumOpen: numOpen, Recipient: email}

	var res *quiz.Result
	if publish || email != "" {
		svc, err := a.QuizService(ctx, email != "")
		if err != nil {
			return err
		}
		res, err = svc.Create(ctx, req)
		if err != nil {
			return err
		}
	} else {
		res, err = quiz.NewService(a.Generator, nil, nil, a.Metrics).Draft(ctx, req)
		if err != nil {
			return err
		}
	}

	q := quizgen.Quiz{Title: res.Title, FormURL: res.FormURL, Questions: res.Questions}
	w := cmd.OutOrStdout()
	fmt.Fprint(w, quizview.Render(q, quizview.Options{HideAnswers: hideAnswers}))
	if showBalance {
		fmt.Fprintln(w)
		fmt.Fprintln(w, quizview.Balance(res.AnswerBalance, 40))
	}

	if res.EmailSent {
		fmt.Fprintf(w, "\nLink sent to %s\n", email)
	}
	if res.EmailError != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", res.EmailError)
	}

	if out != "" {
		if err := q.Save(out); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved to %s\n", out)
	}
	return nil
}
