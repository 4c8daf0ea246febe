package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teachathon/teachathon/internal/googleauth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize access to Google Forms and Gmail",
	Long: `Run the OAuth consent flow for the client secrets in GOOGLE_CREDENTIALS_FILE
and store the resulting token in GOOGLE_TOKEN_FILE. Service-account
credentials need no authorization.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		oauthCfg, err := googleauth.OAuthConfig(cfg.Google.CredentialsFile, googleauth.Scopes...)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		tok, err := googleauth.Authorize(cmd.Context(), oauthCfg, func(url string) {
			fmt.Fprintln(w, "Open this URL in your browser to authorize MindfuLLM:")
			fmt.Fprintln(w)
			fmt.Fprintln(w, "  "+url)
			fmt.Fprintln(w)
		})
		if err != nil {
			return fmt.Errorf("authorize: %w", err)
		}

		if err := googleauth.SaveToken(cfg.Google.TokenFile, tok); err != nil {
			return err
		}
		fmt.Fprintf(w, "Token saved to %s\n", cfg.Google.TokenFile)
		return nil
	},
}
