package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/crackthecode/internal/api/response"
)

func newSignupCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username": user,
				"password": pass,
			}
			var result response.Signup

			if err := client.Post(cmd.Context(), "/signup", req, &result); err != nil {
				return err
			}
			return show(result)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login and save the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username": user,
				"password": pass,
			}
			var result response.Login

			if err := client.Post(cmd.Context(), "/login", req, &result); err != nil {
				return err
			}

			session := Session{Server: cfg.ServerURL, Username: user, Token: result.AccessToken}
			if err := cfg.SaveSession(session); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			return show(result)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ClearSession(); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the saved session without contacting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := cfg.LoadSession()
			if err != nil {
				return err
			}
			if session.Token == "" {
				return errors.New("not logged in")
			}
			return show(Whoami{Username: session.Username, Server: session.Server})
		},
	}
}

// Whoami is the locally saved identity
type Whoami struct {
	Username string `json:"username"`
	Server   string `json:"server"`
}
