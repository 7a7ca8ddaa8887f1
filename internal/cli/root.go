package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	root := &cobra.Command{
		Use:   "ctc",
		Short: "Play CrackTheCode from the terminal",
		Long: `ctc talks to a CrackTheCode server: accounts and profiles, the daily
puzzle and streaks, scores and the leaderboard, friends, groups, chat and
the authored puzzle pool.

login stores the access token in a session file; --token or CTC_TOKEN
overrides it for a single call.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.ResolveToken(); err != nil {
				return err
			}
			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			client = NewClient(cfg.ServerURL, cfg.Token, logger)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "server URL (env: CTC_SERVER)")
	flags.StringVar(&cfg.Token, "token", cfg.Token, "access token, overriding the session (env: CTC_TOKEN)")
	flags.StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "where login keeps its session (env: CTC_SESSION_FILE)")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "output format: text or json")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "log each API call to stderr")

	root.AddCommand(
		newSignupCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newProfileCmd(),
		newDailyCmd(),
		newScoresCmd(),
		newPuzzleCmd(),
		newFriendsCmd(),
		newGroupsCmd(),
		newChatCmd(),
		newHealthCmd(),
	)
	return root
}

// Execute runs ctc. API errors exit with status 2, anything else with 1.
func Execute() {
	err := NewRootCmd().Execute()
	if err == nil {
		return
	}
	NewOutput(cfg.Output).PrintError(err)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		os.Exit(2)
	}
	os.Exit(1)
}

// show prints v in the configured output format
func show(v any) error {
	NewOutput(cfg.Output).Print(v)
	return nil
}
