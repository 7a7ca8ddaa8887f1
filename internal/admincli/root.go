// Package admincli is the operator CLI. It talks to storage directly
// through the application factory rather than over HTTP.
package admincli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/crackthecode/internal/config"
	"github.com/mcoot/crackthecode/internal/factory"
)

// Opener builds the App a command runs against
type Opener func(ctx context.Context, configPath string) (*factory.App, error)

// OpenFromConfig loads configuration and wires a full App
func OpenFromConfig(ctx context.Context, configPath string) (*factory.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return nil, err
	}
	return factory.New(ctx, cfg, logger)
}

type state struct {
	configPath string
	open       Opener
	app        *factory.App
}

// NewRootCmd creates the root command. open is called once before any
// subcommand runs.
func NewRootCmd(open Opener) *cobra.Command {
	st := &state{open: open}

	rootCmd := &cobra.Command{
		Use:   "ctc-admin",
		Short: "Administer a CrackTheCode deployment",
		Long: `ctc-admin authors puzzle content and performs account and streak
maintenance against the configured storage backend.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.open(cmd.Context(), st.configPath)
			if err != nil {
				return err
			}
			st.app = app
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if st.app == nil {
				return nil
			}
			return st.app.Close()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&st.configPath, "config", os.Getenv("CTC_CONFIG"), "Path to a YAML config file (env: CTC_CONFIG)")

	rootCmd.AddCommand(newPuzzleCmd(st))
	rootCmd.AddCommand(newFlavorCmd(st))
	rootCmd.AddCommand(newDailyCmd(st))
	rootCmd.AddCommand(newResetPasswordCmd(st))
	rootCmd.AddCommand(newResetStreaksCmd(st))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd(OpenFromConfig).ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error("command failed", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}
}
