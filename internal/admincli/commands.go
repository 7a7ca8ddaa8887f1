package admincli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/crackthecode/internal/model"
)

func newPuzzleCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "puzzle",
		Short: "Author endless and category puzzles",
	}

	cmd.AddCommand(newPuzzleAddCmd(st))
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Import puzzles from a tab-separated file",
		Long: `Import puzzles from a file with one puzzle per line:

    category<TAB>hint<TAB>sentence

An empty category adds the puzzle to the endless pool. Blank lines and lines
starting with # are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := st.app.Pool.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d puzzles\n", n)
			return nil
		},
	})

	return cmd
}

func newPuzzleAddCmd(st *state) *cobra.Command {
	var category, hint string

	cmd := &cobra.Command{
		Use:   "add <sentence>",
		Short: "Add a puzzle. With --category it joins that category, otherwise the endless pool.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := model.PuzzleEndless
			if category != "" {
				kind = model.PuzzleCategory
			}
			p, err := st.app.Pool.AddPuzzle(cmd.Context(), args[0], category, hint, kind)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s puzzle %s: %q (revealed %s)\n",
				p.Kind, p.ID, p.Sentence, strings.Join(p.RevealedLetters, ","))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category name")
	cmd.Flags().StringVar(&hint, "hint", "", "Hint shown with the puzzle")

	return cmd
}

func newFlavorCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flavor",
		Short: "Manage bogus hints and phone lines",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <bogus-hint|phone-line> <text>",
		Short: "Add a bogus hint or phone line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := model.FlavorKind(strings.ReplaceAll(args[0], "-", "_"))
			if err := st.app.Pool.AddFlavor(cmd.Context(), kind, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", args[0])
			return nil
		},
	})

	return cmd
}

func newDailyCmd(st *state) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Create the daily puzzle ahead of time if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = st.app.Daily.Today()
			}
			p, err := st.app.Daily.GetOrCreateDaily(cmd.Context(), date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Daily puzzle for %s: %q (%s)\n", p.Date, p.Sentence, p.Hint)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default: today, UTC)")

	return cmd
}

func newResetPasswordCmd(st *state) *cobra.Command {
	var pass string

	cmd := &cobra.Command{
		Use:   "reset-password <username>",
		Short: "Set a new password for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.app.AuthService.ResetPassword(cmd.Context(), args[0], pass); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password reset for %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&pass, "pass", "", "New password (required)")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newResetStreaksCmd(st *state) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "reset-streaks",
		Short: "Zero the streak of every player who missed the previous day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = st.app.Daily.Today()
			}
			n, err := st.app.Daily.ResetStreaks(cmd.Context(), date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %d streaks for %s\n", n, date)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date of the run as YYYY-MM-DD (default: today, UTC)")

	return cmd
}
