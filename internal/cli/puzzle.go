package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/crackthecode/internal/api/response"
)

func newPuzzleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "puzzle",
		Short: "Endless and category puzzles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "random",
		Short: "Get a random endless-mode puzzle",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Puzzle

			if err := client.Get(cmd.Context(), "/get-puzzle", &result); err != nil {
				return err
			}
			return show(result)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List puzzle categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []string

			if err := client.Get(cmd.Context(), "/categories", &result); err != nil {
				return err
			}
			return show(result)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "category <name>",
		Short: "Get every puzzle in a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Puzzle

			if err := client.Get(cmd.Context(), pathf("/get-category/%s", args[0]), &result); err != nil {
				return err
			}
			return show(result)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "hint",
		Short: "Get a bogus hint",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.BogusHint

			if err := client.Get(cmd.Context(), "/get-bogus-hint", &result); err != nil {
				return err
			}
			return show(result)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "phoneline",
		Short: "Call the phone line",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Message

			if err := client.Get(cmd.Context(), "/phoneline", &result); err != nil {
				return err
			}
			return show(result)
		},
	})

	return cmd
}
