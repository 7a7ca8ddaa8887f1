package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/crackthecode/internal/api/response"
)

func newDailyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Daily puzzle commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show today's puzzle",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.DailyPuzzle

			if err := client.Get(cmd.Context(), "/daily-puzzle", &result); err != nil {
				return err
			}
			return show(result)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "complete",
		Short: "Mark today's puzzle as solved",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Streak

			if err := client.Post(cmd.Context(), "/complete-daily-puzzle", nil, &result); err != nil {
				return err
			}
			return show(result)
		},
	})

	return cmd
}
