package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mcoot/crackthecode/internal/api/response"
)

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Score and leaderboard commands",
	}

	cmd.AddCommand(newScoresSubmitCmd())
	cmd.AddCommand(newScoresTopCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "mine",
		Short: "List your submitted scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Score

			if err := client.Get(cmd.Context(), "/my-scores", &result); err != nil {
				return err
			}
			return show(result)
		},
	})

	return cmd
}

func newScoresSubmitCmd() *cobra.Command {
	var (
		score     int
		sessionID string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a score for a play session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			req := map[string]any{
				"score":     score,
				"sessionId": sessionID,
			}
			var result response.Score

			if err := client.Post(cmd.Context(), "/submit-score", req, &result); err != nil {
				return err
			}
			return show(result)
		},
	}

	cmd.Flags().IntVar(&score, "score", 0, "Score (required)")
	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: a new random ID)")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}

func newScoresTopCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/get-highscores"
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}
			var result []response.LeaderboardEntry

			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			return show(result)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of entries (default: server default)")

	return cmd
}
