package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/crackthecode/internal/api/response"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up and how long it takes to answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			var health response.Health
			started := time.Now()
			if err := client.Get(cmd.Context(), "/health", &health); err != nil {
				return err
			}
			return show(ServerHealth{
				Status:    health.Status,
				Server:    cfg.ServerURL,
				LatencyMS: time.Since(started).Milliseconds(),
			})
		},
	}
}

// ServerHealth is the health check as seen from the client
type ServerHealth struct {
	Status    string `json:"status"`
	Server    string `json:"server"`
	LatencyMS int64  `json:"latencyMs"`
}
