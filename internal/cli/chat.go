package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/crackthecode/internal/api/response"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Friend and group chat",
		Long: `Chat with a friend or a group. <type> is "friend" or "group" and
<target> is the friend's username or the group name.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "history <type> <target>",
		Short: "Show recent messages",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.ChatMessage

			if err := client.Get(cmd.Context(), pathf("/chat/%s/%s", args[0], args[1]), &result); err != nil {
				return err
			}
			return show(result)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "send <type> <target> <message>",
		Short: "Send a message",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Message

			if err := client.Post(cmd.Context(), pathf("/chat/%s/%s", args[0], args[1]), map[string]string{"message": args[2]}, &result); err != nil {
				return err
			}
			return show(result)
		},
	})

	return cmd
}
