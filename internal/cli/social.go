package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/crackthecode/internal/api/response"
)

func newFriendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Friend list and friend requests",
	}

	cmd.AddCommand(listCmd("list", "List your friends", "/get-friends"))
	cmd.AddCommand(listCmd("requests", "List incoming friend requests", "/friend-requests"))
	cmd.AddCommand(friendActionCmd("add <username>", "Send a friend request", "/send-friend-request"))
	cmd.AddCommand(friendActionCmd("accept <username>", "Accept a friend request", "/accept-friend-request"))
	cmd.AddCommand(friendActionCmd("deny <username>", "Deny a friend request", "/deny-friend-request"))
	cmd.AddCommand(friendActionCmd("remove <username>", "Remove a friend", "/remove-friend"))

	return cmd
}

func listCmd(use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.PlayerSummary

			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			return show(result)
		},
	}
}

func friendActionCmd(use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Message

			if err := client.Post(cmd.Context(), path, map[string]string{"username": args[0]}, &result); err != nil {
				return err
			}
			return show(result)
		},
	}
}

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Group commands",
	}

	cmd.AddCommand(newGroupCreateCmd())
	cmd.AddCommand(newGroupJoinCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "leave <name>",
		Short: "Leave a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Message

			if err := client.Post(cmd.Context(), "/leave-group", map[string]string{"name": args[0]}, &result); err != nil {
				return err
			}
			return show(result)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "kick <group> <username>",
		Short: "Remove a member from a group you administer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"group": args[0], "username": args[1]}
			var result response.Message

			if err := client.Post(cmd.Context(), "/remove-member", req, &result); err != nil {
				return err
			}
			return show(result)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "search <query>",
		Short: "Search groups by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Group

			if err := client.Get(cmd.Context(), pathf("/search-groups/%s", args[0]), &result); err != nil {
				return err
			}
			return show(result)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "mine",
		Short: "List groups you belong to",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.Group

			if err := client.Get(cmd.Context(), "/my-groups", &result); err != nil {
				return err
			}
			return show(result)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "members <name>",
		Short: "List a group's members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.PlayerSummary

			if err := client.Get(cmd.Context(), pathf("/group-members/%s", args[0]), &result); err != nil {
				return err
			}
			return show(result)
		},
	})

	return cmd
}

func newGroupCreateCmd() *cobra.Command {
	var pass string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a password-protected group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[0], "password": pass}
			var result response.Group

			if err := client.Post(cmd.Context(), "/create-group", req, &result); err != nil {
				return err
			}
			return show(result)
		},
	}

	cmd.Flags().StringVar(&pass, "pass", "", "Group password (required)")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newGroupJoinCmd() *cobra.Command {
	var pass string

	cmd := &cobra.Command{
		Use:   "join <name>",
		Short: "Join a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": args[0], "password": pass}
			var result response.Message

			if err := client.Post(cmd.Context(), "/join-group", req, &result); err != nil {
				return err
			}
			return show(result)
		},
	}

	cmd.Flags().StringVar(&pass, "pass", "", "Group password (required)")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}
