package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/crackthecode/internal/api/response"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile commands",
	}

	cmd.AddCommand(newProfileMeCmd())
	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileAboutCmd())
	cmd.AddCommand(newProfilePictureCmd())
	cmd.AddCommand(newProfileStampCmd())
	cmd.AddCommand(newProfileSearchCmd())

	return cmd
}

func newProfileMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show your own profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Player

			if err := client.Get(cmd.Context(), "/profile", &result); err != nil {
				return err
			}
			return show(result)
		},
	}
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Show another player's public profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PublicProfile

			if err := client.Get(cmd.Context(), pathf("/public-profile/%s", args[0]), &result); err != nil {
				return err
			}
			return show(result)
		},
	}
}

func newProfileAboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about <text>",
		Short: "Set your about text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Message

			if err := client.Post(cmd.Context(), "/update-profile", map[string]string{"about": args[0]}, &result); err != nil {
				return err
			}
			return show(result)
		},
	}
}

func newProfilePictureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "picture <file>",
		Short: "Upload a profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Picture

			if err := client.Upload(cmd.Context(), "/upload-picture", "picture", args[0], &result); err != nil {
				return err
			}
			return show(result)
		},
	}
}

func newProfileStampCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stamp <category>",
		Short: "Record a completed category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Message

			if err := client.Post(cmd.Context(), "/complete-category", map[string]string{"category": args[0]}, &result); err != nil {
				return err
			}
			return show(result)
		},
	}
}

func newProfileSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search players by username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []response.PlayerSummary

			if err := client.Get(cmd.Context(), pathf("/search-users/%s", args[0]), &result); err != nil {
				return err
			}
			return show(result)
		},
	}
}
