package main

import (
	"errors"

	"github.com/spf13/cobra"

	"cvai-core/internal/models"
	"cvai-core/internal/store"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or set the user profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := app.Store.GetUserProfile(cmd.Context())
		if errors.Is(err, store.ErrNotFound) {
			return errors.New("no profile stored; run 'cvai profile set'")
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), p)
	},
}

var (
	profileName  string
	profileEmail string
	profilePhone string
)

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace the profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := app.Store.SaveUserProfile(cmd.Context(), models.UserProfile{
			Name:  profileName,
			Email: profileEmail,
			Phone: profilePhone,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), p)
	},
}

func init() {
	profileSetCmd.Flags().StringVar(&profileName, "name", "", "Full name (required)")
	profileSetCmd.Flags().StringVar(&profileEmail, "email", "", "Email address (required)")
	profileSetCmd.Flags().StringVar(&profilePhone, "phone", "", "Phone number")
	_ = profileSetCmd.MarkFlagRequired("name")
	_ = profileSetCmd.MarkFlagRequired("email")

	profileCmd.AddCommand(profileShowCmd, profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}
