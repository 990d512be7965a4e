package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Verify credentials and print the authenticated login",
	RunE: func(cmd *cobra.Command, args []string) error {
		if GHM == nil {
			return fmt.Errorf("app not initialized")
		}
		client, err := GHM.RequireGitHub()
		if err != nil {
			return err
		}

		login, err := client.Verify(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("✅ Authenticated as %s\n", login)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
