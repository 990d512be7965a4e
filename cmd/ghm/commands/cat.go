package commands

import (
	"fmt"
	"os"

	"ghmirror/pkg/gh"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat [github-url]",
	Short: "Fetch a single file and write it to stdout",
	Long:  `Fetch one file (https://github.com/owner/repo/blob/commit/path) through the standard channel chain (API first, raw fallback) and print the bytes to stdout.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if GHM == nil {
			return fmt.Errorf("app not initialized")
		}

		coord, err := gh.ParseURL(args[0])
		if err != nil {
			return err
		}
		if coord.RootPath == "" {
			return fmt.Errorf("URL must point at a file, not the repository root")
		}
		if _, err := GHM.RequireGitHub(); err != nil {
			return err
		}

		got, err := GHM.Fetcher.Fetch(cmd.Context(), coord, coord.RootPath)
		if err != nil {
			return err
		}

		_, err = os.Stdout.Write(got.Data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
