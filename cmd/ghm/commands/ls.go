package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"ghmirror/pkg/gh"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [github-url]",
	Short: "List a remote directory at the pinned commit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if GHM == nil {
			return fmt.Errorf("app not initialized")
		}

		coord, err := gh.ParseURL(args[0])
		if err != nil {
			return err
		}
		client, err := GHM.RequireGitHub()
		if err != nil {
			return err
		}

		entries, err := client.List(cmd.Context(), coord, coord.RootPath)
		if err != nil {
			return fmt.Errorf("listing failed: %w", err)
		}

		// 对齐输出 (像 git ls-tree)
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\n", e.Kind, e.Path)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
