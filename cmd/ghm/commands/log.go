package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent mirror runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if GHM == nil {
			return fmt.Errorf("app not initialized")
		}

		runs, err := GHM.History.Recent(cmd.Context(), logLimit)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No mirror runs yet.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(tw, "WHEN\tREPO\tCOMMIT\tFILES\tFAILED\tDURATION\tOUTPUT")
		for _, r := range runs {
			commit := r.Commit
			if len(commit) > 7 {
				commit = commit[:7]
			}
			fmt.Fprintf(tw, "%s\t%s/%s\t%s\t%d\t%d\t%s\t%s\n",
				r.StartedAt.Format(time.DateTime),
				r.Owner, r.Repo,
				commit,
				r.Downloaded,
				r.Failed,
				(time.Duration(r.DurationMS) * time.Millisecond).String(),
				r.OutputDir,
			)
		}
		return tw.Flush()
	},
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "Number of runs to show")
	rootCmd.AddCommand(logCmd)
}
