package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ghmirror/pkg/gh"
	"ghmirror/pkg/mirror"
	"ghmirror/pkg/sink"
	"ghmirror/pkg/sink/disk"
	"ghmirror/pkg/sink/s3"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var mirrorYes bool

var mirrorCmd = &cobra.Command{
	Use:   "mirror [github-url]",
	Short: "Mirror a repository folder at a pinned commit",
	Long: `Recursively download every file under the given GitHub folder URL
(https://github.com/owner/repo/tree/commit/path) into the output directory,
preserving the remote directory structure. Hidden entries (names starting
with '.') are skipped at every level.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if GHM == nil {
			return fmt.Errorf("app not initialized")
		}
		ctx := cmd.Context()

		// 1. 解析坐标（Setup 阶段，失败即终止）
		coord, err := gh.ParseURL(args[0])
		if err != nil {
			return err
		}

		client, err := GHM.RequireGitHub()
		if err != nil {
			return err
		}

		// 2. 认证探测：遍历开始前把凭证问题暴露出来
		login, err := client.Verify(ctx)
		if err != nil {
			return fmt.Errorf("authentication check failed: %w\n(Check your credentials and try again)", err)
		}
		fmt.Printf("🔑 Authenticated as %s\n", login)

		fmt.Printf("📋 Repository: %s/%s\n", coord.Owner, coord.Repo)
		fmt.Printf("📋 Commit:     %s\n", coord.Commit)
		fmt.Printf("📋 Folder:     %s\n", displayPath(coord.RootPath))

		// 3. 确认（可用 --yes 跳过）
		if !mirrorYes && !confirm("Continue with download? (y/n): ") {
			fmt.Println("Cancelled.")
			return nil
		}

		// 4. 准备输出端：<output.dir>/<repo>_<short-commit>/
		runName := fmt.Sprintf("%s_%s", coord.Repo, coord.ShortCommit())
		out, outputDir, err := buildSink(cmd, runName)
		if err != nil {
			return err
		}

		// 5. 执行遍历 (The Heavy Lifting)
		start := time.Now()
		GHM.Logger.Info("mirror started", "coord", coord.String(), "output", outputDir)

		walker := mirror.NewWalker(client, GHM.Fetcher, out, GHM.Ignore, mirror.DefaultPacer, GHM.Logger)
		stats := walker.Walk(ctx, coord, coord.RootPath)

		duration := time.Since(start)

		// 6. 摘要永远打印，部分失败只体现在日志和 Failed 计数里
		fmt.Printf("\n✅ Done in %s\n", duration.Round(time.Millisecond))
		fmt.Printf("   Files downloaded: %d\n", stats.Downloaded)
		if stats.Failed > 0 {
			fmt.Printf("   Files failed:     %d (see log for details)\n", stats.Failed)
		}
		fmt.Printf("   Output: %s\n", outputDir)

		// 7. 落历史记录（旁路，失败只打日志）
		if err := GHM.History.Record(ctx, coord, outputDir, stats.Downloaded, stats.Failed, stats.FailedPaths, start, duration); err != nil {
			GHM.Logger.Warn("failed to record run history", "err", err)
		}

		return nil
	},
}

// buildSink 根据配置选择输出端：本地磁盘（默认）或 S3
func buildSink(cmd *cobra.Command, runName string) (sink.Sink, string, error) {
	switch viper.GetString("output.type") {
	case "disk", "":
		root := filepath.Join(viper.GetString("output.dir"), runName)
		s, err := disk.NewSink(root)
		if err != nil {
			return nil, "", err
		}
		return s, root, nil

	case "s3":
		bucket := viper.GetString("s3.bucket")
		s, err := s3.NewSink(cmd.Context(), s3.Config{
			Endpoint:        viper.GetString("s3.endpoint"),
			Region:          viper.GetString("s3.region"),
			Bucket:          bucket,
			AccessKeyID:     viper.GetString("s3.access_key_id"),
			SecretAccessKey: viper.GetString("s3.secret_access_key"),
		}, runName)
		if err != nil {
			return nil, "", err
		}
		return s, fmt.Sprintf("s3://%s/%s", bucket, runName), nil

	default:
		return nil, "", fmt.Errorf("unsupported output type: %s", viper.GetString("output.type"))
	}
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(line)) == "y"
}

func displayPath(p string) string {
	if p == "" {
		return "(repository root)"
	}
	return p
}

func init() {
	mirrorCmd.Flags().BoolVarP(&mirrorYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(mirrorCmd)
}
