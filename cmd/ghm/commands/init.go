package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const configTemplate = `# ghmirror configuration
github:
  username: your_username
  token: your_personal_access_token

output:
  dir: github_download
  type: disk # or "s3"

# s3:
#   endpoint: http://localhost:9000
#   region: us-east-1
#   bucket: mirrors
#   access_key_id: minioadmin
#   secret_access_key: minioadmin

# cache:
#   redis_url: redis://localhost:6379/0
#   ttl: 24h
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a template configuration file",
	Long:  `Create .ghm/config.yaml in the current directory with placeholder credentials. Fill it in (or use a .env file / environment variables) before mirroring.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ".ghm"
		path := filepath.Join(dir, "config.yaml")

		// 已有配置绝不覆盖
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("⚠️  Config already exists at %s\n", path)
			return nil
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
			return fmt.Errorf("failed to write config template: %w", err)
		}

		fmt.Printf("✅ Wrote %s, fill in your GitHub credentials before running 'ghm mirror'\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
