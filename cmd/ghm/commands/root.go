package commands

import (
	"fmt"
	"os"

	"ghmirror/pkg/app"
	"ghmirror/pkg/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// 全局应用实例，供子命令使用
	GHM *app.App
)

var rootCmd = &cobra.Command{
	Use:   "ghm",
	Short: "ghmirror: mirror a GitHub directory at a pinned commit",
	Long:  `Download all files from a specific folder in a GitHub repository, at an exact commit, preserving the directory structure locally (or in S3).`,
	// 【关键】PersistentPreRunE 会在所有子命令执行前运行
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init 只是生成模板配置，跳过依赖组装
		if cmd.Name() == "init" {
			return nil
		}

		var err error
		GHM, err = app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize ghmirror: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if GHM != nil {
			_ = GHM.Close()
		}
	},
}

// Execute 是入口
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ghm/config.yaml)")

	// 常用配置项同时暴露为全局参数，绑定到 Viper
	rootCmd.PersistentFlags().String("output", "", "Root directory for mirrored output")
	if err := viper.BindPFlag("output.dir", rootCmd.PersistentFlags().Lookup("output")); err != nil {
		fmt.Println("Failed to bind flag:", err)
		os.Exit(1)
	}
}

func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Println("Config error:", err)
		os.Exit(1)
	}
}
